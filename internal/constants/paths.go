package constants

// Directory and file names.
const (
	// AppHome is the name of the home directory (~/.jiraexport) and of the
	// project configuration directory (.jiraexport).
	AppHome = ".jiraexport"

	// EnvHome overrides the home directory location.
	EnvHome = "JIRAEXPORT_HOME"

	// EnvPrefix is the prefix of configuration environment variables.
	EnvPrefix = "JIRAEXPORT"

	// ConfigFileName is the name of both the global and the project config file.
	ConfigFileName = "config.yaml"

	// LogsDir is the log directory below AppHome.
	LogsDir = "logs"

	// CLILogFileName is the rotating CLI log file.
	CLILogFileName = "jiraexport.log"

	// ReportFileExt is the extension of story report files.
	ReportFileExt = ".json"
)

// Log rotation settings.
const (
	LogMaxSizeMB  = 10
	LogMaxBackups = 5
	LogMaxAgeDays = 30
	LogCompress   = true
)
