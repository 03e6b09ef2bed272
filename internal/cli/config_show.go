package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/jiraexport/internal/config"
	"github.com/mrz1836/jiraexport/internal/constants"
	"github.com/mrz1836/jiraexport/internal/errors"
	"github.com/mrz1836/jiraexport/internal/logging"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect jiraexport configuration",
	}
	AddConfigShowCommand(cmd)
	root.AddCommand(cmd)
}

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
}

// newConfigShowCmd creates the 'config show' subcommand.
func newConfigShowCmd(flags *ConfigShowFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display the effective jiraexport configuration with source annotations.

Each value is annotated with where it comes from:
  - default: Built-in default value
  - global: From ~/.jiraexport/config.yaml
  - project: From .jiraexport/config.yaml
  - env: From a JIRAEXPORT_* environment variable

Sensitive values are masked in the output.

Examples:
  jiraexport config show
  jiraexport config show --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", "yaml", "output format (yaml or json)")

	return cmd
}

// AddConfigShowCommand adds the show subcommand to the config command.
func AddConfigShowCommand(configCmd *cobra.Command) {
	flags := &ConfigShowFlags{}
	configCmd.AddCommand(newConfigShowCmd(flags))
}

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	// SourceDefault indicates the value is a built-in default.
	SourceDefault ConfigSource = "default"
	// SourceGlobal indicates the value came from global config.
	SourceGlobal ConfigSource = "global"
	// SourceProject indicates the value came from project config.
	SourceProject ConfigSource = "project"
	// SourceEnv indicates the value came from an environment variable.
	SourceEnv ConfigSource = "env"
)

// ConfigValueWithSource represents a configuration value with its source.
type ConfigValueWithSource struct {
	Value  any          `json:"value" yaml:"value"`
	Source ConfigSource `json:"source" yaml:"source"`
}

// AnnotatedConfig maps section names to annotated keys.
type AnnotatedConfig map[string]map[string]ConfigValueWithSource

// sectionOrder is the display order of config sections.
var sectionOrder = []string{"tracker", "exporter"} //nolint:gochecknoglobals // Display order

// configShowStyles contains styling for the config show command output.
type configShowStyles struct {
	header    lipgloss.Style
	section   lipgloss.Style
	key       lipgloss.Style
	value     lipgloss.Style
	sourceEnv lipgloss.Style
	sourcePrj lipgloss.Style
	sourceGbl lipgloss.Style
	sourceDef lipgloss.Style
	masked    lipgloss.Style
	dim       lipgloss.Style
}

// newConfigShowStyles creates styles for config show command output.
func newConfigShowStyles() *configShowStyles {
	return &configShowStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00D7FF")).MarginBottom(1),
		section:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")),
		key:       lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF")),
		value:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")),
		sourceEnv: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		sourcePrj: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		sourceGbl: lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF87")),
		sourceDef: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		masked:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// runConfigShow executes the config show command.
func runConfigShow(ctx context.Context, w io.Writer, flags *ConfigShowFlags) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	format := strings.ToLower(flags.OutputFormat)
	if format != "yaml" && format != OutputJSON {
		return fmt.Errorf("%w: %s (use yaml or json)", errors.ErrUnsupportedOutputFormat, flags.OutputFormat)
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	annotated, err := buildAnnotatedConfig(cfg)
	if err != nil {
		return err
	}

	if format == OutputJSON {
		return writeJSON(w, annotated)
	}
	return outputYAML(w, annotated)
}

// settingsMap converts cfg into the nested map shape of its YAML form.
func settingsMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode configuration")
	}
	settings := make(map[string]any)
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}
	return settings, nil
}

// buildAnnotatedConfig annotates every masked setting with its source.
func buildAnnotatedConfig(cfg *config.Config) (AnnotatedConfig, error) {
	settings, err := settingsMap(cfg)
	if err != nil {
		return nil, err
	}
	settings = logging.RedactSettings(settings)

	var globalCfg configValues
	if path, err := config.GlobalConfigPath(); err == nil {
		globalCfg = loadConfigFile(path)
	}
	projectCfg := loadConfigFile(config.ProjectConfigPath())

	annotated := make(AnnotatedConfig, len(settings))
	for section, raw := range settings {
		values, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		annotated[section] = make(map[string]ConfigValueWithSource, len(values))
		for key, value := range values {
			annotated[section][key] = determineSource(section+"."+key, value, globalCfg, projectCfg)
		}
	}
	return annotated, nil
}

// configValues holds the dotted keys present in one config file.
type configValues map[string]bool

// loadConfigFile returns the dotted keys set in the YAML file at path, or nil
// when the file is missing or unreadable.
func loadConfigFile(path string) configValues {
	data, err := os.ReadFile(path) //nolint:gosec // Config file path
	if err != nil {
		return nil
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}

	result := make(configValues)
	for section, raw := range doc {
		values, ok := raw.(map[string]any)
		if !ok {
			result[section] = true
			continue
		}
		for key := range values {
			result[section+"."+key] = true
		}
	}
	return result
}

// determineSource determines where a configuration value came from.
func determineSource(key string, value any, globalCfg, projectCfg configValues) ConfigValueWithSource {
	envKey := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	switch {
	case os.Getenv(envKey) != "":
		return ConfigValueWithSource{Value: value, Source: SourceEnv}
	case projectCfg[key]:
		return ConfigValueWithSource{Value: value, Source: SourceProject}
	case globalCfg[key]:
		return ConfigValueWithSource{Value: value, Source: SourceGlobal}
	default:
		return ConfigValueWithSource{Value: value, Source: SourceDefault}
	}
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// outputYAML prints the annotated configuration as YAML-like text with source comments.
func outputYAML(w io.Writer, annotated AnnotatedConfig) error {
	styles := newConfigShowStyles()

	_, _ = fmt.Fprintln(w, styles.header.Render("Effective jiraexport Configuration"))
	_, _ = fmt.Fprintln(w, styles.dim.Render("Sources: ")+
		styles.sourceEnv.Render("env")+" > "+
		styles.sourcePrj.Render("project")+" > "+
		styles.sourceGbl.Render("global")+" > "+
		styles.sourceDef.Render("default"))
	_, _ = fmt.Fprintln(w)

	for _, section := range sectionOrder {
		values, ok := annotated[section]
		if !ok {
			continue
		}
		_, _ = fmt.Fprintln(w, styles.section.Render(section+":"))
		for _, key := range slices.Sorted(maps.Keys(values)) {
			printConfigValue(w, styles, key, values[key])
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w, styles.dim.Render("Configuration files:"))
	if globalPath, err := config.GlobalConfigPath(); err == nil {
		printConfigFile(w, styles, "Global", globalPath, styles.sourceGbl)
	}
	printConfigFile(w, styles, "Project", config.ProjectConfigPath(), styles.sourcePrj)
	return nil
}

// printConfigValue prints one key with its source annotation.
func printConfigValue(w io.Writer, styles *configShowStyles, key string, vs ConfigValueWithSource) {
	source := getSourceStyle(vs.Source, styles).Render("# " + string(vs.Source))

	nested, ok := vs.Value.(map[string]any)
	if !ok {
		_, _ = fmt.Fprintf(w, "  %s: %s  %s\n", styles.key.Render(key), renderValue(styles, vs.Value), source)
		return
	}

	_, _ = fmt.Fprintf(w, "  %s:  %s\n", styles.key.Render(key), source)
	for _, sub := range slices.Sorted(maps.Keys(nested)) {
		_, _ = fmt.Fprintf(w, "    %s: %s\n", styles.key.Render(sub), renderValue(styles, nested[sub]))
	}
}

func renderValue(styles *configShowStyles, value any) string {
	switch v := value.(type) {
	case nil:
		return styles.dim.Render("(not set)")
	case string:
		if v == "" {
			return styles.dim.Render("(not set)")
		}
		if v == logging.RedactedValue {
			return styles.masked.Render(v)
		}
		return styles.value.Render(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
		return styles.value.Render("[" + strings.Join(parts, ", ") + "]")
	default:
		return styles.value.Render(fmt.Sprint(v))
	}
}

func printConfigFile(w io.Writer, styles *configShowStyles, label, path string, found lipgloss.Style) {
	prefix := styles.dim.Render("  " + label + ": ")
	if _, err := os.Stat(path); err != nil {
		_, _ = fmt.Fprintln(w, prefix+styles.dim.Render(path+" (not found)"))
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	_, _ = fmt.Fprintln(w, prefix+found.Render(path))
}

// getSourceStyle returns the style for a source annotation.
func getSourceStyle(source ConfigSource, styles *configShowStyles) lipgloss.Style {
	switch source {
	case SourceEnv:
		return styles.sourceEnv
	case SourceProject:
		return styles.sourcePrj
	case SourceGlobal:
		return styles.sourceGbl
	default:
		return styles.sourceDef
	}
}
