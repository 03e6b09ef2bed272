// Package logging provides logging utilities including sensitive data filtering.
// It keeps tracker credentials out of log output and out of printed settings.
package logging

import (
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// RedactedValue is the replacement string for sensitive data.
const RedactedValue = "[REDACTED]"

// sensitivePatterns match credential formats that may show up in tracker
// requests, errors and configuration dumps.
var sensitivePatterns = []*regexp.Regexp{ //nolint:gochecknoglobals // Package-level patterns for reuse
	// Atlassian API tokens
	regexp.MustCompile(`ATATT[a-zA-Z0-9_=-]{20,}`),

	// Authorization header values
	regexp.MustCompile(`(?i)(bearer|basic)\s+[a-zA-Z0-9+/_=.-]{16,}`),

	// Authorization headers with raw tokens
	regexp.MustCompile(`(?i)authorization\s*[:=]\s*["']?[a-zA-Z0-9_-]{20,}["']?`),

	// Generic API keys and tokens followed by a value
	regexp.MustCompile(`(?i)(api[_-]?key|api[_-]?token)\s*[:=]\s*["']?([a-zA-Z0-9_-]{16,})["']?`),

	// Generic secrets
	regexp.MustCompile(`(?i)(secret|password|credential|passwd|pwd)\s*[:=]\s*["']?[^\s"']{8,}["']?`),

	// Long token-like values
	regexp.MustCompile(`(?i)(token|auth)\s*[:=]\s*["']?[a-zA-Z0-9+/=]{32,}["']?`),
}

// sensitiveFieldNames contains field names whose values are always redacted.
// Matching is case-insensitive on substrings.
var sensitiveFieldNames = []string{ //nolint:gochecknoglobals // Package-level patterns for reuse
	"api_key",
	"apikey",
	"api-key",
	"api_token",
	"apitoken",
	"api-token",
	"auth_token",
	"access_token",
	"password",
	"passwd",
	"secret",
	"credential",
	"private_key",
	"bearer",
	"authorization",
}

// SensitiveDataHook is a zerolog hook that flags log events whose message
// contains sensitive data. Zerolog hooks cannot rewrite messages; the
// FilteringWriter redacts them on the way to disk.
type SensitiveDataHook struct{}

// NewSensitiveDataHook creates a new SensitiveDataHook.
func NewSensitiveDataHook() *SensitiveDataHook {
	return &SensitiveDataHook{}
}

// Run implements the zerolog.Hook interface.
func (h *SensitiveDataHook) Run(e *zerolog.Event, _ zerolog.Level, msg string) {
	if ContainsSensitiveData(msg) {
		e.Bool("contains_filtered_data", true)
	}
}

// ContainsSensitiveData checks if a string contains any sensitive data patterns.
func ContainsSensitiveData(s string) bool {
	for _, pattern := range sensitivePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// FilterSensitiveValue replaces any match of a sensitive pattern with [REDACTED].
func FilterSensitiveValue(value string) string {
	result := value
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedValue)
	}
	return result
}

// IsSensitiveFieldName checks if a field name indicates sensitive data.
func IsSensitiveFieldName(fieldName string) bool {
	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFieldNames {
		if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

// RedactIfSensitive returns [REDACTED] if the field name indicates sensitive data,
// otherwise the value with sensitive patterns filtered.
func RedactIfSensitive(fieldName, value string) string {
	if IsSensitiveFieldName(fieldName) {
		return RedactedValue
	}
	return FilterSensitiveValue(value)
}

// RedactSettings returns a copy of a nested settings map, as produced by
// viper's AllSettings or a YAML round trip, with sensitive values masked.
// Empty values stay empty so unset secrets remain visible as unset.
func RedactSettings(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for key, value := range settings {
		out[key] = redactValue(key, value)
	}
	return out
}

func redactValue(key string, value any) any {
	switch v := value.(type) {
	case map[string]any:
		return RedactSettings(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = redactValue(k, s)
		}
		return m
	case string:
		if v == "" {
			return v
		}
		return RedactIfSensitive(key, v)
	case []string:
		redacted := slices.Clone(v)
		for i, s := range redacted {
			redacted[i] = RedactIfSensitive(key, s)
		}
		return redacted
	default:
		if IsSensitiveFieldName(key) && value != nil {
			return RedactedValue
		}
		return value
	}
}

// FilteringWriter wraps an io.Writer and filters sensitive data from output.
type FilteringWriter struct {
	w io.Writer
}

// NewFilteringWriter creates a new FilteringWriter that wraps the given writer.
func NewFilteringWriter(w io.Writer) *FilteringWriter {
	return &FilteringWriter{w: w}
}

// Write implements io.Writer, filtering sensitive data before writing.
func (fw *FilteringWriter) Write(p []byte) (n int, err error) {
	filtered := FilterSensitiveValue(string(p))
	_, err = fw.w.Write([]byte(filtered))
	if err != nil {
		return 0, err
	}
	// Report the original length so callers don't see a short write.
	return len(p), nil
}
