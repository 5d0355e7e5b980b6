// Package redact scrubs sensitive information from strings before they are
// logged. Database errors in particular tend to echo connection strings,
// file paths and SQL fragments that should never reach a log aggregator or
// an HTTP response.
package redact

import "regexp"

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules may remove text later rules would match.
var rules = []rule{
	{
		regexp.MustCompile(`(?s)(?:panic:|goroutine \d+ \[).*`),
		"[STACK_TRACE_REDACTED]",
	},
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|sqlite|file)://[^@\s/]+@`),
		"$1://" + RedactedCredentialPlaceholder + "@",
	},
	{
		regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
		"[REDACTED_JWT]",
	},
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)(\s*[=:]\s*)['"]?[^'"&\s]+['"]?`),
		"$1$2" + RedactionPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|secret|token)(\s*[=:]\s*)['"]?[A-Za-z0-9_\-.~+/]{8,}['"]?`),
		"$1$2" + RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		"[REDACTED_EMAIL]",
	},
	{
		regexp.MustCompile(`(?:/[\w.-]+){2,}|[A-Za-z]:\\[^\\\s]+(?:\\[^\\\s]+)+`),
		RedactedPathPlaceholder,
	},
	{
		regexp.MustCompile(`\b(?:SELECT\b.*?\bFROM|INSERT INTO|UPDATE \w+ SET|DELETE FROM)\b[^;]*`),
		"[REDACTED_SQL]",
	},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
