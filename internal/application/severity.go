package application

import (
	"regexp"
	"strings"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// severityMarkerPattern matches explicit severity tags such as "[CRITICAL]",
// "**Major**", "Severity: minor" or a leading "CRITICAL:".
var severityMarkerPattern = regexp.MustCompile(`(?i)(?:\[\s*|\*\*\s*|severity\s*[:=]\s*\**\s*|^\s*)(critical|major|minor)\b`)

var severityEmoji = []struct {
	emoji    string
	severity model.Severity
}{
	{"🔴", model.SeverityCritical},
	{"🚨", model.SeverityCritical},
	{"🟠", model.SeverityMajor},
	{"🟡", model.SeverityMajor},
	{"⚠️", model.SeverityMajor},
	{"⚪", model.SeverityMinor},
	{"🔵", model.SeverityMinor},
	{"💡", model.SeverityMinor},
}

var criticalKeywords = []string{
	"security", "vulnerab", "injection", "xss", "csrf", "data loss", "data corruption",
	"crash", "panic", "deadlock", "race condition", "memory leak", "nil pointer",
	"null pointer", "null dereference", "buffer overflow", "secret", "credential",
	"hardcoded password", "privilege", "authentication bypass",
}

var majorKeywords = []string{
	"bug", "incorrect", "wrong", "broken", "error handling", "unhandled", "not handled",
	"ignored error", "leak", "performance", "inefficient", "edge case", "off-by-one",
	"off by one", "missing validation", "missing check", "will fail", "fails when",
	"regression", "blocking", "timeout",
}

// Classify assigns a severity to suggestion or comment text. Explicit
// markers win over emoji, emoji over keywords; text matching nothing is MINOR.
func Classify(text string) model.Severity {
	if m := severityMarkerPattern.FindStringSubmatch(text); m != nil {
		if sev, err := model.ParseSeverity(m[1]); err == nil {
			return sev
		}
	}

	for _, e := range severityEmoji {
		if strings.Contains(text, e.emoji) {
			return e.severity
		}
	}

	lower := strings.ToLower(text)
	if containsAny(lower, criticalKeywords) {
		return model.SeverityCritical
	}
	if containsAny(lower, majorKeywords) {
		return model.SeverityMajor
	}

	return model.SeverityMinor
}

// ClassifySuggestions fills in the severity of each suggestion. A valid
// severity supplied by the model is kept.
func ClassifySuggestions(suggestions []model.Suggestion) []model.Suggestion {
	out := make([]model.Suggestion, len(suggestions))
	for i, s := range suggestions {
		if !s.Severity.Valid() {
			s.Severity = Classify(s.Body)
		}
		out[i] = s
	}
	return out
}

// FilterByThreshold keeps suggestions at or above threshold.
func FilterByThreshold(suggestions []model.Suggestion, threshold model.Severity) []model.Suggestion {
	var kept []model.Suggestion
	for _, s := range suggestions {
		if s.Severity >= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}

// FilterBySet keeps suggestions whose severity is in included.
func FilterBySet(suggestions []model.Suggestion, included map[model.Severity]bool) []model.Suggestion {
	var kept []model.Suggestion
	for _, s := range suggestions {
		if included[s.Severity] {
			kept = append(kept, s)
		}
	}
	return kept
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
