package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want model.Severity
	}{
		{"[CRITICAL] unchecked index", model.SeverityCritical},
		{"**Major**: rename this", model.SeverityMajor},
		{"Severity: minor. Prefer a table test here.", model.SeverityMinor},
		{"minor: typo in the docstring", model.SeverityMinor},
		{"🔴 this leaks the session", model.SeverityCritical},
		{"🟡 consider caching", model.SeverityMajor},
		{"💡 nit: naming", model.SeverityMinor},
		{"User input reaches the query unescaped: SQL injection.", model.SeverityCritical},
		{"This can panic when the slice is empty", model.SeverityCritical},
		{"The error from Close is ignored error-wise; unhandled on failure", model.SeverityMajor},
		{"Off-by-one in the loop bound", model.SeverityMajor},
		{"Consider a shorter variable name", model.SeverityMinor},
		{"", model.SeverityMinor},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	for _, text := range []string{
		"[major] nil map write",
		"possible race condition on counter",
		"rename x to count",
	} {
		first := Classify(text)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Classify(text))
		}
	}
}

func TestClassifySuggestions_KeepsModelSeverity(t *testing.T) {
	in := []model.Suggestion{
		{Body: "security hole", Severity: model.SeverityMinor},
		{Body: "security hole"},
		{Body: "rename"},
	}

	out := ClassifySuggestions(in)

	assert.Equal(t, model.SeverityMinor, out[0].Severity)
	assert.Equal(t, model.SeverityCritical, out[1].Severity)
	assert.Equal(t, model.SeverityMinor, out[2].Severity)
	assert.Equal(t, model.Severity(0), in[1].Severity, "input must not be mutated")
}

func TestFilterByThreshold(t *testing.T) {
	suggestions := []model.Suggestion{
		{Body: "a", Severity: model.SeverityMinor},
		{Body: "b", Severity: model.SeverityCritical},
		{Body: "c", Severity: model.SeverityMajor},
		{Body: "d", Severity: model.SeverityMinor},
	}

	major := FilterByThreshold(suggestions, model.SeverityMajor)
	assert.Len(t, major, 2)
	for _, s := range major {
		assert.NotEqual(t, model.SeverityMinor, s.Severity)
	}

	assert.Len(t, FilterByThreshold(suggestions, model.SeverityMinor), 4)
	assert.Len(t, FilterByThreshold(suggestions, model.SeverityCritical), 1)
	assert.Empty(t, FilterByThreshold(nil, model.SeverityMinor))
}

func TestFilterBySet(t *testing.T) {
	suggestions := []model.Suggestion{
		{Body: "a", Severity: model.SeverityMinor},
		{Body: "b", Severity: model.SeverityCritical},
		{Body: "c", Severity: model.SeverityMajor},
	}

	got := FilterBySet(suggestions, map[model.Severity]bool{
		model.SeverityCritical: true,
		model.SeverityMinor:    true,
	})

	assert.Equal(t, []string{"a", "b"}, []string{got[0].Body, got[1].Body})
}
