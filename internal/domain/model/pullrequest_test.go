package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePRURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want PRRef
	}{
		{
			name: "github.com",
			raw:  "https://github.com/acme/widgets/pull/42",
			want: PRRef{Host: "github.com", Owner: "acme", Repo: "widgets", Number: 42},
		},
		{
			name: "trailing files tab",
			raw:  "https://github.com/acme/widgets/pull/7/files",
			want: PRRef{Host: "github.com", Owner: "acme", Repo: "widgets", Number: 7},
		},
		{
			name: "enterprise host",
			raw:  "  https://git.example.com/team/svc/pull/3  ",
			want: PRRef{Host: "git.example.com", Owner: "team", Repo: "svc", Number: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePRURL(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePRURL_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"github.com/acme/widgets/pull/42",
		"https://github.com/acme/widgets/issues/42",
		"https://github.com/acme/pull/42",
		"https://github.com/acme/widgets/pull/abc",
		"https://github.com/acme/widgets/pull/0",
	} {
		_, err := ParsePRURL(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrInvalidPRURL), raw)
	}
}

func TestPRRef_IsEnterprise(t *testing.T) {
	assert.False(t, PRRef{Host: "github.com"}.IsEnterprise())
	assert.True(t, PRRef{Host: "git.example.com"}.IsEnterprise())
	assert.Equal(t, "acme/widgets#42", PRRef{Owner: "acme", Repo: "widgets", Number: 42}.String())
}

func TestWriteError_MatchesTaxonomy(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&WriteError{Path: "a.go", Partial: true, Err: cause})

	assert.True(t, errors.Is(err, ErrFileWrite))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "partially written")
}
