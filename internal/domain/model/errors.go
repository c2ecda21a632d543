package model

import (
	"errors"
	"fmt"
)

// Error taxonomy. Adapters and pipelines wrap these with context; callers
// match with errors.Is.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrInvalidPRURL  = errors.New("invalid pull request URL")
	ErrFileNotFound  = errors.New("file not found")
	ErrFileRead      = errors.New("file read error")
	ErrFileWrite     = errors.New("file write error")
	ErrModel         = errors.New("model error")
	ErrAPITransport  = errors.New("api transport error")
	ErrGitOperation  = errors.New("git operation failed")
	ErrAborted       = errors.New("aborted by user")
)

// WriteError reports a failed file write. Partial is set when the file may
// have been truncated or partially written before the failure.
type WriteError struct {
	Path    string
	Partial bool
	Err     error
}

func (e *WriteError) Error() string {
	if e.Partial {
		return fmt.Sprintf("writing %s (file may be partially written): %v", e.Path, e.Err)
	}
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

// Unwrap lets errors.Is match both ErrFileWrite and the underlying cause.
func (e *WriteError) Unwrap() []error {
	return []error{ErrFileWrite, e.Err}
}
