// Package worktree implements the WorkTree port on a go-billy filesystem
// rooted at the local checkout.
package worktree

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
	"github.com/ericfisherdev/prreviewer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WorkTree = (*Tree)(nil)

// Tree reads and writes repository files relative to its root.
type Tree struct {
	fs billy.Filesystem
}

// New returns a Tree over the directory at root. Paths cannot escape root.
func New(root string) *Tree {
	return &Tree{fs: osfs.New(root, osfs.WithBoundOS())}
}

// NewWithFilesystem returns a Tree over fs.
func NewWithFilesystem(fs billy.Filesystem) *Tree {
	return &Tree{fs: fs}
}

// Exists reports whether path names a regular file.
func (t *Tree) Exists(p string) (bool, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return false, err
	}
	info, err := t.fs.Stat(clean)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: stat %s: %w", model.ErrFileRead, p, err)
	}
	return !info.IsDir(), nil
}

// Read returns the file content at path.
func (t *Tree) Read(p string) (string, error) {
	clean, err := cleanPath(p)
	if err != nil {
		return "", err
	}
	data, err := util.ReadFile(t.fs, clean)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", model.ErrFileNotFound, p)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", model.ErrFileRead, p, err)
	}
	return string(data), nil
}

// Write overwrites the existing file at path, keeping its permissions.
// A failure after the file was truncated is reported as a partial write.
func (t *Tree) Write(p, content string) error {
	clean, err := cleanPath(p)
	if err != nil {
		return &model.WriteError{Path: p, Err: err}
	}

	perm := os.FileMode(0o644)
	if info, err := t.fs.Stat(clean); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := t.fs.OpenFile(clean, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return &model.WriteError{Path: p, Err: err}
	}

	_, werr := io.WriteString(f, content)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		return &model.WriteError{Path: p, Partial: true, Err: err}
	}
	return nil
}

func cleanPath(p string) (string, error) {
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q is not a repository-relative path", model.ErrFileRead, p)
	}
	return clean, nil
}
