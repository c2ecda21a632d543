package worktree

import (
	"errors"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

func newTree(t *testing.T, files map[string]string) (*Tree, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return NewWithFilesystem(fs), fs
}

func TestExists(t *testing.T) {
	tree, fs := newTree(t, map[string]string{"pkg/a.go": "package pkg\n"})
	require.NoError(t, fs.MkdirAll("empty", 0o755))

	ok, err := tree.Exists("pkg/a.go")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tree.Exists("pkg/missing.go")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tree.Exists("empty")
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")
}

func TestRead(t *testing.T) {
	tree, _ := newTree(t, map[string]string{"a.go": "package a\n"})

	got, err := tree.Read("a.go")
	require.NoError(t, err)
	assert.Equal(t, "package a\n", got)

	_, err = tree.Read("b.go")
	assert.ErrorIs(t, err, model.ErrFileNotFound)
}

func TestWrite(t *testing.T) {
	tree, fs := newTree(t, map[string]string{"a.go": "package a\n\nvar x = 1\n"})

	require.NoError(t, tree.Write("a.go", "package a\n"))

	data, err := util.ReadFile(fs, "a.go")
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(data))
}

func TestRejectsPathsOutsideRoot(t *testing.T) {
	tree, _ := newTree(t, nil)

	for _, p := range []string{"../etc/passwd", "/etc/passwd", "a/../../b", "."} {
		_, err := tree.Read(p)
		assert.ErrorIs(t, err, model.ErrFileRead, p)

		err = tree.Write(p, "x")
		var werr *model.WriteError
		require.ErrorAs(t, err, &werr, p)
		assert.False(t, werr.Partial)
	}
}

// failingFS fails every write after the file is opened.
type failingFS struct {
	billy.Filesystem
}

func (f failingFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	file, err := f.Filesystem.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return failingFile{File: file}, nil
}

type failingFile struct {
	billy.File
}

func (failingFile) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWrite_PartialFailure(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.go", []byte("package a\n"), 0o644))
	tree := NewWithFilesystem(failingFS{Filesystem: fs})

	err := tree.Write("a.go", "package b\n")

	var werr *model.WriteError
	require.ErrorAs(t, err, &werr)
	assert.True(t, werr.Partial)
	assert.Equal(t, "a.go", werr.Path)
	assert.ErrorIs(t, err, model.ErrFileWrite)
	assert.Contains(t, err.Error(), "disk full")
}

func TestNew_OSFilesystem(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/main.go", []byte("package main\n"), 0o600))
	tree := New(dir)

	require.NoError(t, tree.Write("main.go", "package main\n\nfunc main() {}\n"))

	info, err := os.Stat(dir + "/main.go")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := tree.Read("main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main\n\nfunc main() {}\n", got)
}
