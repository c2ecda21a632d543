package driven

// WorkTree gives access to files in the local checkout, addressed by
// repository-relative paths.
type WorkTree interface {
	Exists(path string) (bool, error)
	Read(path string) (string, error)
	// Write overwrites path in place. Failures are *model.WriteError.
	Write(path, content string) error
}
