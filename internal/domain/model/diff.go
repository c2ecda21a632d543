package model

// PRFile is a file changed by a pull request.
type PRFile struct {
	Filename         string
	PreviousFilename string
	Status           FileStatus
	Additions        int
	Deletions        int
	Changes          int
	Patch            string // Unified diff; empty for binary or oversized files.
	SHA              string
}

// Reviewable reports whether the file carries a diff the model can review.
func (f PRFile) Reviewable() bool {
	return f.Patch != "" && f.Status != FileStatusRemoved
}

// DiffHunk is the diff of one file handed to the review pipeline.
type DiffHunk struct {
	Path        string
	Patch       string
	Additions   int
	Deletions   int
	HeadContent string // Post-change file text; empty when it could not be fetched.
}

// HunkFromFile builds a DiffHunk from a PR file.
func HunkFromFile(f PRFile) DiffHunk {
	return DiffHunk{
		Path:      f.Filename,
		Patch:     f.Patch,
		Additions: f.Additions,
		Deletions: f.Deletions,
	}
}
