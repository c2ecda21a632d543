package model

// FixSummary tallies one fix-mode run.
type FixSummary struct {
	Outcomes      []FixOutcome
	ModifiedFiles []string
	RepliesPosted int
	RepliesFailed int
	CommitSHA     string
	DryRun        bool
}

// Successful counts items that did not fail.
func (s FixSummary) Successful() int {
	n := 0
	for _, o := range s.Outcomes {
		if !o.Failed() {
			n++
		}
	}
	return n
}

// Failed counts items that ended in an error.
func (s FixSummary) Failed() int {
	return len(s.Outcomes) - s.Successful()
}

// Total is the number of processed items.
func (s FixSummary) Total() int {
	return len(s.Outcomes)
}

// ReviewSummary tallies one review-mode run.
type ReviewSummary struct {
	FilesReviewed int
	FilesFailed   int
	Candidates    int
	Discarded     int
	Posted        []Suggestion
	ReviewPosted  bool
	DryRun        bool
}

// CountBySeverity returns how many posted suggestions have each severity.
func (s ReviewSummary) CountBySeverity() map[Severity]int {
	counts := make(map[Severity]int, len(AllSeverities))
	for _, sg := range s.Posted {
		counts[sg.Severity]++
	}
	return counts
}
