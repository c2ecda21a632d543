package application

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

// hunkHeaderPattern matches unified diff hunk headers.
// Example: @@ -10,5 +12,7 @@ func main() {
var hunkHeaderPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// AddressableSet holds the (line, side) pairs a review comment may target.
type AddressableSet struct {
	left  map[int]struct{}
	right map[int]struct{}
}

// Contains reports whether line on side is part of the diff.
func (s AddressableSet) Contains(line int, side model.Side) bool {
	switch side {
	case model.SideLeft:
		_, ok := s.left[line]
		return ok
	case model.SideRight:
		_, ok := s.right[line]
		return ok
	default:
		return false
	}
}

// AddressableLines derives the addressable lines of a unified diff patch.
// Context lines are addressable on both sides, additions on RIGHT only and
// deletions on LEFT only. Lines outside a hunk are ignored.
func AddressableLines(hunk model.DiffHunk) AddressableSet {
	set := AddressableSet{
		left:  make(map[int]struct{}),
		right: make(map[int]struct{}),
	}
	if hunk.Patch == "" {
		return set
	}

	var (
		inHunk               bool
		oldLine, newLine     int
		oldRemain, newRemain int
	)

	patch := strings.TrimSuffix(hunk.Patch, "\n")
	for _, line := range strings.Split(patch, "\n") {
		if m := hunkHeaderPattern.FindStringSubmatch(line); m != nil {
			oldLine, oldRemain = headerRange(m[1], m[2])
			newLine, newRemain = headerRange(m[3], m[4])
			inHunk = true
			continue
		}
		if !inHunk || (oldRemain == 0 && newRemain == 0) {
			continue
		}

		switch {
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		case strings.HasPrefix(line, "+"):
			set.right[newLine] = struct{}{}
			newLine++
			newRemain--
		case strings.HasPrefix(line, "-"):
			set.left[oldLine] = struct{}{}
			oldLine++
			oldRemain--
		case line == "" || strings.HasPrefix(line, " "):
			set.left[oldLine] = struct{}{}
			set.right[newLine] = struct{}{}
			oldLine++
			newLine++
			oldRemain--
			newRemain--
		}
	}

	return set
}

// headerRange parses a hunk header start and optional count. An omitted
// count means one line.
func headerRange(startStr, countStr string) (start, count int) {
	start, _ = strconv.Atoi(startStr)
	count = 1
	if countStr != "" {
		count, _ = strconv.Atoi(countStr)
	}
	return start, count
}

// ValidateSuggestions splits suggestions into those that target an
// addressable line of hunk and those that do not. Every rejected suggestion
// carries the reason it was dropped.
func ValidateSuggestions(hunk model.DiffHunk, suggestions []model.Suggestion) ([]model.Suggestion, []model.DiscardedSuggestion) {
	set := AddressableLines(hunk)

	var (
		valid     []model.Suggestion
		discarded []model.DiscardedSuggestion
	)
	for _, s := range suggestions {
		if reason := rejectReason(set, hunk.Path, s); reason != "" {
			discarded = append(discarded, model.DiscardedSuggestion{Suggestion: s, Reason: reason})
			continue
		}
		valid = append(valid, s)
	}

	return valid, discarded
}

func rejectReason(set AddressableSet, path string, s model.Suggestion) string {
	switch {
	case s.Path != path:
		return fmt.Sprintf("suggestion targets %s but the diff is for %s", s.Path, path)
	case s.Side != model.SideLeft && s.Side != model.SideRight:
		return fmt.Sprintf("unknown diff side %q", s.Side)
	case strings.TrimSpace(s.Body) == "":
		return "suggestion has an empty body"
	case !set.Contains(s.Line, s.Side):
		return fmt.Sprintf("line %d (%s) is not part of the diff", s.Line, s.Side)
	}
	return ""
}
