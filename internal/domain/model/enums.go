package model

import (
	"fmt"
	"strings"
)

// Side identifies which version of a diff a line belongs to.
type Side string

const (
	SideLeft  Side = "LEFT"  // Pre-change file.
	SideRight Side = "RIGHT" // Post-change file.
)

// FileStatus is the change status GitHub reports for a PR file.
type FileStatus string

const (
	FileStatusAdded    FileStatus = "added"
	FileStatusModified FileStatus = "modified"
	FileStatusRemoved  FileStatus = "removed"
	FileStatusRenamed  FileStatus = "renamed"
)

// Severity ranks a suggestion. Higher values are more severe.
type Severity int

const (
	SeverityMinor Severity = iota + 1
	SeverityMajor
	SeverityCritical
)

// AllSeverities lists severities from most to least severe.
var AllSeverities = []Severity{SeverityCritical, SeverityMajor, SeverityMinor}

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the three defined severities.
func (s Severity) Valid() bool {
	return s >= SeverityMinor && s <= SeverityCritical
}

// ParseSeverity parses a case-insensitive severity name.
func ParseSeverity(v string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "critical":
		return SeverityCritical, nil
	case "major":
		return SeverityMajor, nil
	case "minor":
		return SeverityMinor, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (want critical, major or minor)", v)
	}
}

// Action is the kind of change the AI model decided a review comment needs.
type Action string

const (
	ActionModify   Action = "modify"
	ActionCreate   Action = "create"
	ActionDelete   Action = "delete"
	ActionNoAction Action = "no_action"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionModify, ActionCreate, ActionDelete, ActionNoAction:
		return true
	}
	return false
}

// OutcomeKind classifies how a fix item ended.
type OutcomeKind string

const (
	OutcomeModified OutcomeKind = "modified"
	OutcomeNoAction OutcomeKind = "no_action"
	OutcomeFailed   OutcomeKind = "failed"
)

// ReplyDecision is the human's verdict on a generated reply.
type ReplyDecision string

const (
	ReplyUse     ReplyDecision = "use"
	ReplyEdit    ReplyDecision = "edit"
	ReplyDiscard ReplyDecision = "discard"
)
