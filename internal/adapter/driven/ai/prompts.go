package ai

import (
	"fmt"
	"strings"

	"github.com/ericfisherdev/prreviewer/internal/domain/model"
)

const (
	defaultMaxTokens = 4096
	fixMaxTokens     = 16384
	replyMaxTokens   = 256
)

const systemPrompt = "You are a senior software engineer doing careful, concise code review on a GitHub pull request."

func analyzePrompt(fileContent, filePath string, comment model.ReviewComment, pr model.PRContext) string {
	var b strings.Builder
	b.WriteString("Analyze this code review comment and determine what changes need to be made.\n\n")
	writePRContext(&b, pr)
	fmt.Fprintf(&b, "File: %s\n", filePath)
	if l := comment.TargetLine(); l != nil {
		fmt.Fprintf(&b, "Line: %d\n", *l)
	}
	fmt.Fprintf(&b, "Review Comment: %s\n\n", comment.Body)
	writeFenced(&b, "Current File Content:", "", fileContent)
	b.WriteString(`Please respond in JSON format only (no other text):
{
    "action": "modify|create|delete|no_action",
    "reasoning": "explanation of what needs to be done",
    "changes": ["list of specific changes to make"]
}
`)
	return b.String()
}

func fixPrompt(fileContent, filePath string, comment model.ReviewComment, line *int) string {
	var b strings.Builder
	b.WriteString("Fix the code in this file based on the review comment.\n\n")
	fmt.Fprintf(&b, "File: %s", filePath)
	if line != nil {
		fmt.Fprintf(&b, " at line %d", *line)
	}
	fmt.Fprintf(&b, "\nReview Comment: %s\n\n", comment.Body)
	writeFenced(&b, "Current File Content:", "", fileContent)
	b.WriteString("Return ONLY the complete fixed file content.\n")
	b.WriteString("Do not include any explanations, just the fixed code.\n")
	return b.String()
}

func replyPrompt(comment model.ReviewComment, changesSummary string) string {
	var b strings.Builder
	b.WriteString("Generate a brief, professional reply to this code review comment.\n\n")
	fmt.Fprintf(&b, "Review Comment: %s\n", comment.Body)
	fmt.Fprintf(&b, "Changes Made: %s\n\n", changesSummary)
	b.WriteString("Generate a short reply (1-2 sentences) acknowledging the feedback and confirming the changes.\n")
	b.WriteString("Keep it professional and concise. Do not use markdown formatting.\n")
	b.WriteString("Return ONLY the reply text, nothing else.\n")
	return b.String()
}

func reviewPrompt(filePath string, hunk model.DiffHunk, pr model.PRContext) string {
	var b strings.Builder
	b.WriteString("Review the following code change and give constructive feedback.\n\n")
	writePRContext(&b, pr)
	fmt.Fprintf(&b, "File: %s\n\n", filePath)
	writeFenced(&b, "Git Diff:", "diff", hunk.Patch)
	if hunk.HeadContent != "" {
		writeFenced(&b, "Full file after the change:", "", hunk.HeadContent)
	}
	b.WriteString(`Severity guidelines:
- critical: definite bugs or runtime errors, security vulnerabilities, data loss, memory leaks, nil dereferences, infinite loops or deadlocks.
- major: likely bugs such as missed edge cases, wrong logic, missing error handling, API misuse, significant inefficiency.
- minor: naming, style, small refactors, comments. Only include minor issues that are clear and easy to fix.

Every comment must state the severity, the problem, a concrete fix (with a code example) and why it matters.
Only comment on lines that appear in the diff. Use "side": "RIGHT" for added or unchanged lines (new file line numbers)
and "side": "LEFT" for removed lines (old file line numbers).

Respond with a JSON array only, no other text:
[
  {"line": 42, "side": "RIGHT", "severity": "critical", "body": "**CRITICAL**\n\n**Problem**: ...\n\n**Fix**: ...\n\n**Why**: ..."}
]
Return [] if there is nothing worth commenting on.
`)
	return b.String()
}

func writePRContext(b *strings.Builder, pr model.PRContext) {
	b.WriteString("PR Context:\n")
	fmt.Fprintf(b, "- Title: %s\n", orNA(pr.Title))
	fmt.Fprintf(b, "- Description: %s\n\n", orNA(pr.Description))
}

// writeFenced writes content inside a fence long enough not to collide with
// backticks in the content itself.
func writeFenced(b *strings.Builder, label, lang, content string) {
	fence := "```"
	for strings.Contains(content, fence) {
		fence += "`"
	}
	fmt.Fprintf(b, "%s\n%s%s\n%s", label, fence, lang, content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "%s\n\n", fence)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
