package ai

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	mdParser      goldmark.Markdown
	htmlStripper  *bluemonday.Policy
	spacesPattern = regexp.MustCompile(`[ \t]+`)
)

func init() {
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	htmlStripper = bluemonday.StrictPolicy()
}

// firstFencedBlock returns the content of the first fenced code block in src
// whose info string matches lang (any language when lang is empty).
func firstFencedBlock(src, lang string) (string, bool) {
	source := []byte(src)
	doc := mdParser.Parser().Parse(text.NewReader(source))

	var (
		out   bytes.Buffer
		found bool
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if lang != "" && !strings.EqualFold(string(block.Language(source)), lang) {
			return ast.WalkSkipChildren, nil
		}
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			out.Write(seg.Value(source))
		}
		found = true
		return ast.WalkStop, nil
	})

	return out.String(), found
}

// stripCodeFence removes a fence enclosing the whole model reply: the opening
// fence line, and the last line when it is a bare closing fence. Fences inside
// the body are kept, so fixed Markdown or docs survive intact. Replies that do
// not start with a fence are returned trimmed of surrounding blank lines.
func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") && !strings.HasPrefix(trimmed, "~~~") {
		return strings.Trim(raw, "\r\n")
	}

	lines := strings.Split(trimmed, "\n")[1:]
	if n := len(lines); n > 0 && isClosingFence(lines[n-1], trimmed[0]) {
		lines = lines[:n-1]
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// isClosingFence reports whether line is a bare run of at least three fence
// characters.
func isClosingFence(line string, fence byte) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 3 && strings.Trim(line, string(fence)) == ""
}

// extractJSON finds the JSON value delimited by openCh and closeCh in raw. A
// fenced json block is preferred; otherwise the span from the first openCh to
// the last closeCh is used. Returns "" when none is found.
func extractJSON(raw string, openCh, closeCh byte) string {
	if block, ok := firstFencedBlock(raw, "json"); ok {
		raw = block
	}
	start := strings.IndexByte(raw, openCh)
	end := strings.LastIndexByte(raw, closeCh)
	if start == -1 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// plainText converts a markdown reply to plain text with HTML removed.
func plainText(raw string) string {
	var buf bytes.Buffer
	rendered := raw
	if err := mdParser.Convert([]byte(raw), &buf); err == nil {
		rendered = buf.String()
	}

	stripped := html.UnescapeString(htmlStripper.Sanitize(rendered))

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.TrimSpace(spacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " ")
}
