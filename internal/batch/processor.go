package batch

import (
	"fmt"
	"os"
	"strings"
)

// Workflow names accepted as a line prefix.
const (
	WorkflowDefault   = ""
	WorkflowTranslate = "translate"
	WorkflowPOS       = "pos"
	WorkflowKeywords  = "keywords"
	WorkflowAnalyze   = "analyze"
)

// Entry is one text to process
type Entry struct {
	Line     int // 1-based line number in the batch file
	Text     string
	Workflow string // WorkflowDefault means the workflows selected by flags
}

// ReadBatchFile reads texts from a file and returns Entry slice
// Supports formats:
// - Plain text: "How are you?" (runs the workflows selected on the command line)
// - With workflow: "pos: How are you?" (runs only that workflow)
// - Comments: "# ignored"
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	for i, line := range splitLines(string(content)) {
		line = trimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Line: i + 1, Text: line}
		if workflow, text, ok := splitWorkflow(line); ok {
			if text == "" {
				// Ignore lines with an empty text part
				continue
			}
			entry.Workflow = workflow
			entry.Text = text
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// splitWorkflow recognises a "workflow: text" prefix. Any other colon is
// part of the text.
func splitWorkflow(line string) (workflow, text string, ok bool) {
	prefix, rest, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	switch strings.ToLower(trimSpace(prefix)) {
	case WorkflowTranslate, WorkflowPOS, WorkflowKeywords, WorkflowAnalyze:
		return strings.ToLower(trimSpace(prefix)), trimSpace(rest), true
	}
	return "", "", false
}

// splitLines splits a string by newlines, keeping empty lines so that
// line numbers stay accurate
func splitLines(s string) []string {
	var lines []string
	var current strings.Builder
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current.String())
			current.Reset()
		} else if r != '\r' {
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// trimSpace trims whitespace from string
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
