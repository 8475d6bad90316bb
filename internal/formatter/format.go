// Package formatter normalizes raw model text into a consistent
// paragraph/point layout. It is a best-effort readability pass, not a parser:
// any input is accepted and Format never fails.
package formatter

import (
	"regexp"
	"strings"
)

var (
	boldEmphasis        = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicEmphasis      = regexp.MustCompile(`\*(.*?)\*`)
	parentheticalMarker = regexp.MustCompile(`\((\d+)\)`)
	numberedMarker      = regexp.MustCompile(`\d+\.[ \t]`)
	numberedPrefix      = regexp.MustCompile(`^[ \t]*\d+\.[ \t]+`)
	sentenceGap         = regexp.MustCompile(`\.[ \t]+`)
	firstPointLine      = regexp.MustCompile(`(?m)^(?:\d+\.|-)(?:[ \t]|$)`)
)

const paragraphBreak = "\n\n"

// Format cleans up model output. When hasStructure is set the cleaned text
// starts at its first numbered or bulleted line; if there is none nothing is
// dropped. Applying Format to its own output returns the same string.
func Format(text string, hasStructure bool) string {
	text = boldEmphasis.ReplaceAllString(text, "$1")
	text = italicEmphasis.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "* ", "\n- ")
	text = strings.ReplaceAll(text, "*", "")

	text = parentheticalMarker.ReplaceAllString(text, "$1.")

	text = breakBeforeNumbers(text)
	text = breakSentences(text)
	text = collapseBlankLines(text)

	if hasStructure {
		if loc := firstPointLine.FindStringIndex(text); loc != nil {
			text = text[loc[0]:]
		}
	}

	return strings.TrimSpace(text)
}

// breakBeforeNumbers starts a paragraph at every "N. " marker separated by
// whitespace from preceding text. Markers right after a digit stay put.
func breakBeforeNumbers(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range numberedMarker.FindAllStringIndex(text, -1) {
		start := loc[0]
		before := strings.TrimRight(text[:start], " \t\n\f\r")
		if before == "" || len(before) == start || isDigit(before[len(before)-1]) {
			continue
		}
		b.WriteString(text[last:len(before)])
		b.WriteString(paragraphBreak)
		last = start
	}
	b.WriteString(text[last:])
	return b.String()
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// breakSentences puts a paragraph break after ". " and ": ", leaving the
// "1. " marker that opens a numbered line alone.
func breakSentences(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		prefix := ""
		if loc := numberedPrefix.FindStringIndex(line); loc != nil {
			prefix, line = line[:loc[1]], line[loc[1]:]
		}
		line = strings.ReplaceAll(line, ". ", "."+paragraphBreak)
		line = strings.ReplaceAll(line, ": ", ":"+paragraphBreak)
		line = sentenceGap.ReplaceAllString(line, "."+paragraphBreak)
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// collapseBlankLines trims every line and keeps at most one blank line between
// paragraphs.
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
