// Package report renders analysis results for humans.
package report

import (
	"fmt"
	"strings"

	"github.com/pseudomancer/pseudomancer/internal/llm"
)

// wrapWidth is the column the function description wraps at, Phrack-style.
const wrapWidth = 76

// Header renders a C block comment describing the analyzed function:
//
//	/*
//	 * name()
//	 *
//	 * description wrapped at 76 columns
//	 */
//
// followed by a blank line, ready to prepend to the rewritten pseudocode.
func Header(result *llm.AnalysisResult) string {
	var b strings.Builder
	b.WriteString("/*\n")
	fmt.Fprintf(&b, " * %s()\n", result.FunctionName)
	b.WriteString(" *\n")
	for _, line := range wrap(result.Comment, wrapWidth-len(" * ")) {
		fmt.Fprintf(&b, " * %s\n", line)
	}
	b.WriteString(" */\n\n")
	return b.String()
}

// wrap performs greedy word wrapping at the given width. Words longer than the
// width go on a line of their own rather than being split.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
