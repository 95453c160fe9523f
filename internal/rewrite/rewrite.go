// Package rewrite applies model-suggested identifier renames to pseudocode.
package rewrite

import (
	"fmt"
	"regexp"

	"github.com/pseudomancer/pseudomancer/internal/llm"
)

// Applied records one substitution for display purposes.
type Applied struct {
	OriginalName string
	NewName      string
}

// PatternError indicates a rename identifier could not be compiled into a
// word-boundary pattern. With QuoteMeta escaping this is unreachable for
// arbitrary input, but the failure mode is kept distinct for callers.
type PatternError struct {
	Name string
	Err  error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern compile failed for %q: %v", e.Name, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Apply rewrites original by substituting each suggestion in order, whole-word
// only, and returns the rewritten text with a log of what was substituted.
//
// Each step operates on the already partially rewritten text, so a later
// suggestion whose new name equals an earlier original name gets caught up in
// the following substitution. Ordering the list so this never corrupts the
// result is the producer's responsibility; no detection is attempted here.
// Matching is textual, not language-aware: occurrences inside string literals
// or comments are rewritten too.
func Apply(original string, suggestions []llm.RenameSuggestion) (string, []Applied, error) {
	text := original
	log := make([]Applied, 0, len(suggestions))

	for _, s := range suggestions {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(s.OriginalName) + `\b`)
		if err != nil {
			return "", nil, &PatternError{Name: s.OriginalName, Err: err}
		}

		text = re.ReplaceAllLiteralString(text, s.NewName)
		log = append(log, Applied{OriginalName: s.OriginalName, NewName: s.NewName})
	}

	return text, log, nil
}
