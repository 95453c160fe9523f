package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pseudomancer/pseudomancer/internal/llm"
)

func TestHeader(t *testing.T) {
	t.Parallel()

	got := Header(&llm.AnalysisResult{
		FunctionName: "entry_point",
		Comment:      "Prints a greeting to standard output.",
	})

	require.Equal(t, "/*\n * entry_point()\n *\n * Prints a greeting to standard output.\n */\n\n", got)
}

func TestHeaderWrapsLongComments(t *testing.T) {
	t.Parallel()

	comment := strings.Repeat("lorem ipsum dolor sit amet ", 10)
	got := Header(&llm.AnalysisResult{FunctionName: "f", Comment: comment})

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Greater(t, len(lines), 5, "long comment should span multiple lines")
	for _, line := range lines[3 : len(lines)-1] {
		require.LessOrEqual(t, len(line), 76, "line exceeds wrap width: %q", line)
		require.True(t, strings.HasPrefix(line, " * "), "comment line missing prefix: %q", line)
	}
	require.True(t, strings.HasSuffix(got, " */\n\n"))
}

func TestHeaderEmptyComment(t *testing.T) {
	t.Parallel()

	got := Header(&llm.AnalysisResult{FunctionName: "f"})
	require.Equal(t, "/*\n * f()\n *\n */\n\n", got)
}

func TestWrapKeepsOverlongWordsIntact(t *testing.T) {
	t.Parallel()

	word := strings.Repeat("x", 100)
	lines := wrap("short "+word+" tail", 20)
	require.Equal(t, []string{"short", word, "tail"}, lines)
}
