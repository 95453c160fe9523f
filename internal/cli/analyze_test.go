package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pseudomancer/pseudomancer/internal/llm"
)

// fakeOllama serves the /api/generate contract with a canned analysis and
// records the model each request asked for.
func fakeOllama(t *testing.T, result llm.AnalysisResult, gotModel *string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if gotModel != nil {
			*gotModel = req.Model
		}

		inner, err := json.Marshal(result)
		require.NoError(t, err)
		require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"response": string(inner)}))
	})
	return httptest.NewServer(mux)
}

func runAnalyze(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"analyze"}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	srv := fakeOllama(t, llm.AnalysisResult{
		FunctionName: "entry_point",
		Comment:      "Prints a greeting and returns.",
		Variables: []llm.RenameSuggestion{
			{OriginalName: "main", NewName: "entry_point"},
		},
	}, nil)
	defer srv.Close()

	dir := t.TempDir()
	inPath := filepath.Join(dir, "func.c")
	require.NoError(t, os.WriteFile(inPath, []byte(`int main() { printf("Hello, world!"); }`), 0o644))

	out, err := runAnalyze(t, inPath, "--base-url", srv.URL)
	require.NoError(t, err)
	require.Contains(t, out, "Variable renaming suggestions")
	require.Contains(t, out, "main\t-> entry_point")

	written, err := os.ReadFile(filepath.Join(dir, "func.out.c"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(written), "/*\n * entry_point()\n"))
	require.Contains(t, string(written), `int entry_point() { printf("Hello, world!"); }`)
}

func TestAnalyzeCommandRefusesToOverwrite(t *testing.T) {
	srv := fakeOllama(t, llm.AnalysisResult{FunctionName: "f", Comment: "c"}, nil)
	defer srv.Close()

	dir := t.TempDir()
	inPath := filepath.Join(dir, "func.c")
	require.NoError(t, os.WriteFile(inPath, []byte("void f() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "func.out.c"), []byte("previous run"), 0o644))

	_, err := runAnalyze(t, inPath, "--base-url", srv.URL)
	require.Error(t, err)

	// The earlier output must survive.
	prev, readErr := os.ReadFile(filepath.Join(dir, "func.out.c"))
	require.NoError(t, readErr)
	require.Equal(t, "previous run", string(prev))
}

func TestAnalyzeCommandFailureCreatesNoOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "func.c")
	require.NoError(t, os.WriteFile(inPath, []byte("void f() {}"), 0o644))

	_, err := runAnalyze(t, inPath, "--base-url", "http://127.0.0.1:1")
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(dir, "func.out.c"))
}

func TestAnalyzeFlagsOverrideEnvironment(t *testing.T) {
	var gotModel string
	srv := fakeOllama(t, llm.AnalysisResult{FunctionName: "f", Comment: "c"}, &gotModel)
	defer srv.Close()

	// Env points at a dead endpoint and the wrong model; explicit flags must win.
	t.Setenv("OLLAMA_BASEURL", "http://127.0.0.1:1")
	t.Setenv("OLLAMA_MODEL", "wrong-model")

	dir := t.TempDir()
	inPath := filepath.Join(dir, "func.c")
	require.NoError(t, os.WriteFile(inPath, []byte("void f() {}"), 0o644))

	_, err := runAnalyze(t, inPath, "--base-url", srv.URL, "--model", "aidapal")
	require.NoError(t, err)
	require.Equal(t, "aidapal", gotModel)
}

func TestAnalyzeCommandMissingInputFile(t *testing.T) {
	srv := fakeOllama(t, llm.AnalysisResult{FunctionName: "f", Comment: "c"}, nil)
	defer srv.Close()

	dir := t.TempDir()
	_, err := runAnalyze(t, filepath.Join(dir, "missing.c"), "--base-url", srv.URL)
	require.Error(t, err)
	require.NoFileExists(t, filepath.Join(dir, "missing.out.c"))
}
