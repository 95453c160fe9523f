package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pseudomancer/pseudomancer/internal/analyzer"
	"github.com/pseudomancer/pseudomancer/internal/llm/ollama"
	"github.com/pseudomancer/pseudomancer/internal/logging"
)

// NewAnalyzeCmd wires the analyze command: submit a pseudocode file to the
// local model and save an annotated copy next to it.
func NewAnalyzeCmd(opts *Options) *cobra.Command {
	var baseURL string
	var model string

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze decompiled pseudocode and write an improved copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			// Explicit flags win over env and config file values.
			if cmd.Flags().Changed("base-url") {
				cfg.Ollama.BaseURL = baseURL
			}
			if cmd.Flags().Changed("model") {
				cfg.Ollama.Model = model
			}

			logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck // best-effort

			path := args[0]
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "[*] Analyzing pseudocode in `%s`\n", path)
			code, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			provider := ollama.NewProvider("ollama", cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout)
			rep, err := analyzer.New(provider, nil, logger).Analyze(cmd.Context(), string(code))
			if err != nil {
				return fmt.Errorf("analyze pseudocode: %w", err)
			}
			fmt.Fprintf(out, "[+] Successfully analyzed pseudocode\n\n")

			fmt.Fprint(out, rep.Header)
			fmt.Fprintln(out, "[-] Variable renaming suggestions:")
			for _, r := range rep.Renames {
				fmt.Fprintf(out, "    %s\t-> %s\n", r.OriginalName, r.NewName)
			}

			outPath := outputPath(path)
			fmt.Fprintf(out, "\n[*] Saving improved pseudocode in `%s`\n", outPath)
			if err := writeNew(outPath, rep.Output()); err != nil {
				return err
			}

			fmt.Fprintln(out, "[+] Done analyzing pseudocode")
			return nil
		},
	}

	cmd.Flags().StringVarP(&baseURL, "base-url", "b", "", "Base URL for the Ollama API (env: OLLAMA_BASEURL)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Name of the LLM model to use (env: OLLAMA_MODEL)")
	return cmd
}

// outputPath swaps the input file's extension for "out.c".
func outputPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".out.c"
}

// writeNew writes content to a file that must not already exist. Refusing to
// overwrite keeps a previous run's output safe from a repeated invocation.
func writeNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
