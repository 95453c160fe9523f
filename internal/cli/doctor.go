package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDoctorCmd returns a health-check command validating config and environment.
func NewDoctorCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate configuration and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config OK. Endpoint: %s, model: %s\n", cfg.Ollama.BaseURL, cfg.Ollama.Model)
			if cfg.Ollama.Timeout == 0 {
				fmt.Fprintln(out, "Request timeout: none (inference waits are unbounded)")
			} else {
				fmt.Fprintf(out, "Request timeout: %s\n", cfg.Ollama.Timeout)
			}
			return nil
		},
	}
}
