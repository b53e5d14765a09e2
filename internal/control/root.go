package control

import (
	"fmt"
	"os"
	"strings"

	"whisperlib/internal/doctor"

	"github.com/spf13/cobra"
)

// NewTailLogCmd tails the main log file (simple last N lines).
func NewTailLogCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tail-log",
		Short: "Show last 50 log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			return tailFile(cmd, s.cfg.Paths.LogPath, 50)
		},
	}
}

func tailFile(cmd *cobra.Command, path string, n int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), l)
		}
	}
	return nil
}

// NewDoctorCmd runs environment checks.
func NewDoctorCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, model and whisper.cpp backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			results := doctor.Run(s.cfg, s.lib, nativeAvailable())
			for _, r := range results {
				status := "ok"
				if !r.Pass {
					status = "fail"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-4s %s\n", r.Name, status, r.Detail)
			}
			if err := doctor.Err(results); err != nil {
				return fmt.Errorf("doctor found issues: %w", err)
			}
			return nil
		},
	}
}
