package control

import (
	"fmt"
	"os"
	"path/filepath"

	"whisperlib/internal/config"
	"whisperlib/internal/models"

	"github.com/spf13/cobra"
)

// NewSetupCmd downloads the configured model if missing.
func NewSetupCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Download the configured whisper model if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			modelPath := s.cfg.ModelPath()
			out := cmd.OutOrStdout()
			if _, err := os.Stat(modelPath); err == nil {
				_, _ = fmt.Fprintln(out, "model already present at", modelPath)
				return nil
			}
			name := config.DefaultModel
			if base := filepath.Base(modelPath); models.Known(base) {
				name = base
			}
			url, err := models.URL(name)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "downloading %s to %s\n", name, modelPath)
			if err := models.Fetch(cmd.Context(), nil, url, modelPath, s.logger); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, "model download complete")
			return nil
		},
	}
}
