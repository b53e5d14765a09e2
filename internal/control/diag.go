package control

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSysinfoCmd prints the engine's system info string.
func NewSysinfoCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sysinfo",
		Short: "Print whisper.cpp system info",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.lib.SystemInfo())
			return err
		},
	}
}

// NewBenchCmd runs the engine's built-in benchmarks.
func NewBenchCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "bench memcpy|mulmat",
		Short:     "Run whisper.cpp benchmarks",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"memcpy", "mulmat"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			threads, _ := cmd.Flags().GetInt("threads")
			if threads <= 0 {
				threads = s.cfg.Transcribe.Threads
			}
			var out string
			switch args[0] {
			case "memcpy":
				out = s.lib.BenchMemcpy(threads)
			case "mulmat":
				out = s.lib.BenchMulMat(threads)
			default:
				return fmt.Errorf("unknown benchmark %q (want memcpy or mulmat)", args[0])
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().Int("threads", 0, "benchmark threads (default: transcribe.threads)")
	return cmd
}

// NewDevicesCmd lists ggml backends and devices.
func NewDevicesCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List ggml backends and devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, b := range s.lib.Backends() {
				_, _ = fmt.Fprintf(out, "backend %d: %s\n", i, b)
			}
			for _, d := range s.lib.Devices() {
				_, _ = fmt.Fprintf(out, "device  %s\n", d)
			}
			return nil
		},
	}
}
