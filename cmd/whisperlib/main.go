package main

import (
	"fmt"
	"os"

	"whisperlib/internal/control"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		return err
	}
	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "whisperlib",
		Short: "whisperlib — whisper.cpp bindings for mobile apps",
		Long: `whisperlib wraps the whisper.cpp engine for gomobile. This CLI drives the same
binding layer from a desktop shell: load a model from a file, an asset tree or a
byte stream, transcribe 16 kHz WAV audio and inspect the ggml backends.

Key commands:
  transcribe <wav>          Transcribe a WAV file (--source file|asset|stream, --json)
  sysinfo|devices           Engine system info, ggml backends and devices
  bench memcpy|mulmat       whisper.cpp built-in benchmarks
  doctor|setup              Check config/model/backend, download default model
  models list|download|set  Manage ggml models
  tail-log                  Show last log lines

Env overrides: WHISPERLIB_MODEL_PATH, WHISPERLIB_MODEL_SOURCE, WHISPERLIB_THREADS,
               WHISPERLIB_LOG_LEVEL/FORMAT/STDOUT`,
		Example: `  whisperlib setup
  whisperlib transcribe samples/jfk.wav --threads 4
  whisperlib transcribe samples/jfk.wav --source stream --json
  whisperlib models download ggml-tiny.en.bin
  whisperlib models set ggml-tiny.en.bin
  whisperlib bench mulmat --threads 8`,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
	}

	root.Version = version
	root.SetVersionTemplate("whisperlib v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/whisperlib/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(control.NewTranscribeCmd(cfgPath))
	root.AddCommand(control.NewSysinfoCmd(cfgPath))
	root.AddCommand(control.NewDevicesCmd(cfgPath))
	root.AddCommand(control.NewBenchCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))
	root.AddCommand(control.NewSetupCmd(cfgPath))
	root.AddCommand(control.NewModelsCmd(cfgPath))
	root.AddCommand(control.NewTailLogCmd(cfgPath))

	applyColorHelp(root)
	return root
}

func applyColorHelp(root *cobra.Command) {
	const (
		boldBlue = "\033[1;34m"
		green    = "\033[32m"
		bold     = "\033[1m"
		dim      = "\033[2m"
		reset    = "\033[0m"
	)
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != root {
			// Subcommands keep cobra's usage text so their flags are listed.
			_, _ = fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		write := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }
		writeln := func(line string) { _, _ = fmt.Fprintln(out, line) }

		write("%swhisperlib%s — whisper.cpp bindings for mobile apps %s(v%s)%s\n", boldBlue, reset, dim, version, reset)
		write("%sLoads ggml models from files, assets or streams and transcribes locally.%s\n\n", dim, reset)

		write("%sUsage%s\n", bold, reset)
		write("  whisperlib [command] [flags]\n\n")

		write("%sKey commands%s\n", bold, reset)
		writeln("  transcribe <wav>            transcribe 16 kHz audio (--source, --threads, --json)")
		writeln("  sysinfo                     whisper.cpp system info")
		writeln("  devices                     ggml backends and devices")
		writeln("  bench memcpy|mulmat         built-in benchmarks")
		writeln("  doctor                      check config/model/backend")
		writeln("  setup                       download the configured model")
		writeln("  models list|download|set    manage ggml models")
		writeln("  tail-log                    show last log lines")
		writeln("")

		write("%sNotable flags & env%s\n", bold, reset)
		writeln("  -c, --config <path>     config file (default ~/.config/whisperlib/config.toml)")
		writeln("  Env: WHISPERLIB_MODEL_PATH=/path/model.bin, WHISPERLIB_MODEL_SOURCE=stream,")
		writeln("       WHISPERLIB_THREADS=4, WHISPERLIB_LOG_LEVEL=debug, WHISPERLIB_LOG_FORMAT=json,")
		writeln("       WHISPERLIB_LOG_STDOUT=1")
		writeln("")

		write("%sExamples%s\n", bold, reset)
		writeln("  whisperlib setup")
		writeln("  whisperlib transcribe samples/jfk.wav --threads 4")
		writeln("  whisperlib transcribe samples/jfk.wav --source asset --asset-dir ./assets")
		writeln("  whisperlib models download ggml-tiny.en.bin")
		writeln("  whisperlib bench mulmat --threads 8")
		writeln("")

		write("%sCommands%s\n", bold, reset)
		for _, c := range cmd.Commands() {
			if c.Hidden {
				continue
			}
			write("  %s%-15s%s %s\n", green, c.Name(), reset, c.Short)
		}
	})
}
