package control

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"whisperlib/internal/audio"
	"whisperlib/internal/config"
	"whisperlib/internal/native"
	"whisperlib/internal/source"
	"whisperlib/internal/whisper"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

// NewTranscribeCmd transcribes a WAV file with the configured model.
func NewTranscribeCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <wavfile>",
		Short: "Transcribe a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(*cfgPath)
			if err != nil {
				return err
			}
			if !nativeAvailable() {
				return native.ErrUnavailable
			}
			threads, _ := cmd.Flags().GetInt("threads")
			if threads <= 0 {
				threads = s.cfg.Transcribe.Threads
			}
			src, _ := cmd.Flags().GetString("source")
			if src == "" {
				src = s.cfg.Model.Source
			}
			if dir, _ := cmd.Flags().GetString("asset-dir"); dir != "" {
				s.cfg.Model.AssetDir = dir
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			samples, err := audio.ReadWAV16kMono(args[0])
			if err != nil {
				return err
			}

			ctx, err := s.loadModel(src)
			if err != nil {
				return err
			}
			defer ctx.Free()

			start := time.Now()
			if err := ctx.Transcribe(threads, samples); err != nil {
				return err
			}
			elapsed := time.Since(start)
			segs, err := ctx.Segments()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(Transcript{
					Model:     ctx.Name(),
					Source:    src,
					AudioMS:   float64(len(samples)) / native.SamplesPerMillisecond,
					Threads:   threads,
					Text:      joinText(segs),
					Segments:  segs,
					ElapsedMS: elapsed.Milliseconds(),
				})
			}
			_, err = fmt.Fprint(out, formatSegments(segs))
			return err
		},
	}
	cmd.Flags().Int("threads", 0, "decoder threads (default: transcribe.threads)")
	cmd.Flags().String("source", "", "model source: file, asset or stream (default: model.source)")
	cmd.Flags().String("asset-dir", "", "asset root for --source asset (default: model.asset_dir)")
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}

// loadModel creates a context through the requested source adapter.
func (s *session) loadModel(src string) (*whisper.Context, error) {
	switch src {
	case config.SourceFile:
		return s.lib.NewContextFromFile(s.cfg.ModelPath())
	case config.SourceAsset:
		name := s.cfg.Model.Path
		root := os.ExpandEnv(s.cfg.Model.AssetDir)
		if rel, err := filepath.Rel(root, name); err == nil && filepath.IsAbs(name) {
			name = rel
		}
		return s.lib.NewContextFromAsset(source.BillyAssets{FS: osfs.New(root)}, filepath.ToSlash(name))
	case config.SourceStream:
		f, err := os.Open(s.cfg.ModelPath())
		if err != nil {
			return nil, fmt.Errorf("open model: %w", err)
		}
		defer func() { _ = f.Close() }()
		st, err := f.Stat()
		if err != nil {
			return nil, err
		}
		return s.lib.NewContextFromStream(source.NewSizedStream(f, st.Size()))
	default:
		return nil, fmt.Errorf("unknown model source %q", src)
	}
}
