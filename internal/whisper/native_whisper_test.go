//go:build whisper

package whisper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"whisperlib/internal/audio"
	"whisperlib/internal/native"
	"whisperlib/internal/source"
)

func TestNativeTranscribesFixture(t *testing.T) {
	modelPath := locateFixture(t, filepath.Join("testdata", "models", "ggml-tiny.en.bin"), "run `whisperlib models download ggml-tiny.en.bin`")
	wavPath := locateFixture(t, filepath.Join("testdata", "jfk.wav"), "")

	lib := New()
	ctx, err := lib.NewContextFromFile(modelPath)
	if err != nil {
		t.Fatalf("NewContextFromFile: %v", err)
	}
	defer ctx.Free()

	samples, err := audio.ReadWAV16kMono(wavPath)
	if err != nil {
		t.Fatalf("read wav: %v", err)
	}
	if err := ctx.Transcribe(runtime.NumCPU(), samples); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	segs, err := ctx.Segments()
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if len(segs) == 0 {
		t.Fatal("no segments")
	}
	for i, s := range segs {
		if s.Start > s.End {
			t.Fatalf("segment %d: start %d > end %d", i, s.Start, s.End)
		}
	}
	text, _ := ctx.Text()
	if !strings.Contains(strings.ToLower(text), "country") {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestNativeStreamAndEmptyInput(t *testing.T) {
	modelPath := locateFixture(t, filepath.Join("testdata", "models", "ggml-tiny.en.bin"), "")
	f, err := os.Open(modelPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	lib := New()
	ctx, err := lib.NewContextFromStream(source.NewSizedStream(f, st.Size()))
	if err != nil {
		t.Fatalf("NewContextFromStream: %v", err)
	}
	defer ctx.Free()

	if err := ctx.Transcribe(1, nil); err != nil {
		var fe *FullError
		if !errors.As(err, &fe) {
			t.Fatalf("unexpected error type: %v", err)
		}
	}
	if _, err := ctx.SegmentCount(); err != nil {
		t.Fatalf("SegmentCount: %v", err)
	}
}

func TestNativeDiagnostics(t *testing.T) {
	lib := New()
	if !native.Available() {
		t.Fatal("whisper build tag set but backend reports unavailable")
	}
	a, b := lib.SystemInfo(), lib.SystemInfo()
	if a == "" || a != b {
		t.Fatalf("system info not stable: %q vs %q", a, b)
	}
	if len(lib.Devices()) == 0 {
		t.Fatal("expected at least the CPU device")
	}
}

func locateFixture(tb testing.TB, relativePath string, suggestion string) string {
	tb.Helper()

	wd, err := os.Getwd()
	if err != nil {
		tb.Fatalf("getwd: %v", err)
	}

	visited := make([]string, 0, 4)
	for {
		candidate := filepath.Join(wd, relativePath)
		visited = append(visited, candidate)

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			tb.Fatalf("stat %s: %v", candidate, err)
		}

		parent := filepath.Dir(wd)
		if parent == wd {
			msg := fmt.Sprintf("fixture %s not found (checked: %s)", relativePath, strings.Join(visited, ", "))
			if suggestion != "" {
				msg = fmt.Sprintf("%s; %s", msg, suggestion)
			}
			tb.Skip(msg)
		}
		wd = parent
	}
}
