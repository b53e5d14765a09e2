package audio

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	in := make([]float32, 1600)
	for i := range in {
		in[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	if err := WriteWAV16kMono(f, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out, err := ReadWAV16kMono(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d want %d", len(out), len(in))
	}
	for i := range in {
		if d := math.Abs(float64(out[i] - in[i])); d > 1e-3 {
			t.Fatalf("sample %d: %f vs %f", i, out[i], in[i])
		}
	}
}

func TestDecodeStereo8kMixesAndResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	enc := wav.NewEncoder(f, 8000, 16, 2, 1)
	frames := 800
	data := make([]int, 0, frames*2)
	for i := 0; i < frames; i++ {
		data = append(data, 16384, -16384)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("encoder close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out, err := ReadWAV16kMono(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != frames*2 {
		t.Fatalf("len = %d want %d", len(out), frames*2)
	}
	for i, s := range out {
		if s != 0 {
			t.Fatalf("sample %d = %f, opposite channels should cancel", i, s)
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeWAV16kMono(bytes.NewReader([]byte("definitely not a riff file")))
	if !errors.Is(err, ErrInvalidWAV) {
		t.Fatalf("expected ErrInvalidWAV, got %v", err)
	}
	if _, err := ReadWAV16kMono(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}

func TestResampleLinearLength(t *testing.T) {
	in := []float32{0, 1, 2, 3}
	out := resampleLinear(in, 16000, 8000)
	if len(out) != 2 {
		t.Fatalf("downsample length got %d", len(out))
	}
	out = resampleLinear(in, 8000, 16000)
	if len(out) != 8 {
		t.Fatalf("upsample length got %d", len(out))
	}
}

func TestResampleLinearEnds(t *testing.T) {
	in := []float32{0, 10}
	out := resampleLinear(in, 1000, 2000)
	if out[0] != 0 || out[len(out)-1] != 10 {
		t.Fatalf("endpoints not preserved: %v", out)
	}
}

func TestFloat32LE(t *testing.T) {
	samples := []float32{0, 1, -1, 0.25, float32(math.Inf(1))}
	b := EncodeFloat32LE(samples)
	if len(b) != len(samples)*BytesPerSample {
		t.Fatalf("encoded %d bytes", len(b))
	}
	if b[4] != 0x00 || b[7] != 0x3f {
		t.Fatalf("1.0 not little-endian: % x", b[4:8])
	}
	got := DecodeFloat32LE(append(b, 0xAA, 0xBB))
	if len(got) != len(samples) {
		t.Fatalf("trailing bytes should be ignored, got %d samples", len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Fatalf("sample %d: %v vs %v", i, got[i], samples[i])
		}
	}
	if len(DecodeFloat32LE(nil)) != 0 {
		t.Fatalf("nil input should decode to no samples")
	}
}
