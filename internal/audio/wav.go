// Package audio turns WAV files into the 16 kHz mono float32 samples the
// engine expects, and converts samples to and from their little-endian
// byte form used at the mobile boundary.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"whisperlib/internal/native"
)

// ErrInvalidWAV is returned for files the decoder does not recognise.
var ErrInvalidWAV = errors.New("audio: not a valid WAV file")

// ReadWAV16kMono decodes path, mixes it down to mono and resamples it to
// 16 kHz.
func ReadWAV16kMono(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return DecodeWAV16kMono(f)
}

// DecodeWAV16kMono is ReadWAV16kMono for an already open reader.
func DecodeWAV16kMono(r io.ReadSeeker) ([]float32, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("decode wav: missing format")
	}
	mono := mixDown(buf, int(d.BitDepth))
	return resampleLinear(mono, buf.Format.SampleRate, native.SampleRate), nil
}

func mixDown(buf *goaudio.IntBuffer, bitDepth int) []float32 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	ch := buf.Format.NumChannels
	frames := len(buf.Data) / ch
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < ch; c++ {
			sum += float32(buf.Data[i*ch+c]) / scale
		}
		out[i] = sum / float32(ch)
	}
	return out
}

// WriteWAV16kMono encodes samples as a 16-bit PCM mono WAV at 16 kHz.
func WriteWAV16kMono(w io.WriteSeeker, samples []float32) error {
	enc := wav.NewEncoder(w, native.SampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		s = max(-1, min(1, s))
		data[i] = int(s * 32767)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: native.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

func resampleLinear(in []float32, srcSR, dstSR int) []float32 {
	if srcSR == dstSR || srcSR <= 0 || len(in) == 0 {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}
	ratio := float64(dstSR) / float64(srcSR)
	outLen := int(float64(len(in))*ratio + 0.9999)
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = in[idx]*(1-frac) + in[idx+1]*frac
	}
	return out
}
