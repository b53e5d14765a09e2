package audio

import (
	"encoding/binary"
	"math"
)

// BytesPerSample is the width of one float32 sample on the wire.
const BytesPerSample = 4

// DecodeFloat32LE reads little-endian IEEE-754 float32 samples. Trailing
// bytes that do not form a whole sample are ignored.
func DecodeFloat32LE(b []byte) []float32 {
	n := len(b) / BytesPerSample
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*BytesPerSample:]))
	}
	return out
}

// EncodeFloat32LE is the inverse of DecodeFloat32LE.
func EncodeFloat32LE(samples []float32) []byte {
	out := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[i*BytesPerSample:], math.Float32bits(s))
	}
	return out
}
