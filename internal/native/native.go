// Package native describes the slice of the whisper.cpp C interface the
// binding layer calls into. The cgo implementation lives behind the
// `whisper` build tag; without it a stub reports the backend as unavailable.
package native

import (
	"errors"
	"fmt"
)

// ErrUnavailable is returned when the binary was built without whisper.cpp.
var ErrUnavailable = errors.New("native: whisper.cpp backend not compiled in (build with -tags whisper)")

// SampleRate is the only input rate whisper.cpp accepts.
const SampleRate = 16000

// SamplesPerMillisecond converts a sample count into milliseconds of audio.
const SamplesPerMillisecond = SampleRate / 1000

// Context is an opaque pointer to a native whisper_context. Zero is null.
type Context uintptr

// IsNull reports whether the context is the null handle.
func (c Context) IsNull() bool { return c == 0 }

// Source is the loader callback contract: the engine pulls model bytes
// through ReadChunk until AtEnd reports true, then calls Close.
type Source interface {
	// ReadChunk fills dst and returns the number of bytes written.
	ReadChunk(dst []byte) int
	// AtEnd reports whether the source has no more data.
	AtEnd() bool
	// Close releases the source. It must be safe to call more than once.
	Close() error
}

// Engine is the native inference engine as seen by the binding layer.
type Engine interface {
	DefaultContextParams() ContextParams
	// InitWithSource loads a model through the loader callbacks. It returns
	// the null context on failure. The engine closes src when done.
	InitWithSource(src Source, params ContextParams) Context
	Free(ctx Context)

	// Full runs whisper_full synchronously and returns its status code.
	Full(ctx Context, params FullParams, samples []float32) int
	ResetTimings(ctx Context)
	PrintTimings(ctx Context)

	NSegments(ctx Context) int
	SegmentText(ctx Context, i int) string
	SegmentT0(ctx Context, i int) int64
	SegmentT1(ctx Context, i int) int64

	Backends() []string
	Devices() []Device

	SystemInfo() string
	BenchMemcpy(nThreads int) string
	BenchMulMat(nThreads int) string
}

// ContextParams mirrors whisper_context_params.
type ContextParams struct {
	UseGPU    bool
	GPUDevice int
	FlashAttn bool
}

// DeviceKind names a ggml backend device type.
type DeviceKind int

const (
	DeviceKindOther DeviceKind = iota
	DeviceKindCPU
	DeviceKindGPU
	DeviceKindAccel
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceKindCPU:
		return "cpu"
	case DeviceKindGPU:
		return "gpu"
	case DeviceKindAccel:
		return "accel"
	default:
		return "other"
	}
}

// Device is one entry of the ggml backend device registry.
type Device struct {
	Index int
	Name  string
	Kind  DeviceKind
}

func (d Device) String() string {
	return fmt.Sprintf("%d: %s (%s)", d.Index, d.Name, d.Kind)
}
