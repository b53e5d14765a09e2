//go:build whisper

package native

/*
#cgo LDFLAGS: -lwhisper -lggml -lggml-base -lm -lstdc++
#include <stdlib.h>
#include <stdint.h>
#include <stdbool.h>
#include <whisper.h>
#include <ggml-backend.h>

size_t whisperlibSourceRead(void * ctx, void * output, size_t read_size);
bool whisperlibSourceEOF(void * ctx);
void whisperlibSourceClose(void * ctx);
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	whispercpp "github.com/ggerganov/whisper.cpp/bindings/go"
)

// Available reports whether the whisper.cpp backend is compiled in.
func Available() bool { return true }

// Default returns the engine for this build.
func Default() Engine { return cgoEngine{} }

// cgoEngine calls libwhisper directly for the loader, decoding and ggml
// registry entry points, and goes through the upstream Go bindings for the
// per-context getters they already cover.
type cgoEngine struct{}

func cptr(ctx Context) *C.struct_whisper_context {
	return (*C.struct_whisper_context)(unsafe.Pointer(ctx))
}

func bound(ctx Context) *whispercpp.Context {
	return (*whispercpp.Context)(unsafe.Pointer(ctx))
}

func (cgoEngine) DefaultContextParams() ContextParams {
	p := C.whisper_context_default_params()
	return ContextParams{
		UseGPU:    bool(p.use_gpu),
		GPUDevice: int(p.gpu_device),
		FlashAttn: bool(p.flash_attn),
	}
}

func (cgoEngine) InitWithSource(src Source, params ContextParams) Context {
	if src == nil {
		return 0
	}
	h := cgo.NewHandle(src)
	defer h.Delete()

	// The loader context must not be a Go pointer, so the handle lives in C
	// memory for the duration of the call.
	hp := (*C.uintptr_t)(C.malloc(C.size_t(unsafe.Sizeof(C.uintptr_t(0)))))
	defer C.free(unsafe.Pointer(hp))
	*hp = C.uintptr_t(h)

	loader := C.whisper_model_loader{
		context: unsafe.Pointer(hp),
		read:    (*[0]byte)(C.whisperlibSourceRead),
		eof:     (*[0]byte)(C.whisperlibSourceEOF),
		close:   (*[0]byte)(C.whisperlibSourceClose),
	}

	cParams := C.whisper_context_default_params()
	cParams.use_gpu = C.bool(params.UseGPU)
	cParams.gpu_device = C.int(params.GPUDevice)
	cParams.flash_attn = C.bool(params.FlashAttn)

	ctx := C.whisper_init_with_params(&loader, cParams)
	return Context(uintptr(unsafe.Pointer(ctx)))
}

func (cgoEngine) Free(ctx Context) {
	if ctx.IsNull() {
		return
	}
	bound(ctx).Whisper_free()
}

func (cgoEngine) Full(ctx Context, p FullParams, samples []float32) int {
	strategy := C.enum_whisper_sampling_strategy(C.WHISPER_SAMPLING_GREEDY)
	if p.Strategy == SamplingBeamSearch {
		strategy = C.WHISPER_SAMPLING_BEAM_SEARCH
	}
	params := C.whisper_full_default_params(strategy)
	params.n_threads = C.int(p.Threads)
	params.print_realtime = C.bool(p.PrintRealtime)
	params.print_progress = C.bool(p.PrintProgress)
	params.print_timestamps = C.bool(p.PrintTimestamps)
	params.print_special = C.bool(p.PrintSpecial)
	params.translate = C.bool(p.Translate)
	params.offset_ms = C.int(p.OffsetMS)
	params.no_context = C.bool(p.NoContext)
	params.single_segment = C.bool(p.SingleSegment)

	lang := p.Language
	if lang == "" {
		lang = "auto"
	}
	cLang := C.CString(lang)
	defer C.free(unsafe.Pointer(cLang))
	params.language = cLang

	var data *C.float
	if len(samples) > 0 {
		data = (*C.float)(unsafe.Pointer(&samples[0]))
	}
	return int(C.whisper_full(cptr(ctx), params, data, C.int(len(samples))))
}

func (cgoEngine) ResetTimings(ctx Context) { bound(ctx).Whisper_reset_timings() }
func (cgoEngine) PrintTimings(ctx Context) { bound(ctx).Whisper_print_timings() }

func (cgoEngine) NSegments(ctx Context) int { return bound(ctx).Whisper_full_n_segments() }

func (cgoEngine) SegmentText(ctx Context, i int) string {
	return bound(ctx).Whisper_full_get_segment_text(i)
}

func (cgoEngine) SegmentT0(ctx Context, i int) int64 {
	return bound(ctx).Whisper_full_get_segment_t0(i)
}

func (cgoEngine) SegmentT1(ctx Context, i int) int64 {
	return bound(ctx).Whisper_full_get_segment_t1(i)
}

func (cgoEngine) Backends() []string {
	n := int(C.ggml_backend_reg_count())
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		reg := C.ggml_backend_reg_get(C.size_t(i))
		out = append(out, C.GoString(C.ggml_backend_reg_name(reg)))
	}
	return out
}

func (cgoEngine) Devices() []Device {
	n := int(C.ggml_backend_dev_count())
	out := make([]Device, 0, n)
	for i := 0; i < n; i++ {
		dev := C.ggml_backend_dev_get(C.size_t(i))
		out = append(out, Device{
			Index: i,
			Name:  C.GoString(C.ggml_backend_dev_name(dev)),
			Kind:  deviceKind(C.ggml_backend_dev_type(dev)),
		})
	}
	return out
}

func deviceKind(t C.enum_ggml_backend_dev_type) DeviceKind {
	switch t {
	case C.GGML_BACKEND_DEVICE_TYPE_CPU:
		return DeviceKindCPU
	case C.GGML_BACKEND_DEVICE_TYPE_GPU:
		return DeviceKindGPU
	case C.GGML_BACKEND_DEVICE_TYPE_ACCEL:
		return DeviceKindAccel
	default:
		return DeviceKindOther
	}
}

func (cgoEngine) SystemInfo() string {
	return C.GoString(C.whisper_print_system_info())
}

func (cgoEngine) BenchMemcpy(nThreads int) string {
	return C.GoString(C.whisper_bench_memcpy_str(C.int(nThreads)))
}

func (cgoEngine) BenchMulMat(nThreads int) string {
	return C.GoString(C.whisper_bench_ggml_mul_mat_str(C.int(nThreads)))
}

func loaderSource(ctx unsafe.Pointer) (Source, bool) {
	if ctx == nil {
		return nil, false
	}
	return sourceFromHandle(uintptr(*(*C.uintptr_t)(ctx)))
}

//export whisperlibSourceRead
func whisperlibSourceRead(ctx unsafe.Pointer, output unsafe.Pointer, readSize C.size_t) C.size_t {
	src, ok := loaderSource(ctx)
	if !ok || output == nil || readSize == 0 {
		return 0
	}
	dst := unsafe.Slice((*byte)(output), int(readSize))
	return C.size_t(src.ReadChunk(dst))
}

//export whisperlibSourceEOF
func whisperlibSourceEOF(ctx unsafe.Pointer) C.bool {
	src, ok := loaderSource(ctx)
	if !ok {
		return C.bool(true)
	}
	return C.bool(src.AtEnd())
}

//export whisperlibSourceClose
func whisperlibSourceClose(ctx unsafe.Pointer) {
	if src, ok := loaderSource(ctx); ok {
		_ = src.Close()
	}
}
