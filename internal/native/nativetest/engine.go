// Package nativetest provides an in-memory native.Engine for tests. It keeps
// per-context state, drains model sources like the real loader does and
// counts every init and free so tests can assert that nothing leaks.
package nativetest

import (
	"fmt"
	"sync"

	"whisperlib/internal/native"
)

// Segment is a scripted transcription result.
type Segment struct {
	Text   string
	T0, T1 int64
}

// Engine is a fake native.Engine. Exported fields configure behaviour and
// must be set before use.
type Engine struct {
	// FailInit makes every initializer return the null context.
	FailInit bool
	// FullCode is returned by Full; non-zero simulates an inference failure.
	FullCode int
	// Script is what Full produces for non-empty input.
	Script []Segment
	// ReadSize is the chunk size requested from sources while loading.
	ReadSize int

	DeviceList  []native.Device
	BackendList []string
	Info        string

	mu          sync.Mutex
	next        native.Context
	live        map[native.Context]*contextState
	attempts    int
	inits       int
	frees       int
	doubleFrees int
	resets      int
	prints      int
	lastCtx     native.ContextParams
	lastFull    native.FullParams
	fullCalls   int
}

type contextState struct {
	model    []byte
	segments []Segment
}

// New returns a fake engine with a CPU device and a non-empty script.
func New() *Engine {
	return &Engine{
		Script: []Segment{
			{Text: " And so my fellow Americans,", T0: 0, T1: 220},
			{Text: " ask not what your country can do for you,", T0: 220, T1: 480},
			{Text: " ask what you can do for your country.", T0: 480, T1: 1100},
		},
		DeviceList:  []native.Device{{Index: 0, Name: "CPU", Kind: native.DeviceKindCPU}},
		BackendList: []string{"CPU"},
		Info:        "AVX = 1 | NEON = 0 | fake = 1 |",
	}
}

func (e *Engine) DefaultContextParams() native.ContextParams {
	return native.ContextParams{UseGPU: true, GPUDevice: 0}
}

func (e *Engine) InitWithSource(src native.Source, params native.ContextParams) native.Context {
	if src == nil {
		return 0
	}
	defer func() { _ = src.Close() }()

	size := e.ReadSize
	if size <= 0 {
		size = 7
	}
	var model []byte
	buf := make([]byte, size)
	for !src.AtEnd() {
		n := src.ReadChunk(buf)
		if n <= 0 {
			break
		}
		model = append(model, buf[:n]...)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.attempts++
	e.lastCtx = params
	if e.FailInit || len(model) == 0 {
		return 0
	}
	if e.live == nil {
		e.live = make(map[native.Context]*contextState)
	}
	e.next++
	e.inits++
	e.live[e.next] = &contextState{model: model}
	return e.next
}

func (e *Engine) Free(ctx native.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ctx.IsNull() {
		return
	}
	if _, ok := e.live[ctx]; !ok {
		e.doubleFrees++
		return
	}
	delete(e.live, ctx)
	e.frees++
}

func (e *Engine) Full(ctx native.Context, params native.FullParams, samples []float32) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fullCalls++
	e.lastFull = params
	st, ok := e.live[ctx]
	if !ok {
		return -1
	}
	if e.FullCode != 0 {
		return e.FullCode
	}
	if len(samples) == 0 {
		st.segments = nil
		return 0
	}
	st.segments = append([]Segment(nil), e.Script...)
	return 0
}

func (e *Engine) ResetTimings(native.Context) {
	e.mu.Lock()
	e.resets++
	e.mu.Unlock()
}

func (e *Engine) PrintTimings(native.Context) {
	e.mu.Lock()
	e.prints++
	e.mu.Unlock()
}

func (e *Engine) segment(ctx native.Context, i int) (Segment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.live[ctx]
	if !ok || i < 0 || i >= len(st.segments) {
		return Segment{}, false
	}
	return st.segments[i], true
}

func (e *Engine) NSegments(ctx native.Context) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.live[ctx]; ok {
		return len(st.segments)
	}
	return 0
}

func (e *Engine) SegmentText(ctx native.Context, i int) string {
	s, _ := e.segment(ctx, i)
	return s.Text
}

func (e *Engine) SegmentT0(ctx native.Context, i int) int64 {
	s, _ := e.segment(ctx, i)
	return s.T0
}

func (e *Engine) SegmentT1(ctx native.Context, i int) int64 {
	s, _ := e.segment(ctx, i)
	return s.T1
}

func (e *Engine) Backends() []string       { return append([]string(nil), e.BackendList...) }
func (e *Engine) Devices() []native.Device { return append([]native.Device(nil), e.DeviceList...) }

func (e *Engine) SystemInfo() string { return e.Info }

func (e *Engine) BenchMemcpy(n int) string {
	return benchLine("memcpy", n)
}

func (e *Engine) BenchMulMat(n int) string {
	return benchLine("ggml_mul_mat", n)
}

// InitCalls is the number of times InitWithSource was called with a source.
func (e *Engine) InitCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.attempts
}

// Inits is the number of successful initializations.
func (e *Engine) Inits() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inits
}

// Frees is the number of contexts released.
func (e *Engine) Frees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frees
}

// DoubleFrees counts Free calls on contexts that were not live.
func (e *Engine) DoubleFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubleFrees
}

// Live is the number of contexts created and not yet freed.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Model returns the bytes a live context was loaded from.
func (e *Engine) Model(ctx native.Context) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if st, ok := e.live[ctx]; ok {
		return append([]byte(nil), st.model...)
	}
	return nil
}

func (e *Engine) LastContextParams() native.ContextParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastCtx
}

func (e *Engine) LastFullParams() native.FullParams {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastFull
}

func (e *Engine) FullCalls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fullCalls
}

func (e *Engine) Resets() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resets
}

func (e *Engine) Prints() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prints
}

func benchLine(name string, threads int) string {
	return fmt.Sprintf("%s: fake benchmark, %d threads\n", name, threads)
}
