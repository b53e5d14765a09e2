//go:build !whisper

package native

// Available reports whether the whisper.cpp backend is compiled in.
func Available() bool { return false }

// Default returns the engine for this build.
func Default() Engine { return stubEngine{} }

// stubEngine satisfies Engine when the binary is built without whisper.cpp.
// Every initializer yields the null context, so the binding degrades to its
// documented failure path.
type stubEngine struct{}

func (stubEngine) DefaultContextParams() ContextParams {
	return ContextParams{UseGPU: true}
}

func (stubEngine) InitWithSource(src Source, _ ContextParams) Context {
	if src != nil {
		_ = src.Close()
	}
	return 0
}

func (stubEngine) Free(Context) {}

func (stubEngine) Full(Context, FullParams, []float32) int { return -1 }

func (stubEngine) ResetTimings(Context) {}
func (stubEngine) PrintTimings(Context) {}

func (stubEngine) NSegments(Context) int           { return 0 }
func (stubEngine) SegmentText(Context, int) string { return "" }
func (stubEngine) SegmentT0(Context, int) int64    { return 0 }
func (stubEngine) SegmentT1(Context, int) int64    { return 0 }

func (stubEngine) Backends() []string { return nil }
func (stubEngine) Devices() []Device  { return nil }

func (stubEngine) SystemInfo() string     { return ErrUnavailable.Error() }
func (stubEngine) BenchMemcpy(int) string { return ErrUnavailable.Error() }
func (stubEngine) BenchMulMat(int) string { return ErrUnavailable.Error() }
