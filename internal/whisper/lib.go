// Package whisper is the binding layer over the native engine. A Lib owns the
// engine and a logger; every model load produces a Context that the caller
// must Free exactly once.
package whisper

import (
	"fmt"
	"time"

	"whisperlib/internal/native"
	"whisperlib/internal/source"

	"github.com/sirupsen/logrus"
)

// Lib creates contexts and answers handle-free diagnostics.
type Lib struct {
	engine native.Engine
	logger logrus.FieldLogger
	now    func() time.Time
}

// Option configures a Lib.
type Option func(*Lib)

// WithEngine replaces the compiled-in engine, mostly for tests.
func WithEngine(e native.Engine) Option {
	return func(l *Lib) { l.engine = e }
}

// WithLogger routes binding logs to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(l *Lib) { l.logger = logger }
}

// WithClock overrides the wall clock used for RTF measurements.
func WithClock(now func() time.Time) Option {
	return func(l *Lib) { l.now = now }
}

// New returns a Lib backed by native.Default unless WithEngine is given.
func New(opts ...Option) *Lib {
	l := &Lib{}
	for _, opt := range opts {
		opt(l)
	}
	if l.engine == nil {
		l.engine = native.Default()
	}
	if l.logger == nil {
		l.logger = logrus.StandardLogger()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Logger returns the logger contexts write to.
func (l *Lib) Logger() logrus.FieldLogger { return l.logger }

// NewContextFromFile loads a model from disk with default context params.
// The engine is never called when path cannot be opened.
func (l *Lib) NewContextFromFile(path string) (*Context, error) {
	src, err := source.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	l.logger.Debugf("loading model from file %q", path)
	return l.init(src, path, l.engine.DefaultContextParams())
}

// NewContextFromAsset streams a packaged model out of assets. All backends
// and devices are logged and the first GPU device, if any, is selected.
func (l *Lib) NewContextFromAsset(assets source.AssetManager, assetPath string) (*Context, error) {
	l.logger.Infof("loading model from asset %q", assetPath)
	src, err := source.OpenAsset(assets, assetPath)
	if err != nil {
		l.logger.Warnf("failed to open %q: %v", assetPath, err)
		return nil, err
	}

	l.logBackends()
	params := l.engine.DefaultContextParams()
	params.UseGPU = true
	if dev, ok := SelectGPU(l.engine.Devices()); ok {
		params.GPUDevice = dev.Index
		l.logger.Infof("found GPU device %d: %s", dev.Index, dev.Name)
		l.logger.Infof("initializing whisper context with GPU device %d", dev.Index)
	} else {
		l.logger.Info("no GPU device found, using CPU")
	}

	ctx, err := l.init(src, assetPath, params)
	if err != nil {
		return nil, err
	}
	l.logger.Infof("whisper context created. system info: %s", l.engine.SystemInfo())
	return ctx, nil
}

// NewContextFromStream loads a model pulled from a caller-owned stream. The
// stream is not closed.
func (l *Lib) NewContextFromStream(stream source.Stream) (*Context, error) {
	if stream == nil {
		return nil, fmt.Errorf("open model: nil stream")
	}
	src := source.NewStreamSource(stream, l.logger)
	return l.init(src, "stream", l.engine.DefaultContextParams())
}

func (l *Lib) init(src native.Source, name string, params native.ContextParams) (*Context, error) {
	ptr := l.engine.InitWithSource(src, params)
	// Sources tolerate a second Close.
	_ = src.Close()
	if ptr.IsNull() {
		l.logger.Warnf("failed to initialize whisper context from %s", name)
		return nil, ErrInitFailed
	}
	return &Context{lib: l, ptr: ptr, name: name}, nil
}

func (l *Lib) logBackends() {
	backends := l.engine.Backends()
	l.logger.Infof("available GGML backends: %d", len(backends))
	for i, name := range backends {
		l.logger.Infof("  backend %d: %s", i, name)
	}
	devices := l.engine.Devices()
	l.logger.Infof("available GGML devices: %d", len(devices))
	for _, d := range devices {
		l.logger.Infof("  device %s", d)
	}
}

// SystemInfo reports the engine's compiled-in CPU and backend features.
func (l *Lib) SystemInfo() string { return l.engine.SystemInfo() }

// BenchMemcpy runs the engine's memory copy benchmark.
func (l *Lib) BenchMemcpy(threads int) string { return l.engine.BenchMemcpy(threads) }

// BenchMulMat runs the engine's matrix multiplication benchmark.
func (l *Lib) BenchMulMat(threads int) string { return l.engine.BenchMulMat(threads) }

// Backends lists registered ggml backends by name.
func (l *Lib) Backends() []string { return l.engine.Backends() }

// Devices lists ggml backend devices in registry order.
func (l *Lib) Devices() []native.Device { return l.engine.Devices() }
