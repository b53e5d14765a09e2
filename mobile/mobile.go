// Package mobile is the surface exported to Android and iOS with
// `gomobile bind`. Contexts are referenced by int64 handles; 0 is the null
// handle. Failures are logged and mapped to zero values, never raised.
package mobile

import (
	"os"
	"strings"
	"sync"

	"whisperlib/internal/audio"
	"whisperlib/internal/source"
	"whisperlib/internal/whisper"

	"github.com/sirupsen/logrus"
)

// InputStream is implemented on the managed side, typically by wrapping a
// java.io.InputStream. Available returns the number of bytes readable now,
// or 0 at the end of the stream. Read returns up to n bytes.
type InputStream interface {
	Available() int32
	Read(n int32) []byte
}

type registry struct {
	mu      sync.Mutex
	lib     *whisper.Lib
	assets  source.AssetManager
	next    int64
	handles map[int64]*whisper.Context
}

var (
	logger = newLogger()
	std    = newRegistry(whisper.New(whisper.WithLogger(logger)), source.MobileAssets{})
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

func newRegistry(lib *whisper.Lib, assets source.AssetManager) *registry {
	return &registry{lib: lib, assets: assets, handles: make(map[int64]*whisper.Context)}
}

func (r *registry) put(ctx *whisper.Context, err error) int64 {
	if err != nil || ctx == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.handles[r.next] = ctx
	return r.next
}

func (r *registry) get(h int64) *whisper.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[h]
}

func (r *registry) take(h int64) *whisper.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := r.handles[h]
	delete(r.handles, h)
	return ctx
}

func (r *registry) live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// InitContext loads a model file and returns its handle, or 0.
func InitContext(modelPath string) int64 {
	ctx, err := std.lib.NewContextFromFile(modelPath)
	if err != nil {
		logger.Warnf("init context from %q: %v", modelPath, err)
	}
	return std.put(ctx, err)
}

// InitContextFromAsset loads a model packaged in the application's assets.
func InitContextFromAsset(assetPath string) int64 {
	return std.put(std.lib.NewContextFromAsset(std.assets, assetPath))
}

// InitContextFromInputStream loads a model from a managed stream. The stream
// is read to its end but not closed.
func InitContextFromInputStream(stream InputStream) int64 {
	if stream == nil {
		return 0
	}
	ctx, err := std.lib.NewContextFromStream(streamAdapter{s: stream})
	if err != nil {
		logger.Warnf("init context from stream: %v", err)
	}
	return std.put(ctx, err)
}

// FreeContext releases a handle. Unknown handles and 0 are ignored.
func FreeContext(handle int64) {
	std.take(handle).Free()
}

// FullTranscribe runs a blocking transcription. audioData holds 16 kHz mono
// float32 samples in little-endian byte order; a trailing partial sample is
// ignored. Results are read back with the GetTextSegment functions.
func FullTranscribe(handle int64, numThreads int32, audioData []byte) {
	ctx := std.get(handle)
	if ctx == nil {
		logger.Warnf("transcribe: unknown context handle %d", handle)
		return
	}
	// The error is already logged by the binding.
	_ = ctx.Transcribe(int(numThreads), audio.DecodeFloat32LE(audioData))
}

// GetTextSegmentCount returns the number of segments of the last run.
func GetTextSegmentCount(handle int64) int32 {
	n, err := std.get(handle).SegmentCount()
	if err != nil {
		return 0
	}
	return int32(n)
}

// GetTextSegment returns the text of segment index.
func GetTextSegment(handle int64, index int32) string {
	s, _ := std.get(handle).SegmentText(int(index))
	return s
}

// GetTextSegmentT0 returns the start of segment index in 10 ms units.
func GetTextSegmentT0(handle int64, index int32) int64 {
	t0, _ := std.get(handle).SegmentStart(int(index))
	return t0
}

// GetTextSegmentT1 returns the end of segment index in 10 ms units.
func GetTextSegmentT1(handle int64, index int32) int64 {
	t1, _ := std.get(handle).SegmentEnd(int(index))
	return t1
}

func GetSystemInfo() string { return std.lib.SystemInfo() }

func BenchMemcpy(nThreads int32) string { return std.lib.BenchMemcpy(int(nThreads)) }

func BenchGgmlMulMat(nThreads int32) string { return std.lib.BenchMulMat(int(nThreads)) }

// SetLogLevel adjusts binding verbosity: debug, info, warn or error.
// Unknown levels are ignored.
func SetLogLevel(level string) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		logger.Warnf("set log level: %v", err)
		return
	}
	logger.SetLevel(lvl)
}

// LiveContexts is the number of handles not yet freed.
func LiveContexts() int { return std.live() }
