package whisper

import (
	"fmt"

	"whisperlib/internal/native"
)

// Segment is one transcribed span. Start and End are in 10 ms units.
type Segment struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int64  `json:"t0"`
	End   int64  `json:"t1"`
}

// Context owns one native whisper_context. It is not safe for concurrent
// use; callers that share a Context must serialize access themselves.
type Context struct {
	lib  *Lib
	ptr  native.Context
	name string
}

// Name describes where the model was loaded from.
func (c *Context) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Free releases the native context. It is a no-op on nil and after the
// first call.
func (c *Context) Free() {
	if c == nil || c.ptr.IsNull() {
		return
	}
	c.lib.engine.Free(c.ptr)
	c.ptr = 0
}

// Freed reports whether Free has been called.
func (c *Context) Freed() bool { return c == nil || c.ptr.IsNull() }

func (c *Context) handle() (native.Context, error) {
	if c.Freed() {
		return 0, ErrContextFreed
	}
	return c.ptr, nil
}

// Transcribe runs a full transcription of 16 kHz mono samples with the
// default parameters and the given thread count.
func (c *Context) Transcribe(threads int, samples []float32) error {
	return c.TranscribeWithParams(native.DefaultFullParams(threads), samples)
}

// TranscribeWithParams runs whisper_full synchronously. Results replace any
// segments of a previous run.
func (c *Context) TranscribeWithParams(params native.FullParams, samples []float32) error {
	ptr, err := c.handle()
	if err != nil {
		return err
	}
	eng, log := c.lib.engine, c.lib.logger

	eng.ResetTimings(ptr)
	audioMS := float64(len(samples)) / native.SamplesPerMillisecond
	log.Infof("starting transcription: %.1f ms audio, %d threads", audioMS, params.Threads)

	start := c.lib.now()
	code := eng.Full(ptr, params, samples)
	if code != 0 {
		log.Info("failed to run the model")
		return &FullError{Code: code}
	}
	elapsed := c.lib.now().Sub(start)
	elapsedMS := float64(elapsed.Microseconds()) / 1000
	var rtf float64
	if audioMS > 0 {
		rtf = elapsedMS / audioMS
	}
	log.Infof("transcription complete: %.1f ms (RTF: %.3f)", elapsedMS, rtf)
	eng.PrintTimings(ptr)
	return nil
}

// SegmentCount is the number of segments produced by the last run.
func (c *Context) SegmentCount() (int, error) {
	ptr, err := c.handle()
	if err != nil {
		return 0, err
	}
	return c.lib.engine.NSegments(ptr), nil
}

func (c *Context) segment(i int) (native.Context, error) {
	n, err := c.SegmentCount()
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrSegmentOutOfRange, i, n)
	}
	return c.ptr, nil
}

// SegmentText returns a copy of segment i's text.
func (c *Context) SegmentText(i int) (string, error) {
	ptr, err := c.segment(i)
	if err != nil {
		return "", err
	}
	return c.lib.engine.SegmentText(ptr, i), nil
}

// SegmentStart returns segment i's start time in 10 ms units.
func (c *Context) SegmentStart(i int) (int64, error) {
	ptr, err := c.segment(i)
	if err != nil {
		return 0, err
	}
	return c.lib.engine.SegmentT0(ptr, i), nil
}

// SegmentEnd returns segment i's end time in 10 ms units.
func (c *Context) SegmentEnd(i int) (int64, error) {
	ptr, err := c.segment(i)
	if err != nil {
		return 0, err
	}
	return c.lib.engine.SegmentT1(ptr, i), nil
}

// Segments copies every segment of the last run.
func (c *Context) Segments() ([]Segment, error) {
	n, err := c.SegmentCount()
	if err != nil {
		return nil, err
	}
	eng := c.lib.engine
	out := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Segment{
			Index: i,
			Text:  eng.SegmentText(c.ptr, i),
			Start: eng.SegmentT0(c.ptr, i),
			End:   eng.SegmentT1(c.ptr, i),
		})
	}
	return out, nil
}

// Text joins the text of every segment of the last run.
func (c *Context) Text() (string, error) {
	segs, err := c.Segments()
	if err != nil {
		return "", err
	}
	var n int
	for _, s := range segs {
		n += len(s.Text)
	}
	b := make([]byte, 0, n)
	for _, s := range segs {
		b = append(b, s.Text...)
	}
	return string(b), nil
}
