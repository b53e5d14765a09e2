package source

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize bounds how much is pulled from a Stream per refill.
const DefaultChunkSize = 64 << 10

// Stream is a caller-owned byte stream. Available reports how many bytes can
// be read right now; a value <= 0 means the stream is exhausted.
//
// Note that bytes.Buffer has an Available method that reports free capacity,
// not readable bytes. Wrap buffers with FromLenReader.
type Stream interface {
	Available() int
	Read(p []byte) (int, error)
}

// StreamSource adapts a Stream to the loader callbacks. Bytes are pulled in
// chunks so a stream living across a language boundary is not crossed once
// per tiny header read.
type StreamSource struct {
	stream   Stream
	logger   logrus.FieldLogger
	chunk    []byte
	buffered []byte
	offset   int64
}

// NewStreamSource wraps stream with the default chunk size.
func NewStreamSource(stream Stream, logger logrus.FieldLogger) *StreamSource {
	return NewStreamSourceSize(stream, logger, DefaultChunkSize)
}

// NewStreamSourceSize wraps stream with an explicit chunk size.
func NewStreamSourceSize(stream Stream, logger logrus.FieldLogger, chunkSize int) *StreamSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &StreamSource{
		stream: stream,
		logger: logger,
		chunk:  make([]byte, chunkSize),
	}
}

// ReadChunk copies at most min(len(dst), available) bytes into dst. Bytes
// left over from an earlier refill are served first; otherwise the stream is
// asked for its available size exactly once. A shortfall is logged and
// reported through the return value, never as an error.
func (s *StreamSource) ReadChunk(dst []byte) int {
	requested := len(dst)
	var n int
	if len(s.buffered) > 0 {
		n = copy(dst, s.buffered)
		s.buffered = s.buffered[n:]
	} else {
		n = s.readAvailable(dst)
	}
	s.offset += int64(n)
	if n != requested {
		s.logger.Infof("insufficient read: req=%d copied=%d offset=%d", requested, n, s.offset)
	}
	return n
}

func (s *StreamSource) readAvailable(dst []byte) int {
	avail := s.stream.Available()
	if avail <= 0 || len(dst) == 0 {
		return 0
	}
	want := min(len(dst), avail)
	if want >= len(s.chunk) {
		return s.pull(dst[:want])
	}
	got := s.pull(s.chunk[:min(avail, len(s.chunk))])
	n := copy(dst[:want], s.chunk[:got])
	s.buffered = s.chunk[n:got]
	return n
}

func (s *StreamSource) pull(p []byte) int {
	got, err := io.ReadFull(s.stream, p)
	if got != len(p) {
		s.logger.Infof("short stream read: to_copy=%d read=%d err=%v", len(p), got, err)
	}
	if got == 0 && err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.logger.Warnf("stream read: %v", err)
	}
	return got
}

// AtEnd is true once nothing is buffered and the stream reports no bytes.
func (s *StreamSource) AtEnd() bool {
	return len(s.buffered) == 0 && s.stream.Available() <= 0
}

// Close drops the buffer. The stream belongs to the caller and stays open.
func (s *StreamSource) Close() error {
	s.buffered = nil
	return nil
}

// Offset is the number of bytes handed to the loader so far.
func (s *StreamSource) Offset() int64 { return s.offset }

type lenReader interface {
	io.Reader
	Len() int
}

type lenStream struct{ r lenReader }

func (l lenStream) Available() int             { return l.r.Len() }
func (l lenStream) Read(p []byte) (int, error) { return l.r.Read(p) }

// FromLenReader adapts bytes.Reader, bytes.Buffer, strings.Reader and the
// like, whose Len reports the unread byte count.
func FromLenReader(r lenReader) Stream { return lenStream{r: r} }

// SizedStream turns a reader of known total size into a Stream.
type SizedStream struct {
	r         io.Reader
	remaining int64
}

// NewSizedStream wraps r, which holds exactly size bytes.
func NewSizedStream(r io.Reader, size int64) *SizedStream {
	return &SizedStream{r: r, remaining: size}
}

func (s *SizedStream) Available() int {
	if s.remaining <= 0 {
		return 0
	}
	if s.remaining > int64(maxInt) {
		return maxInt
	}
	return int(s.remaining)
}

func (s *SizedStream) Read(p []byte) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > s.remaining {
		p = p[:s.remaining]
	}
	n, err := s.r.Read(p)
	s.remaining -= int64(n)
	return n, err
}

const maxInt = int(^uint(0) >> 1)
