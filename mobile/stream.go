package mobile

import "io"

// streamAdapter presents an InputStream as a source.Stream.
type streamAdapter struct {
	s InputStream
}

func (a streamAdapter) Available() int { return int(a.s.Available()) }

func (a streamAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b := a.s.Read(int32(min(len(p), maxRead)))
	if len(b) == 0 {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

const maxRead = 1<<31 - 1
