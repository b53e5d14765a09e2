// Package source implements the places model bytes come from: files on
// disk, packaged read-only assets and caller-owned byte streams. Every
// variant satisfies native.Source so the engine can pull bytes through its
// loader callbacks.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrNoAssetManager is returned when an asset is requested without a store.
var ErrNoAssetManager = errors.New("source: no asset manager")

// AssetManager opens packaged read-only assets by path.
type AssetManager interface {
	Open(name string) (Asset, error)
}

// Asset is an asset opened for streaming.
type Asset interface {
	io.Reader
	io.Closer
	// Remaining is the number of bytes not yet read.
	Remaining() int64
}

// AssetSource drives the loader callbacks from an Asset. File-backed models
// use the same implementation.
type AssetSource struct {
	asset     Asset
	name      string
	offset    int64
	closeOnce sync.Once
	closeErr  error
}

// NewAssetSource wraps an already open asset.
func NewAssetSource(name string, a Asset) *AssetSource {
	return &AssetSource{asset: a, name: name}
}

// OpenAsset resolves name in m and wraps it for the loader.
func OpenAsset(m AssetManager, name string) (*AssetSource, error) {
	if m == nil {
		return nil, ErrNoAssetManager
	}
	a, err := m.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open asset %q: %w", name, err)
	}
	return NewAssetSource(name, a), nil
}

// OpenFile opens a model file on disk.
func OpenFile(path string) (*AssetSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}
	return NewAssetSource(path, newSized(f, st.Size())), nil
}

// Name is the path the source was opened from.
func (s *AssetSource) Name() string { return s.name }

// ReadChunk fills dst; it only comes up short at the end of the asset.
func (s *AssetSource) ReadChunk(dst []byte) int {
	n, _ := io.ReadFull(s.asset, dst)
	s.offset += int64(n)
	return n
}

func (s *AssetSource) AtEnd() bool { return s.asset.Remaining() <= 0 }

func (s *AssetSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.asset.Close()
	})
	return s.closeErr
}

// Offset is the number of bytes read so far.
func (s *AssetSource) Offset() int64 { return s.offset }

// sized tracks the unread byte count of a reader with a known size.
type sized struct {
	r    io.ReadCloser
	size int64
	pos  int64
}

func newSized(r io.ReadCloser, size int64) *sized {
	return &sized{r: r, size: size}
}

func (s *sized) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.pos += int64(n)
	return n, err
}

func (s *sized) Close() error { return s.r.Close() }

func (s *sized) Remaining() int64 { return s.size - s.pos }
