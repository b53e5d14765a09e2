package source

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func drain(t *testing.T, src interface {
	ReadChunk([]byte) int
	AtEnd() bool
}, chunk int) []byte {
	t.Helper()
	var out []byte
	buf := make([]byte, chunk)
	for i := 0; !src.AtEnd(); i++ {
		if i > 1<<16 {
			t.Fatalf("source never reached end")
		}
		n := src.ReadChunk(buf)
		out = append(out, buf[:n]...)
		if n == 0 {
			break
		}
	}
	return out
}

func TestFSAssets(t *testing.T) {
	model := []byte("lmgg\x00\x01\x02\x03 fake model bytes")
	assets := FSAssets{FS: fstest.MapFS{
		"models/ggml-tiny.bin": &fstest.MapFile{Data: model},
		"models":               &fstest.MapFile{Mode: fs.ModeDir},
	}}

	src, err := OpenAsset(assets, "models/ggml-tiny.bin")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if src.AtEnd() {
		t.Fatalf("fresh asset should not be at end")
	}
	got := drain(t, src, 5)
	if !bytes.Equal(got, model) {
		t.Fatalf("got %q want %q", got, model)
	}
	if src.Offset() != int64(len(model)) {
		t.Fatalf("offset = %d", src.Offset())
	}
	if err := src.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	if _, err := OpenAsset(assets, "models/missing.bin"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := OpenAsset(assets, "models"); err == nil {
		t.Fatalf("expected error opening a directory")
	}
}

func TestBillyAssets(t *testing.T) {
	mem := memfs.New()
	if err := util.WriteFile(mem, "assets/ggml-base.en.bin", []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := OpenAsset(BillyAssets{FS: mem}, "assets/ggml-base.en.bin")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	buf := make([]byte, 4)
	if n := src.ReadChunk(buf); n != 4 || string(buf) != "0123" {
		t.Fatalf("first chunk %q (%d)", buf[:n], n)
	}
	rest := drain(t, src, 4)
	if string(rest) != "456789" {
		t.Fatalf("rest %q", rest)
	}
	if !src.AtEnd() {
		t.Fatalf("expected end")
	}

	if _, err := OpenAsset(BillyAssets{FS: mem}, "assets/nope.bin"); err == nil {
		t.Fatalf("expected error for missing asset")
	}
}

func TestOpenAssetWithoutManager(t *testing.T) {
	if _, err := OpenAsset(nil, "x"); !errors.Is(err, ErrNoAssetManager) {
		t.Fatalf("expected ErrNoAssetManager, got %v", err)
	}
}

func TestMobileAssetsMissing(t *testing.T) {
	if _, err := (MobileAssets{}).Open("definitely/not/packaged.bin"); err == nil {
		t.Fatalf("expected error for missing packaged asset")
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.bin")
	payload := bytes.Repeat([]byte("ggml"), 1000)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if src.Name() != path {
		t.Fatalf("name = %q", src.Name())
	}
	got := drain(t, src, 333)
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %d bytes", len(got))
	}
	if err := src.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := OpenFile(filepath.Join(dir, "missing.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist, got %v", err)
	}
	if _, err := OpenFile(dir); err == nil {
		t.Fatalf("expected error for directory")
	}
}

func TestAssetSourceShortReadAtEnd(t *testing.T) {
	src := NewAssetSource("mem", newSized(io.NopCloser(bytes.NewReader([]byte("abc"))), 3))
	buf := make([]byte, 8)
	if n := src.ReadChunk(buf); n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if !src.AtEnd() {
		t.Fatalf("expected end")
	}
}
