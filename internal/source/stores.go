package source

import (
	"fmt"
	"io"
	"io/fs"

	"github.com/go-git/go-billy/v5"
	"golang.org/x/mobile/asset"
)

// MobileAssets opens assets packaged with a gomobile application. On Android
// this is the APK's AAssetManager; on desktop builds it is the assets/
// directory next to the executable.
type MobileAssets struct{}

func (MobileAssets) Open(name string) (Asset, error) {
	f, err := asset.Open(name)
	if err != nil {
		return nil, err
	}
	size, err := f.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = f.Seek(0, io.SeekStart)
	}
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("size asset %q: %w", name, err)
	}
	return newSized(f, size), nil
}

// FSAssets serves assets from any fs.FS, typically an embed.FS.
type FSAssets struct {
	FS fs.FS
}

func (a FSAssets) Open(name string) (Asset, error) {
	f, err := a.FS.Open(name)
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
		return nil, fmt.Errorf("asset %q is a directory", name)
	}
	return newSized(f, st.Size()), nil
}

// BillyAssets serves assets from a go-billy filesystem (os, memory, chroot).
type BillyAssets struct {
	FS billy.Filesystem
}

func (a BillyAssets) Open(name string) (Asset, error) {
	st, err := a.FS.Stat(name)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, fmt.Errorf("asset %q is a directory", name)
	}
	f, err := a.FS.Open(name)
	if err != nil {
		return nil, err
	}
	return newSized(f, st.Size()), nil
}
