// Package models knows the ggml whisper models published upstream and
// manages local copies of them.
package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// BaseURL is where ggml model files are published.
var BaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// simple registry of known ggml models.
var registry = map[string]bool{
	"ggml-tiny.bin":                true,
	"ggml-tiny.en.bin":             true,
	"ggml-base.bin":                true,
	"ggml-base.en.bin":             true,
	"ggml-small.bin":               true,
	"ggml-small-q5_1.bin":          true,
	"ggml-medium-q5_0.bin":         true,
	"ggml-large-v3-q5_0.bin":       true,
	"ggml-large-v3-turbo-q8_0.bin": true,
	"ggml-large-v3-turbo.bin":      true,
}

// Known reports whether name is in the registry.
func Known(name string) bool { return registry[name] }

// Names lists the registry in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// URL returns the download location of a registry model.
func URL(name string) (string, error) {
	if !Known(name) {
		return "", fmt.Errorf("unknown model %q; run models list", name)
	}
	return strings.TrimSuffix(BaseURL, "/") + "/" + name, nil
}

// Entry describes one registry model and its local state.
type Entry struct {
	Name  string
	Path  string
	Local bool
	Size  int64
}

func (e Entry) String() string {
	if !e.Local {
		return fmt.Sprintf("- %s", e.Name)
	}
	return fmt.Sprintf("- %s (downloaded, %s)", e.Name, humanize.IBytes(uint64(e.Size)))
}

// List reports every registry model and whether dir holds a copy.
func List(dir string) []Entry {
	out := make([]Entry, 0, len(registry))
	for _, n := range Names() {
		e := Entry{Name: n, Path: filepath.Join(dir, n)}
		if st, err := os.Stat(e.Path); err == nil && !st.IsDir() {
			e.Local = true
			e.Size = st.Size()
		}
		out = append(out, e)
	}
	return out
}

// Resolve turns a bare model name into a path under dir. Anything that
// already looks like a path is returned unchanged.
func Resolve(dir, nameOrPath string) string {
	if strings.ContainsAny(nameOrPath, `/\`) {
		return nameOrPath
	}
	return filepath.Join(dir, nameOrPath)
}

// Download fetches a registry model into dir and returns its path. The file
// is written to a .part sibling first and renamed once complete.
func Download(ctx context.Context, client *http.Client, dir, name string, logger logrus.FieldLogger) (string, error) {
	url, err := URL(name)
	if err != nil {
		return "", err
	}
	dest := filepath.Join(dir, name)
	if err := Fetch(ctx, client, url, dest, logger); err != nil {
		return "", err
	}
	return dest, nil
}

// Fetch downloads url to dest.
func Fetch(ctx context.Context, client *http.Client, url, dest string, logger logrus.FieldLogger) error {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	logger.Infof("downloading %s -> %s", url, dest)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		_ = os.Remove(tmp)
		return fmt.Errorf("download truncated: got %d of %d bytes", n, resp.ContentLength)
	}
	if err := os.Rename(tmp, dest); err != nil {
		return err
	}
	logger.Infof("model download complete: %s", humanize.IBytes(uint64(n)))
	return nil
}
