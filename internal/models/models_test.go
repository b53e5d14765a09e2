package models

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
)

func TestRegistry(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatalf("empty registry")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
	if _, err := URL("ggml-nonexistent.bin"); err == nil {
		t.Fatalf("expected unknown model error")
	}
	u, err := URL("ggml-tiny.en.bin")
	if err != nil || !strings.HasSuffix(u, "/ggml-tiny.en.bin") {
		t.Fatalf("url = %q, %v", u, err)
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"ggml-base.en.bin", filepath.Join("/m", "ggml-base.en.bin")},
		{"/abs/model.bin", "/abs/model.bin"},
		{"rel/model.bin", "rel/model.bin"},
	}
	for _, c := range cases {
		if got := Resolve("/m", c.in); got != c.want {
			t.Fatalf("Resolve(%q) = %q want %q", c.in, got, c.want)
		}
	}
}

func TestDownloadAndList(t *testing.T) {
	payload := strings.Repeat("ggml", 2048)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ggml-tiny.bin" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()
	prev := BaseURL
	BaseURL = srv.URL
	t.Cleanup(func() { BaseURL = prev })

	dir := t.TempDir()
	logger, hook := test.NewNullLogger()
	path, err := Download(context.Background(), srv.Client(), dir, "ggml-tiny.bin", logger)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != payload {
		t.Fatalf("downloaded content mismatch: %v", err)
	}
	if _, err := os.Stat(path + ".part"); !os.IsNotExist(err) {
		t.Fatalf("partial file left behind")
	}
	if !strings.Contains(hook.LastEntry().Message, "download complete: 8.0 KiB") {
		t.Fatalf("last log = %q", hook.LastEntry().Message)
	}

	var found bool
	for _, e := range List(dir) {
		if e.Name == "ggml-tiny.bin" {
			found = e.Local && e.Size == int64(len(payload))
			if !strings.Contains(e.String(), "downloaded") {
				t.Fatalf("entry string %q", e.String())
			}
		} else if e.Local {
			t.Fatalf("%s unexpectedly local", e.Name)
		}
	}
	if !found {
		t.Fatalf("downloaded model not listed")
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "m.bin")
	err := Fetch(context.Background(), srv.Client(), srv.URL+"/m.bin", dest, nil)
	if err == nil || !strings.Contains(err.Error(), "410") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("no file expected after failure")
	}
}
