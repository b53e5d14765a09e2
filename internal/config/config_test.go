package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnvOverrides(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ConfigPath = "/tmp/config" // avoid creation

	t.Setenv("WHISPERLIB_MODEL_PATH", "/models/ggml-tiny.bin")
	t.Setenv("WHISPERLIB_MODEL_SOURCE", "STREAM")
	t.Setenv("WHISPERLIB_THREADS", "6")
	t.Setenv("WHISPERLIB_LOG_LEVEL", "debug")
	t.Setenv("WHISPERLIB_LOG_FORMAT", "json")
	t.Setenv("WHISPERLIB_LOG_STDOUT", "1")

	applyEnvOverrides(cfg)

	if cfg.Model.Path != "/models/ggml-tiny.bin" || cfg.Model.Source != SourceStream {
		t.Fatalf("model overrides failed: %+v", cfg.Model)
	}
	if cfg.Transcribe.Threads != 6 {
		t.Fatalf("threads override failed: %d", cfg.Transcribe.Threads)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" || !cfg.Logging.Stdout {
		t.Fatalf("logging overrides failed: %+v", cfg.Logging)
	}
}

func TestEnvOverrideIgnoresBadThreads(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	want := cfg.Transcribe.Threads
	t.Setenv("WHISPERLIB_THREADS", "many")
	applyEnvOverrides(cfg)
	if cfg.Transcribe.Threads != want {
		t.Fatalf("threads = %d want %d", cfg.Transcribe.Threads, want)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/config.toml"

	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ConfigPath = path
	cfg.Model.Source = SourceAsset
	cfg.Transcribe.Threads = 3

	if err := Save(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model.Source != SourceAsset || loaded.Transcribe.Threads != 3 {
		t.Fatalf("expected settings to persist: %+v %+v", loaded.Model, loaded.Transcribe)
	}
	if loaded.Paths.ConfigPath != path {
		t.Fatalf("config path = %q", loaded.Paths.ConfigPath)
	}
}

func TestLoadWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("template not written: %v", err)
	}
	for _, section := range []string{"[model]", "[transcribe]", "[logging]", "[paths]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("template missing %s:\n%s", section, data)
		}
	}
	if cfg.Model.Source != SourceFile {
		t.Fatalf("default source = %q", cfg.Model.Source)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[model]\nsource = \"carrier-pigeon\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "model.source") {
		t.Fatalf("expected model.source error, got %v", err)
	}
	if err := os.WriteFile(path, []byte("not = [valid"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestModelPath(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	cfg.Paths.ModelsDir = "/var/models"
	cfg.Model.Path = "ggml-tiny.bin"
	if got := cfg.ModelPath(); got != filepath.Join("/var/models", "ggml-tiny.bin") {
		t.Fatalf("bare name resolved to %q", got)
	}
	t.Setenv("MODEL_ROOT", "/opt")
	cfg.Model.Path = "$MODEL_ROOT/m.bin"
	if got := cfg.ModelPath(); got != "/opt/m.bin" {
		t.Fatalf("expanded to %q", got)
	}
}
