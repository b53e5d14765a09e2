package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultModel         = "ggml-base.en.bin"
	defaultStateDirLinux = ".local/state/whisperlib"
	defaultConfigDir     = ".config/whisperlib"
)

// Model sources accepted by model.source.
const (
	SourceFile   = "file"
	SourceAsset  = "asset"
	SourceStream = "stream"
)

// Config holds user configuration loaded from TOML.
type Config struct {
	Model struct {
		Path     string `toml:"path"`
		Source   string `toml:"source"`    // file, asset, stream
		AssetDir string `toml:"asset_dir"` // root for source = "asset"
	} `toml:"model"`

	Transcribe struct {
		Threads int `toml:"threads"`
	} `toml:"transcribe"`

	Logging struct {
		Level  string `toml:"level"`  // debug, info, warn, error
		Format string `toml:"format"` // text, json
		Stdout bool   `toml:"stdout"`
	} `toml:"logging"`

	Paths struct {
		StateDir   string `toml:"state_dir"`
		LogPath    string `toml:"log_path"`
		ModelsDir  string `toml:"models_dir"`
		ConfigPath string `toml:"-"`
	} `toml:"paths"`
}

// Default returns Config populated with defaults.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	stateDir := filepath.Join(home, defaultStateDirLinux)
	// macOS prefers ~/Library/Application Support/whisperlib for state/logs
	if isMac() {
		stateDir = filepath.Join(home, "Library", "Application Support", "whisperlib")
	}

	cfg := &Config{}

	cfg.Paths.StateDir = stateDir
	cfg.Paths.LogPath = filepath.Join(stateDir, "whisperlib.log")
	cfg.Paths.ModelsDir = filepath.Join(stateDir, "models")

	cfg.Model.Path = filepath.Join(cfg.Paths.ModelsDir, DefaultModel)
	cfg.Model.Source = SourceFile
	cfg.Model.AssetDir = cfg.Paths.ModelsDir

	cfg.Transcribe.Threads = defaultThreads()

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Logging.Stdout = false

	return cfg, nil
}

func defaultThreads() int {
	return max(1, min(4, runtime.NumCPU()))
}

// Load loads config from file, applying defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, defaultConfigDir, "config.toml")
	}

	// Read if exists; otherwise write template.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := Save(cfg, path); err != nil {
				return nil, err
			}
			cfg.Paths.ConfigPath = path
			applyEnvOverrides(cfg)
			return cfg, Validate(cfg)
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Paths.ConfigPath = path
	applyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o600)
}

// Validate rejects settings no command can act on.
func Validate(cfg *Config) error {
	switch cfg.Model.Source {
	case SourceFile, SourceAsset, SourceStream:
	default:
		return fmt.Errorf("model.source must be file, asset or stream (got %q)", cfg.Model.Source)
	}
	if cfg.Transcribe.Threads < 1 {
		return fmt.Errorf("transcribe.threads must be >= 1 (got %d)", cfg.Transcribe.Threads)
	}
	return nil
}

func isMac() bool {
	return runtime.GOOS == "darwin"
}

// MustStatePaths ensures state dirs exist.
func MustStatePaths(cfg *Config) error {
	for _, p := range []string{cfg.Paths.StateDir, filepath.Dir(cfg.Paths.LogPath), cfg.Paths.ModelsDir} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// ModelPath expands environment variables in model.path and resolves bare
// file names against paths.models_dir.
func (c *Config) ModelPath() string {
	p := os.ExpandEnv(c.Model.Path)
	if p != "" && !strings.ContainsRune(p, filepath.Separator) && !strings.Contains(p, "/") {
		p = filepath.Join(os.ExpandEnv(c.Paths.ModelsDir), p)
	}
	return p
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WHISPERLIB_MODEL_PATH"); v != "" {
		cfg.Model.Path = v
	}
	if v := os.Getenv("WHISPERLIB_MODEL_SOURCE"); v != "" {
		cfg.Model.Source = strings.ToLower(v)
	}
	if v := os.Getenv("WHISPERLIB_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Transcribe.Threads = n
		}
	}
	if v := os.Getenv("WHISPERLIB_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WHISPERLIB_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("WHISPERLIB_LOG_STDOUT"); v != "" {
		cfg.Logging.Stdout = v != "0" && strings.ToLower(v) != "false"
	}
}
