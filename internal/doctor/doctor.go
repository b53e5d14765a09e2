package doctor

import (
	"fmt"
	"os"
	"strings"

	"whisperlib/internal/config"
	"whisperlib/internal/native"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
)

// Result represents a diagnostic check.
type Result struct {
	Name   string
	Pass   bool
	Detail string
}

// Backend is the part of the binding the checks query.
type Backend interface {
	SystemInfo() string
	Devices() []native.Device
}

// Run executes doctor checks.
func Run(cfg *config.Config, backend Backend, available bool) []Result {
	results := []Result{
		checkFile("config path", cfg.Paths.ConfigPath),
		checkModel(cfg),
		checkDir("models dir", cfg.Paths.ModelsDir),
		checkNative(available),
	}
	if available {
		results = append(results, checkDevices(backend), checkSystemInfo(backend))
	}
	return results
}

// Err folds failed results into one error, or nil when everything passed.
func Err(results []Result) error {
	var merr *multierror.Error
	for _, r := range results {
		if !r.Pass {
			merr = multierror.Append(merr, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	return merr.ErrorOrNil()
}

func checkFile(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	if _, err := os.Stat(os.ExpandEnv(path)); err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkModel(cfg *config.Config) Result {
	label := "model file"
	if cfg.Model.Source != config.SourceFile && cfg.Model.Source != config.SourceStream {
		return Result{Name: label, Pass: true, Detail: "loaded from " + cfg.Model.Source}
	}
	path := cfg.ModelPath()
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	st, err := os.Stat(path)
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error() + " (run: whisperlib setup)"}
	}
	if st.IsDir() {
		return Result{Name: label, Pass: false, Detail: "is a directory; set model.path to a ggml file"}
	}
	if st.Size() == 0 {
		return Result{Name: label, Pass: false, Detail: "empty file"}
	}
	return Result{Name: label, Pass: true, Detail: fmt.Sprintf("%s (%s)", path, humanize.IBytes(uint64(st.Size())))}
}

func checkDir(label, path string) Result {
	if path == "" {
		return Result{Name: label, Pass: false, Detail: "not set"}
	}
	st, err := os.Stat(os.ExpandEnv(path))
	if err != nil {
		return Result{Name: label, Pass: false, Detail: err.Error()}
	}
	if !st.IsDir() {
		return Result{Name: label, Pass: false, Detail: "not a directory"}
	}
	return Result{Name: label, Pass: true, Detail: path}
}

func checkNative(available bool) Result {
	if !available {
		return Result{Name: "whisper.cpp", Pass: false, Detail: native.ErrUnavailable.Error()}
	}
	return Result{Name: "whisper.cpp", Pass: true, Detail: "linked"}
}

func checkDevices(b Backend) Result {
	devs := b.Devices()
	if len(devs) == 0 {
		return Result{Name: "devices", Pass: false, Detail: "no ggml backend devices registered"}
	}
	names := make([]string, 0, len(devs))
	for _, d := range devs {
		names = append(names, d.Name+"/"+d.Kind.String())
	}
	return Result{Name: "devices", Pass: true, Detail: strings.Join(names, ", ")}
}

func checkSystemInfo(b Backend) Result {
	info := strings.TrimSpace(b.SystemInfo())
	if info == "" {
		return Result{Name: "system info", Pass: false, Detail: "empty"}
	}
	return Result{Name: "system info", Pass: true, Detail: info}
}
