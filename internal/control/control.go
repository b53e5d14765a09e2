package control

import (
	"whisperlib/internal/config"
	"whisperlib/internal/logging"
	"whisperlib/internal/native"
	"whisperlib/internal/whisper"
)

// Transcript is the --json output of transcribe.
type Transcript struct {
	Model     string            `json:"model"`
	Source    string            `json:"source"`
	AudioMS   float64           `json:"audio_ms"`
	Threads   int               `json:"threads"`
	Text      string            `json:"text"`
	Segments  []whisper.Segment `json:"segments"`
	ElapsedMS int64             `json:"elapsed_ms"`
}

// session bundles what every engine-backed command needs.
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	lib    *whisper.Lib
}

// newLib is swapped in tests to run commands against a fake engine.
var newLib = func(logger *logging.Logger) *whisper.Lib {
	return whisper.New(whisper.WithLogger(logger))
}

// nativeAvailable is swapped in tests alongside newLib.
var nativeAvailable = native.Available

func openSession(cfgPath string) (*session, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.Configure(cfg)
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, lib: newLib(logger)}, nil
}
