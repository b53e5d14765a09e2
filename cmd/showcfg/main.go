package main

import (
	"fmt"
	"os"

	"whisperlib/internal/config"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}
	fmt.Printf("config=%s\n", cfg.Paths.ConfigPath)
	fmt.Printf("model.path=%q resolved=%q source=%s asset_dir=%q\n", cfg.Model.Path, cfg.ModelPath(), cfg.Model.Source, cfg.Model.AssetDir)
	fmt.Printf("transcribe.threads=%d\n", cfg.Transcribe.Threads)
	fmt.Printf("logging level=%s format=%s stdout=%v log=%s\n", cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Stdout, cfg.Paths.LogPath)
	fmt.Printf("models_dir=%s\n", cfg.Paths.ModelsDir)
}
