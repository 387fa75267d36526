package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config holds the optional defaults loaded from a YAML file. Flags
// always win over the file.
type config struct {
	// Method is the default storage method name or code.
	Method string `yaml:"method"`
	// OutputDir is where extracted payloads are written.
	OutputDir string `yaml:"output_dir"`
	// TextFilename overrides the filename recorded for text payloads.
	TextFilename string `yaml:"text_filename"`
	// ArmorSeed enables the shuffled payload armor when non-zero.
	ArmorSeed int64 `yaml:"armor_seed"`
}

func defaultConfig() config {
	return config{
		Method:    "all",
		OutputDir: ".",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Method == "" {
		cfg.Method = "all"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}
