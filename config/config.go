// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// DataDirEnv is exported for the synth's own code, which looks up banks and
// skins there. The GUI only sets it.
const DataDirEnv = "AMSYNTH_DATA_DIR"

// Config holds the GUI process settings.
type Config struct {
	Prefix   string `env:"AMSYNTH_GUI_PREFIX" envDefault:"/usr/local"`
	LogLevel string `env:"AMSYNTH_GUI_LOG_LEVEL" envDefault:"info"`
	Listen   string `env:"AMSYNTH_GUI_LISTEN"`
	Lang     string `env:"AMSYNTH_GUI_LANG"`
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// DataDir returns the installation data directory.
func (c Config) DataDir() string {
	return filepath.Join(c.Prefix, "share", "amSynth")
}

// Level converts LogLevel, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// ExportDataDir sets AMSYNTH_DATA_DIR unless the user already set it.
func (c Config) ExportDataDir() error {
	if _, ok := os.LookupEnv(DataDirEnv); ok {
		return nil
	}
	return os.Setenv(DataDirEnv, c.DataDir())
}
