// Package config loads the YAML configuration shared by the commands.
package config

import (
	"context"
	"fmt"
	"os"

	"vigenere/internal/ctxlog"
	"vigenere/internal/journal"
	"vigenere/internal/server"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Log     ctxlog.Config  `yaml:"log"`
	Journal journal.Config `yaml:"journal"`
	Server  server.Config  `yaml:"server"`
	// Workers bounds concurrent file decodes. Zero means one per file.
	Workers int `yaml:"workers"`
}

func Load(ctx context.Context, filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("open %q: %w", filename, err)
	}
	defer ctxlog.Close(ctx, "config file", file)

	dec := yaml.NewDecoder(file, yaml.Strict())

	var config Config
	err = dec.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}

	return config, nil
}
