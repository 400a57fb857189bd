// Package config loads the YAML configuration shared by the service and
// the key ring tool.
package config

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"curve/internal/ctxlog"
	"curve/internal/db"
	"curve/internal/server"
)

// Default is the file used when none is given on the command line.
const Default = "config.yaml"

type Config struct {
	Server server.Config `yaml:"server"`
	DB     db.Config     `yaml:"db"`
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
