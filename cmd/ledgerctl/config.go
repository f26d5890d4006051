package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type cliConfig struct {
	// OutputDir is prepended to relative --out paths.
	OutputDir string `yaml:"output_dir"`
	// DateLayouts are extra time layouts tried when parsing entry
	// dates, after RFC 3339 and YYYY-MM-DD.
	DateLayouts []string `yaml:"date_layouts"`
}

func loadCLIConfig(path string) (*cliConfig, error) {
	cfg := &cliConfig{}

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loadCLIConfig: %s does not exist", path)
		}
		return nil, fmt.Errorf("loadCLIConfig: %w", err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("loadCLIConfig: %w", err)
	}
	return cfg, nil
}

func (c *cliConfig) resolveOut(path string) string {
	if c.OutputDir == "" || path == "" || os.IsPathSeparator(path[0]) {
		return path
	}
	return c.OutputDir + string(os.PathSeparator) + path
}
