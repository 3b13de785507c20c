package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// YAML renders the configuration as it would appear in config.yaml.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Path returns where Save writes config.yaml.
func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Save writes the configuration to Path, creating the directory.
func Save(c *Config) (string, error) {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, data, 0644)
}
