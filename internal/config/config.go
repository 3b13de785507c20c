package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/spf13/viper"
)

type Config struct {
	File     string    `yaml:"file" mapstructure:"file"`
	PageSize int       `yaml:"page_size" mapstructure:"page_size"`
	Region   string    `yaml:"region" mapstructure:"region"`
	Theme    string    `yaml:"theme" mapstructure:"theme"`
	Log      LogConfig `yaml:"log" mapstructure:"log"`
}

type LogConfig struct {
	File   string `yaml:"file" mapstructure:"file"`
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		File:     "phonebook.txt",
		PageSize: 5,
		Region:   "RU",
		Theme:    "green",
		Log: LogConfig{
			File:   "user_logs.txt",
			Level:  "info",
			Format: "text",
		},
	}
}

// Dir returns the per-user configuration directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "phonebook")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "phonebook")
}

// Load reads config.yaml from the working directory or the user config
// directory, then applies PHONEBOOK_* environment overrides
// (PHONEBOOK_PAGE_SIZE, PHONEBOOK_LOG_LEVEL, ...). A missing config file
// is not an error.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Search paths
	v.AddConfigPath(".")
	v.AddConfigPath(Dir())

	// Environment variables
	v.SetEnvPrefix("PHONEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only covers keys viper already knows about
	v.SetDefault("file", cfg.File)
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("region", cfg.Region)
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error produced
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	cfg.File = os.ExpandEnv(cfg.File)
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("config: file is required")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("config: page_size must be positive, got %d", c.PageSize)
	}
	c.Region = strings.ToUpper(strings.TrimSpace(c.Region))
	if c.Region != "" && phonenumbers.GetCountryCodeForRegion(c.Region) == 0 {
		return fmt.Errorf("config: unknown region %q", c.Region)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("config: log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		return fmt.Errorf("config: log.format %q must be text or json", c.Log.Format)
	}
	if c.Theme == "" {
		c.Theme = "green"
	}
	return nil
}
