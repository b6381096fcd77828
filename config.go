package main

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const minMaxInputChars = 500

// ConfigOverrides allows overriding embedded defaults with file paths
type ConfigOverrides struct {
	PromptPath   *string
	SettingsPath *string
}

// Embedded configuration files
//
//go:embed .hiringlens/extract-system-prompt.md
var defaultExtractPrompt string

//go:embed .hiringlens/settings.yaml
var defaultSettings string

// Settings represents the YAML configuration structure
type Settings struct {
	OutputPath   string `yaml:"output_path"`
	RawDirectory string `yaml:"raw_directory"`
	Analyzer     struct {
		Model            string  `yaml:"model"`
		MaxTokens        int     `yaml:"max_tokens"`
		Temperature      float64 `yaml:"temperature"`
		MaxInputChars    int     `yaml:"max_input_chars"`
		PerCallTokens    int     `yaml:"per_call_tokens"`
		PaceSeconds      int     `yaml:"pace_seconds"`
		CheckpointEvery  int     `yaml:"checkpoint_every"`
		DailyTokenBudget int     `yaml:"daily_token_budget"`
	} `yaml:"analyzer"`
	Filter struct {
		MinLength int      `yaml:"min_length"`
		Keywords  []string `yaml:"keywords"`
	} `yaml:"filter"`
	Normalizer struct {
		TechBlacklist []string `yaml:"tech_blacklist"`
		RemoteMarkers []string `yaml:"remote_markers"`
	} `yaml:"normalizer"`
}

// Config holds settings and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a new Config with settings and overrides
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	var settings *Settings
	var err error

	if overrides != nil && overrides.SettingsPath != nil {
		// Explicit settings file must exist
		settings, err = loadSettingsFile(*overrides.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings from %s: %w", *overrides.SettingsPath, err)
		}
	} else {
		settings, err = loadSettings()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	validateSettings(settings)

	return &Config{
		Settings:  settings,
		Overrides: overrides,
	}, nil
}

// GetExtractPrompt returns the extraction system prompt (from override file or embedded)
func (c *Config) GetExtractPrompt() string {
	if c.Overrides != nil && c.Overrides.PromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.PromptPath); err == nil {
			return string(content)
		}
	}
	return defaultExtractPrompt
}

// loadSettings loads settings from the default location, falling back to the
// embedded defaults when the file doesn't exist
func loadSettings() (*Settings, error) {
	settingsPath := getConfigPath("settings.yaml")

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			data = []byte(defaultSettings)
		} else {
			return nil, fmt.Errorf("reading settings file %s: %w", settingsPath, err)
		}
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	return &settings, nil
}

// loadSettingsFile loads settings from an explicit path, failing if it doesn't exist
func loadSettingsFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	return &settings, nil
}

// validateSettings clamps implausible values and fills gaps from the embedded
// defaults so a hand-edited settings file can't silently break the pipeline.
func validateSettings(s *Settings) {
	defaults := embeddedDefaults()

	if s.OutputPath == "" {
		s.OutputPath = defaults.OutputPath
	}
	if s.RawDirectory == "" {
		s.RawDirectory = defaults.RawDirectory
	}
	if s.Analyzer.Model == "" {
		s.Analyzer.Model = defaults.Analyzer.Model
	}
	if s.Analyzer.MaxTokens <= 0 {
		s.Analyzer.MaxTokens = defaults.Analyzer.MaxTokens
	}
	if s.Analyzer.MaxInputChars < minMaxInputChars {
		log.Printf("Warning: analyzer.max_input_chars is %d, defaulting to %d (minimum)", s.Analyzer.MaxInputChars, minMaxInputChars)
		s.Analyzer.MaxInputChars = minMaxInputChars
	}
	if s.Analyzer.PerCallTokens <= 0 {
		s.Analyzer.PerCallTokens = defaults.Analyzer.PerCallTokens
	}
	if s.Analyzer.CheckpointEvery < 1 {
		log.Printf("Warning: analyzer.checkpoint_every is %d, defaulting to %d", s.Analyzer.CheckpointEvery, defaults.Analyzer.CheckpointEvery)
		s.Analyzer.CheckpointEvery = defaults.Analyzer.CheckpointEvery
	}
	if s.Analyzer.DailyTokenBudget <= 0 {
		s.Analyzer.DailyTokenBudget = defaults.Analyzer.DailyTokenBudget
	}
	if s.Filter.MinLength <= 0 {
		s.Filter.MinLength = defaults.Filter.MinLength
	}
	if len(s.Filter.Keywords) == 0 {
		s.Filter.Keywords = defaults.Filter.Keywords
	}
	if len(s.Normalizer.TechBlacklist) == 0 {
		s.Normalizer.TechBlacklist = defaults.Normalizer.TechBlacklist
	}
	if len(s.Normalizer.RemoteMarkers) == 0 {
		s.Normalizer.RemoteMarkers = defaults.Normalizer.RemoteMarkers
	}
}

// embeddedDefaults parses the embedded settings file. The embedded copy is part
// of the build, so a parse failure here is a programming error.
func embeddedDefaults() *Settings {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		panic(fmt.Sprintf("embedded settings.yaml is invalid: %v", err))
	}
	return &settings
}

// getConfigPath returns the path to a config file in the .hiringlens directory
func getConfigPath(filename string) string {
	return filepath.Join(".hiringlens", filename)
}

// ensureConfigExists creates the config directory and default files if they don't exist
func ensureConfigExists() error {
	configDir := ".hiringlens"

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	settingsPath := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		if err := os.WriteFile(settingsPath, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing default settings: %w", err)
		}
	}

	return nil
}
