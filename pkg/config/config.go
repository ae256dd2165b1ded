package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Service settings
	BaseURL                string `yaml:"base_url"`
	TimeoutSeconds         int    `yaml:"timeout_seconds"`
	CombinedTimeoutSeconds int    `yaml:"combined_timeout_seconds"`
	DefaultModel           string `yaml:"default_model"`

	// Strings extraction defaults
	StringsMinLength  int `yaml:"strings_min_length"`
	StringsMaxStrings int `yaml:"strings_max_strings"`

	// Visual analysis defaults
	VisualIncludeBitPlanes  bool `yaml:"visual_include_bit_planes"`
	VisualIncludeOperations bool `yaml:"visual_include_operations"`
	VisualIncludeHistograms bool `yaml:"visual_include_histograms"`

	// LSB extraction defaults
	LSBChannels       string `yaml:"lsb_channels"`
	LSBBitOrder       string `yaml:"lsb_bit_order"`
	LSBBitsPerChannel int    `yaml:"lsb_bits_per_channel"`
	LSBMaxBytes       int64  `yaml:"lsb_max_bytes"`

	// Superimposed defaults
	SuperimposedMode      string   `yaml:"superimposed_mode"`
	SuperimposedChannels  []string `yaml:"superimposed_channels"`
	SuperimposedBitPlanes []int    `yaml:"superimposed_bit_planes"`
	SuperimposedBlendMode string   `yaml:"superimposed_blend_mode"`

	// Watch settings
	WatchDebounceMS int `yaml:"watch_debounce_ms"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		BaseURL:                 "http://localhost:8000",
		TimeoutSeconds:          30,
		CombinedTimeoutSeconds:  60,
		DefaultModel:            "",
		StringsMinLength:        4,
		StringsMaxStrings:       1000,
		VisualIncludeBitPlanes:  true,
		VisualIncludeOperations: true,
		VisualIncludeHistograms: true,
		LSBChannels:             "RGB",
		LSBBitOrder:             "LSB",
		LSBBitsPerChannel:       1,
		LSBMaxBytes:             1 << 20,
		SuperimposedMode:        "both",
		SuperimposedChannels:    []string{"red", "green", "blue"},
		SuperimposedBitPlanes:   []int{0, 1, 2},
		SuperimposedBlendMode:   "average",
		WatchDebounceMS:         500,
		ColorTheme:              "auto",
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for essential values if missing
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.CombinedTimeoutSeconds <= 0 {
		cfg.CombinedTimeoutSeconds = 60
	}
	if cfg.StringsMinLength <= 0 {
		cfg.StringsMinLength = 4
	}
	if cfg.StringsMaxStrings <= 0 {
		cfg.StringsMaxStrings = 1000
	}
	if cfg.LSBChannels == "" {
		cfg.LSBChannels = "RGB"
	}
	if cfg.LSBBitOrder == "" {
		cfg.LSBBitOrder = "LSB"
	}
	if cfg.LSBBitsPerChannel <= 0 {
		cfg.LSBBitsPerChannel = 1
	}
	if cfg.LSBMaxBytes <= 0 {
		cfg.LSBMaxBytes = 1 << 20
	}
	if cfg.SuperimposedMode == "" {
		cfg.SuperimposedMode = "both"
	}
	if len(cfg.SuperimposedChannels) == 0 {
		cfg.SuperimposedChannels = []string{"red", "green", "blue"}
	}
	if len(cfg.SuperimposedBitPlanes) == 0 {
		cfg.SuperimposedBitPlanes = []int{0, 1, 2}
	}
	if cfg.SuperimposedBlendMode == "" {
		cfg.SuperimposedBlendMode = "average"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
