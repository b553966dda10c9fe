package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	LogLevel string        `json:"log_level"`
	Audio    AudioConfig   `json:"audio"`
	Whisper  WhisperConfig `json:"whisper"`
	Scratch  ScratchConfig `json:"scratch"`
	Output   OutputConfig  `json:"output"`
}

type AudioConfig struct {
	Backend string `json:"backend"` // "miniaudio" or "portaudio"
}

type WhisperConfig struct {
	Model     string `json:"model"`      // "small.en", "base.en", etc.
	ModelPath string `json:"model_path"` // overrides Model when set
	Language  string `json:"language"`   // "auto", "en", etc.
	Threads   int    `json:"threads"`
}

type ScratchConfig struct {
	Path string `json:"path"`
	WAV  bool   `json:"wav"` // also write a .wav next to the raw capture
}

type OutputConfig struct {
	Clipboard bool `json:"clipboard"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			Backend: "miniaudio",
		},
		Whisper: WhisperConfig{
			Model:    "small.en",
			Language: "en",
			Threads:  0, // Auto-detect
		},
		Scratch: ScratchConfig{
			Path: "out.raw",
		},
	}
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(Path()); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ModelFile returns the model file to load: ModelPath if set, otherwise the
// named model inside ModelsPath.
func (w WhisperConfig) ModelFile() string {
	if w.ModelPath != "" {
		return w.ModelPath
	}
	return filepath.Join(ModelsPath(), "ggml-"+w.Model+".bin")
}

// Path returns the platform-specific config file path
func Path() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "whisper", "config.json")
}

// ModelsPath returns the platform-specific models directory path
func ModelsPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/share"
		}
	}

	return filepath.Join(base, "whisper", "models")
}
