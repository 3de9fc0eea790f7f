package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir  string   `json:"data_dir"`
	LogLevel string   `json:"log_level"`
	Triggers []string `json:"triggers"`
	Poll     struct {
		IntervalSeconds int `json:"interval_seconds"`
		CooldownSeconds int `json:"cooldown_seconds"`
		Window          int `json:"window"`
	} `json:"poll"`
	Reply struct {
		Text        string  `json:"text"`
		MaxAttempts int     `json:"max_attempts"`
		BackoffBase float64 `json:"backoff_base"`
	} `json:"reply"`
	Frames struct {
		Max                 int     `json:"max"`
		SceneThreshold      float64 `json:"scene_threshold"`
		FetchTimeoutSeconds int     `json:"fetch_timeout_seconds"`
		ToolTimeoutSeconds  int     `json:"tool_timeout_seconds"`
		RetentionHours      int     `json:"retention_hours"`
	} `json:"frames"`
	Face struct {
		CascadePath       string `json:"cascade_path"`
		UnavailablePolicy string `json:"unavailable_policy"`
	} `json:"face"`
	Maintenance struct {
		Schedule string `json:"schedule"`
	} `json:"maintenance"`
	Telegram struct {
		Token string `json:"token"`
	} `json:"telegram"`
	HTTP struct {
		Enabled bool   `json:"enabled"`
		Listen  string `json:"listen"`
	} `json:"http"`
}

// Load reads the config file at path, writing defaults on first run.
// A .env file in the working directory is loaded first, then env vars
// override the file (highest precedence).
func Load(path string) (*Config, error) {
	// Missing .env is fine.
	_ = godotenv.Load()

	cfg := defaults()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	if tgToken := os.Getenv("TELEGRAM_BOT_TOKEN"); tgToken != "" {
		cfg.Telegram.Token = tgToken
	}
	if dataDir := os.Getenv("CLIPWATCH_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if cascade := os.Getenv("CLIPWATCH_FACE_CASCADE"); cascade != "" {
		cfg.Face.CascadePath = cascade
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".clipwatch"),
		LogLevel: "info",
		Triggers: []string{"whereclipped", "cliplive"},
	}
	cfg.Poll.IntervalSeconds = 15
	cfg.Poll.CooldownSeconds = 30
	cfg.Poll.Window = 10
	cfg.Reply.Text = "Thanks @%s, I'll look into that!"
	cfg.Reply.MaxAttempts = 3
	cfg.Reply.BackoffBase = 2
	cfg.Frames.Max = 5
	cfg.Frames.SceneThreshold = 0.4
	cfg.Frames.FetchTimeoutSeconds = 60
	cfg.Frames.ToolTimeoutSeconds = 120
	cfg.Frames.RetentionHours = 72
	cfg.Face.UnavailablePolicy = "zero"
	cfg.Maintenance.Schedule = "@hourly"
	cfg.HTTP.Listen = "127.0.0.1:8689"
	return cfg
}

// Save writes the config as indented JSON using atomic write (temp + rename).
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ToMap converts the config to a nested map via a JSON round-trip.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListValues returns the config as a flat dot-keyed map, optionally masking
// secret values.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue reads a single dot-keyed value from the config file at path.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	flat, err := ListValues(cfg, false)
	if err != nil {
		return nil, err
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue writes a single dot-keyed value to the config file at path. The
// raw string is JSON-decoded when possible so numbers and booleans keep
// their types; otherwise it is stored as a string.
func SetValue(path, key, raw string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	m, err := ToMap(cfg)
	if err != nil {
		return err
	}

	flat := Flatten(m)
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	flat[key] = value

	nested := Unflatten(flat)
	data, err := json.Marshal(nested)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	updated := &Config{}
	if err := json.Unmarshal(data, updated); err != nil {
		return fmt.Errorf("apply config value: %w", err)
	}
	return Save(path, updated)
}
