package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xxxsen/common/logger"
)

type Config struct {
	Port        int              `json:"port"`
	Env         string           `json:"env"`
	LogConfig   logger.LogConfig `json:"log_config"`
	CORSOrigins []string         `json:"cors_origins"`
	Gemini      GeminiConfig     `json:"gemini"`
	Upload      UploadConfig     `json:"upload"`
}

type GeminiConfig struct {
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	StoreName string `json:"store_name"`
}

type UploadConfig struct {
	MaxSizeMB       int64           `json:"max_size_mb"`
	TempMaxAgeHours int             `json:"temp_max_age_hours"`
	FileStore       FileStoreConfig `json:"file_store"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Load reads the JSON config file when path is non-empty, then applies
// environment overrides and defaults. The service also runs without a config
// file at all, configured purely from the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("FILE_SEARCH_STORE_NAME"); v != "" {
		c.Gemini.StoreName = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		c.CORSOrigins = origins
	}
	if v := os.Getenv("ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Port = port
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	if c.Upload.MaxSizeMB == 0 {
		c.Upload.MaxSizeMB = 100
	}
	if c.Upload.TempMaxAgeHours == 0 {
		c.Upload.TempMaxAgeHours = 24
	}
	if c.Upload.FileStore.Type == "" {
		c.Upload.FileStore = FileStoreConfig{
			Type: "local",
			Data: map[string]interface{}{"dir": "./uploads"},
		}
	}
}

// DevMode reports whether CORS should be widened for local development.
func (c *Config) DevMode() bool {
	return strings.EqualFold(c.Env, "development")
}

// GeminiConfigured reports whether the external dependency credential is
// present. When false the service starts degraded: health still answers,
// query/upload fail fast with 503.
func (c *Config) GeminiConfigured() bool {
	return strings.TrimSpace(c.Gemini.APIKey) != ""
}
