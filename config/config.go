// Package config holds the settings every command is constructed with.
// Values come from, in increasing priority: defaults, a YAML file,
// environment variables (a .env file is loaded first if present), and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jing2uo/klinedata/proxy"
	"github.com/jing2uo/klinedata/source"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// DataDir holds the {SH|SZ}xxxxxx.txt.gz / .txt.json files.
	DataDir string `yaml:"dataDir"`

	// Port is the HTTP listen port.
	Port string `yaml:"port"`

	// SourceMode is one of gz, json, auto, remote.
	SourceMode string `yaml:"sourceMode"`

	// AssetBaseURL is where remote mode fetches .txt.json assets from.
	AssetBaseURL string `yaml:"assetBaseURL"`

	TushareURL string `yaml:"tushareURL"`
	// TushareRPS throttles proxied calls; 0 disables throttling.
	TushareRPS float64 `yaml:"tushareRPS"`

	RequestTimeout time.Duration `yaml:"requestTimeout"`

	LogLevel string `yaml:"logLevel"`
	GinMode  string `yaml:"ginMode"`
}

func Default() *Config {
	return &Config{
		DataDir:        "data",
		Port:           "3001",
		SourceMode:     string(source.ModeGzip),
		TushareURL:     proxy.DefaultTushareURL,
		TushareRPS:     0,
		RequestTimeout: 30 * time.Second,
		LogLevel:       "info",
		GinMode:        "release",
	}
}

// Load builds a Config from defaults, an optional YAML file and the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DataDir = getEnv("DATA_DIR", c.DataDir)
	c.Port = getEnv("PORT", c.Port)
	c.SourceMode = getEnv("SOURCE_MODE", c.SourceMode)
	c.AssetBaseURL = getEnv("ASSET_BASE_URL", c.AssetBaseURL)
	c.TushareURL = getEnv("TUSHARE_URL", c.TushareURL)
	c.TushareRPS = getEnvFloat("TUSHARE_RPS", c.TushareRPS)
	c.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
}

func (c *Config) Validate() error {
	if c.DataDir == "" && c.SourceMode != string(source.ModeRemote) {
		return errors.New("data dir cannot be empty")
	}
	if c.Port == "" {
		return errors.New("port cannot be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: %w", c.Port, err)
	}
	mode, err := source.ParseMode(c.SourceMode)
	if err != nil {
		return err
	}
	if mode == source.ModeRemote && c.AssetBaseURL == "" {
		return errors.New("remote source mode requires ASSET_BASE_URL")
	}
	switch c.GinMode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("invalid gin mode %q", c.GinMode)
	}
	if c.TushareRPS < 0 {
		return fmt.Errorf("tushare rps cannot be negative: %v", c.TushareRPS)
	}
	return nil
}

func (c *Config) SourceOptions() source.Options {
	return source.Options{
		Mode:    source.Mode(c.SourceMode),
		Dir:     c.DataDir,
		BaseURL: c.AssetBaseURL,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
