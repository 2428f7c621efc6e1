package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "FLASHNOTES"

// Default values applied before any source is read.
const (
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultDatabaseURL    = "sqlite:///flashcards.db"
	DefaultHuggingFaceURL = "https://api-inference.huggingface.co/models/facebook/bart-large-cnn"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultCacheTTL       = 24 * 60
)

// legacyEnv maps config keys to variable names used before the FLASHNOTES_
// prefix existed. The prefixed name always wins.
var legacyEnv = map[string]string{
	"server.port":                    "PORT",
	"database.url":                   "DATABASE_URL",
	"summarizer.huggingface_api_key": "HUGGINGFACE_API_KEY",
	"summarizer.gemini_api_key":      "GEMINI_API_KEY",
}

// Load configuration from a .env file, environment variables and no config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load and additionally reads the config file at path
// when path is not empty.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", legacy, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can resolve it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.log_level", DefaultLogLevel)

	v.SetDefault("database.url", DefaultDatabaseURL)

	v.SetDefault("summarizer.provider", ProviderHuggingFace)
	v.SetDefault("summarizer.huggingface_api_key", "")
	v.SetDefault("summarizer.huggingface_url", DefaultHuggingFaceURL)
	v.SetDefault("summarizer.gemini_api_key", "")
	v.SetDefault("summarizer.gemini_model", DefaultGeminiModel)
	v.SetDefault("summarizer.rate_per_second", 0)
	v.SetDefault("summarizer.rate_burst", 1)

	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl_minutes", DefaultCacheTTL)
}
