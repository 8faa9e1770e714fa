package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "BLOGRELAY"

// DefaultHuggingFaceEndpoint is the inference endpoint used when none is configured.
const DefaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models/meta-llama/Llama-3.2-1B"

// legacyEnv maps config keys to environment variables used by earlier deployments.
// The prefixed variable always wins over the legacy one.
var legacyEnv = map[string]string{
	"storage.bucket":      "S3_BUCKET_NAME",
	"generation.api_key":  "HF_API_TOKEN",
	"generation.endpoint": "HF_API_URL",
}

// Load reads configuration from the environment and, if present, a config.yaml
// in the working directory. Environment variables take precedence over values
// from the file. Returns a populated Config or an error if loading or
// validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory and ./config for config.yaml, which may be absent.
func LoadFile(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyProviderDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("generation.provider", ProviderHuggingFace)
	v.SetDefault("generation.endpoint", "")
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.model", "")

	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.endpoint", "s3.amazonaws.com")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.access_key", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.public_domain", "s3.amazonaws.com")

	v.SetDefault("database.url", "")
}

// applyProviderDefaults fills provider-specific settings the user left empty.
func applyProviderDefaults(cfg *Config) {
	if cfg.Generation.Provider == ProviderHuggingFace && cfg.Generation.Endpoint == "" {
		cfg.Generation.Endpoint = DefaultHuggingFaceEndpoint
	}
}

// loadEnvFiles loads .env.local and then .env from the working directory.
// Missing files are ignored; existing environment variables are never overwritten.
func loadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}
