package config

// Supported generation providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// GenerationConfig selects and configures the text-generation provider.
type GenerationConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=huggingface gemini openai anthropic"`
	// Endpoint is the inference URL for huggingface, or a base URL override for the SDK providers.
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
	APIKey   string `mapstructure:"api_key" validate:"required"`
	// Model is ignored by huggingface, whose endpoint URL names the model.
	Model string `mapstructure:"model"`
}

// StorageConfig configures the S3-compatible object store.
// Bucket may be empty at startup; requests then fail with a configuration error.
type StorageConfig struct {
	Bucket       string `mapstructure:"bucket"`
	Endpoint     string `mapstructure:"endpoint" validate:"required"`
	Region       string `mapstructure:"region"`
	AccessKey    string `mapstructure:"access_key"`
	SecretKey    string `mapstructure:"secret_key"`
	UseSSL       bool   `mapstructure:"use_ssl"`
	PublicDomain string `mapstructure:"public_domain" validate:"required"`
}

// DatabaseConfig configures the optional artifact index.
// An empty URL disables the index.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// IndexEnabled reports whether the artifact index should be used.
func (c DatabaseConfig) IndexEnabled() bool {
	return c.URL != ""
}
