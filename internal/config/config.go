package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Redis     RedisConfig     `mapstructure:"redis"     validate:"required"`
	Task      TaskConfig      `mapstructure:"task"      validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// RedisConfig contains connection settings for the process-wide Redis client,
// which backs the event channel, the result store, and the work queue.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"required"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"   validate:"gte=0"`
}

// TaskConfig contains settings for the asynchronous task lifecycle.
type TaskConfig struct {
	// ResultTTL is how long a terminal task result stays readable.
	ResultTTL time.Duration `mapstructure:"result_ttl" validate:"required"`

	// PollCeiling is the wall-clock limit for the WebSocket polling loop.
	PollCeiling time.Duration `mapstructure:"poll_ceiling" validate:"required"`

	// PollInterval is the sleep between WebSocket status polls.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`

	// WorkerCount is the number of concurrent workers a worker process runs.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// EmbedWorker runs a worker pool inside the API process. Intended for
	// development; production deployments run cmd/worker separately.
	EmbedWorker bool `mapstructure:"embed_worker"`
}

// ProvidersConfig contains credentials and endpoints for the external
// generative-AI providers. Keys are optional at load time; a handler whose
// provider is unconfigured fails at execution, not at startup.
type ProvidersConfig struct {
	AI302APIKey     string `mapstructure:"ai302_api_key"`
	AI302BaseURL    string `mapstructure:"ai302_base_url"    validate:"omitempty,url"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	CerebrasAPIKey  string `mapstructure:"cerebras_api_key"`
	CerebrasBaseURL string `mapstructure:"cerebras_base_url" validate:"omitempty,url"`
	TrellisAPIKey   string `mapstructure:"trellis_api_key"`
}
