package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// SKETCHFORGE_ prefix with underscores for nesting (e.g. SKETCHFORGE_SERVER_PORT)
// and take precedence over file values.
// Returns a populated Config or an error naming the offending field.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SKETCHFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The config file is optional; only a malformed file is fatal.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid configuration: field %q failed %q validation",
				verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("task.result_ttl", "1h")
	v.SetDefault("task.poll_ceiling", "180s")
	v.SetDefault("task.poll_interval", "2s")
	v.SetDefault("task.worker_count", 4)
	v.SetDefault("task.embed_worker", false)

	v.SetDefault("providers.ai302_base_url", "https://api.302.ai")
	v.SetDefault("providers.cerebras_base_url", "https://api.cerebras.ai")
}
