package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables (prefixed ESTATEHUB_) take precedence over values
// from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("sources.source_a_path", "data/source_a.json")
	v.SetDefault("sources.source_b_path", "data/source_b.csv")
	v.SetDefault("sources.seed", true)
	v.SetDefault("sources.seed_records", 500)

	// An optional config.yaml in the working directory can override the
	// defaults; its absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Configure environment variables
	v.SetEnvPrefix("ESTATEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind environment variables so they are seen even when the
	// corresponding key is absent from the config file.
	bindEnvs := []struct {
		key    string
		envVar string
	}{
		{"server.port", "ESTATEHUB_SERVER_PORT"},
		{"server.log_level", "ESTATEHUB_SERVER_LOG_LEVEL"},
		{"database.url", "ESTATEHUB_DATABASE_URL"},
		{"sources.source_a_path", "ESTATEHUB_SOURCES_SOURCE_A_PATH"},
		{"sources.source_b_path", "ESTATEHUB_SOURCES_SOURCE_B_PATH"},
		{"sources.seed", "ESTATEHUB_SOURCES_SEED"},
		{"sources.seed_records", "ESTATEHUB_SOURCES_SEED_RECORDS"},
	}

	for _, env := range bindEnvs {
		if err := v.BindEnv(env.key, env.envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", env.envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
