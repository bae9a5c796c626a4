package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Sources  SourcesConfig  `mapstructure:"sources"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SourcesConfig locates the source datasets the fetch worker reads from.
// When Seed is true, missing dataset files are generated on startup with
// SeedRecords synthetic listings each.
type SourcesConfig struct {
	SourceAPath string `mapstructure:"source_a_path" validate:"required"`
	SourceBPath string `mapstructure:"source_b_path" validate:"required"`
	Seed        bool   `mapstructure:"seed"`
	SeedRecords int    `mapstructure:"seed_records"  validate:"gte=0"`
}
