package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"        validate:"required"`
	Progression ProgressionConfig `mapstructure:"progression" validate:"required"`
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

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is how long an access token stays valid.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// RefreshTokenLifetimeMinutes is how long a refresh token stays valid.
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// ProgressionConfig contains the tunable parameters of the progression
// engine. Defaults match the published game rules; operators can adjust
// them per environment without a code change.
type ProgressionConfig struct {
	// XPPerLevel is the flat amount of XP between consecutive levels.
	XPPerLevel int `mapstructure:"xp_per_level" validate:"required,gt=0"`

	// LenientPassPercent is the minimum percentage score that passes a
	// lenient-threshold quiz.
	LenientPassPercent int `mapstructure:"lenient_pass_percent" validate:"required,gt=0,lte=100"`
}
