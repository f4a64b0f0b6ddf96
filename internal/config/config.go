package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
	Export   ExportConfig   `mapstructure:"export" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url" validate:"required"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifeMins int    `mapstructure:"conn_max_life_mins" validate:"gte=1"`
}

// LLMConfig contains settings for the conversation language model.
// The API key is optional: without one, conversation practice runs on
// scripted replies instead of generated ones.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
	MaxRetries   int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// ReviewConfig contains tunables for scheduling and rewards. Defaults match
// the standard curve; overriding them is mainly useful in tests and when
// experimenting with pacing.
type ReviewConfig struct {
	MinEaseFactor          float64 `mapstructure:"min_ease_factor" validate:"gt=0"`
	MaxEaseFactor          float64 `mapstructure:"max_ease_factor" validate:"gt=0"`
	GraduatingIntervalDays int     `mapstructure:"graduating_interval_days" validate:"gte=1"`
	MasteryThresholdDays   int     `mapstructure:"mastery_threshold_days" validate:"gte=1"`
	NewWordsPerDay         int     `mapstructure:"new_words_per_day" validate:"gte=1"`
}

// ExportConfig controls the periodic stats snapshot written for external
// dashboards.
type ExportConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
	DailyAt   string `mapstructure:"daily_at" validate:"required"`
}
