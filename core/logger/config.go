package logger

// Config holds configuration for the loggers.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `mapstructure:"level" default:"info"`
	// Format is the log encoding (json or console).
	Format string `mapstructure:"format" default:"json"`
	// SecurePath is the output path for the access-restricted logger.
	// Payloads that may contain case-sensitive text are only written here.
	SecurePath string `mapstructure:"secure_path" default:"secure.log"`
}
