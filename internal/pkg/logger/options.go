package logger

// Option defines a function to modify logger configuration
type Option func(*Config)

// WithLevel sets the log level
func WithLevel(level string) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithFormat sets the log format (json or console)
func WithFormat(format string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithOutput sets the log output (console, file, or both)
func WithOutput(output string) Option {
	return func(c *Config) {
		c.Output = output
	}
}

// WithStderr routes console output to stderr
func WithStderr(enabled bool) Option {
	return func(c *Config) {
		c.Stderr = enabled
	}
}

// WithCaller enables or disables caller information
func WithCaller(enabled bool) Option {
	return func(c *Config) {
		c.EnableCaller = enabled
	}
}

// WithStacktrace enables or disables stacktrace for error level
func WithStacktrace(enabled bool) Option {
	return func(c *Config) {
		c.EnableStacktrace = enabled
	}
}

// NewWithOptions creates a new logger with options
func NewWithOptions(opts ...Option) (*Logger, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return New(cfg)
}

// CLI returns a console logger on stderr for command line tools.
// verbose switches the level from warn to debug.
func CLI(verbose bool) (*Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return NewWithOptions(
		WithLevel(level),
		WithFormat("console"),
		WithOutput("console"),
		WithStderr(true),
		WithCaller(false),
		WithStacktrace(false),
	)
}
