package cli

import (
	"io"
	"log/slog"
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Username  string
	Password  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("STEAMGAMES_SERVER", "http://localhost:8080"),
		Username:  os.Getenv("STEAMGAMES_USER"),
		Password:  os.Getenv("STEAMGAMES_PASSWORD"),
		Output:    getEnvOrDefault("STEAMGAMES_OUTPUT", "text"),
		Verbose:   false,
	}
}

// HasCredentials reports whether both username and password are set
func (c *Config) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// Logger returns the CLI logger: text on stderr, debug level when verbose
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
