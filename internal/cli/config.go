package cli

import (
	"os"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	ConfigPath string
	EnvFile    string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("SEABATTLE_SERVER", "http://localhost:3000"),
		ConfigPath: os.Getenv("SEABATTLE_CONFIG"),
		EnvFile:    ".env",
		Output:     "text",
		Verbose:    false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
