package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	// BotUsername is used to build referral links offline
	BotUsername string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("EAGLECTL_SERVER", "http://localhost:3000"),
		Token:       os.Getenv("EAGLECTL_TOKEN"),
		TokenFile:   getEnvOrDefault("EAGLECTL_TOKEN_FILE", defaultTokenFile()),
		Output:      "text",
		BotUsername: os.Getenv("BOT_USERNAME"),
	}
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eaglectl/token"
	}
	return filepath.Join(home, ".eaglectl", "token")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
