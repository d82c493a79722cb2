// Package config loads wevity-contests settings.
//
// Settings come from three layers, later ones overriding earlier ones:
//   - built-in defaults (Default)
//   - a YAML file, ~/.config/wevity-contests/config.yaml unless another path is given
//   - environment variables, optionally read from a .env file in the working directory
//
// Command-line flags are applied on top by the cli package.
//
// Example config.yaml:
//
//	search:
//	  max_pages: 3
//	  page_delay: 2s
//	  browser: never
//	  noise_keywords: ["해커톤"]
//	email:
//	  host: smtp.gmail.com
//	  port: 587
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SearchConfig controls how result pages are fetched and filtered
type SearchConfig struct {
	BaseURL       string        `yaml:"base_url"`
	MaxPages      int           `yaml:"max_pages"`
	PageDelay     time.Duration `yaml:"page_delay"`
	Timeout       time.Duration `yaml:"timeout"`
	MaxRetries    int           `yaml:"max_retries"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	UserAgent     string        `yaml:"user_agent"`
	Browser       string        `yaml:"browser"` // auto | never | always
	Headless      bool          `yaml:"headless"`
	NoiseKeywords []string      `yaml:"noise_keywords"`
}

// EmailConfig holds SMTP and Resend delivery settings
type EmailConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"-"`
	SenderName   string `yaml:"sender_name"`
	ResendAPIKey string `yaml:"-"`
	ResendFrom   string `yaml:"resend_from"`
	To           string `yaml:"to"`
}

// TwitterConfig holds OAuth1 credentials for posting
type TwitterConfig struct {
	APIKey       string `yaml:"-"`
	APISecret    string `yaml:"-"`
	AccessToken  string `yaml:"-"`
	AccessSecret string `yaml:"-"`
}

// HasCredentials reports whether all four credentials are set
func (t TwitterConfig) HasCredentials() bool {
	return t.APIKey != "" && t.APISecret != "" && t.AccessToken != "" && t.AccessSecret != ""
}

// TelegramConfig holds the bot token and target chat
type TelegramConfig struct {
	BotToken string `yaml:"-"`
	ChatID   string `yaml:"chat_id"`
}

// Config is the full application configuration
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	LogLevel string         `yaml:"log_level"`
	Search   SearchConfig   `yaml:"search"`
	Email    EmailConfig    `yaml:"email"`
	Twitter  TwitterConfig  `yaml:"-"`
	Telegram TelegramConfig `yaml:"telegram"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir:  defaultDataDir(),
		LogLevel: "warn",
		Search: SearchConfig{
			BaseURL:       "https://www.wevity.com",
			MaxPages:      5,
			PageDelay:     time.Second,
			Timeout:       15 * time.Second,
			MaxRetries:    2,
			RetryInterval: 500 * time.Millisecond,
			Browser:       "auto",
			Headless:      true,
		},
		Email: EmailConfig{
			Host:       "smtp.gmail.com",
			Port:       587,
			SenderName: "공모전 알리미",
		},
	}
}

// DefaultPath returns ~/.config/wevity-contests/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(dir, "wevity-contests", "config.yaml"), nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wevity-contests"
	}
	return filepath.Join(home, ".wevity-contests")
}

// Load builds the configuration from defaults, the YAML file at path and the environment.
// An empty path means DefaultPath. A missing file is not an error unless path was given explicitly.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides settings from environment variables
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("WEVITY_DATA_DIR", &c.DataDir)
	str("WEVITY_LOG_LEVEL", &c.LogLevel)
	str("WEVITY_BROWSER", &c.Search.Browser)

	str("EMAIL_HOST", &c.Email.Host)
	str("EMAIL", &c.Email.Username)
	str("PASSWORD", &c.Email.Password)
	str("SENDER_NAME", &c.Email.SenderName)
	str("RESEND_API_KEY", &c.Email.ResendAPIKey)
	str("RESEND_FROM", &c.Email.ResendFrom)

	str("TWITTER_API_KEY", &c.Twitter.APIKey)
	str("TWITTER_API_SECRET", &c.Twitter.APISecret)
	str("TWITTER_ACCESS_TOKEN", &c.Twitter.AccessToken)
	str("TWITTER_ACCESS_SECRET", &c.Twitter.AccessSecret)

	str("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	str("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)

	if v, ok := lookup("EMAIL_PORT"); ok && strings.TrimSpace(v) != "" {
		port, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid EMAIL_PORT %q: %w", v, err)
		}
		c.Email.Port = port
	}

	return nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var problems []string

	if c.Search.MaxPages < 1 {
		problems = append(problems, "search.max_pages must be at least 1")
	}
	if c.Search.PageDelay < 0 {
		problems = append(problems, "search.page_delay must not be negative")
	}
	if c.Search.MaxRetries < 0 {
		problems = append(problems, "search.max_retries must not be negative")
	}
	switch c.Search.Browser {
	case "auto", "never", "always":
	default:
		problems = append(problems, fmt.Sprintf("search.browser must be auto, never or always, got %q", c.Search.Browser))
	}
	if c.Email.Port < 0 || c.Email.Port > 65535 {
		problems = append(problems, fmt.Sprintf("email.port out of range: %d", c.Email.Port))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
