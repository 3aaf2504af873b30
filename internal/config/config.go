package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/ellisd-github-technical/branch-protection/internal/vault"
)

const (
	defaultPort       = "8080"
	defaultAPIBaseURL = "https://api.github.com"
	defaultRateLimit  = 10
)

// Config holds application configuration loaded from Vault or environment
// variables. The private key is parsed once here; a malformed key fails the
// process before it accepts traffic.
type Config struct {
	AppID         int    `json:"app_id" validate:"required,gt=0"`
	PrivateKey    string `json:"private_key" validate:"required"`
	WebhookSecret string `json:"webhook_secret" validate:"required"`
	APIBaseURL    string `json:"api_base_url" validate:"required,url"`
	ServerPort    string `json:"port" validate:"required"`
	RateLimit     int    `json:"rate_limit" validate:"gt=0"`

	signingKey *rsa.PrivateKey
}

// SigningKey returns the RSA key parsed from PrivateKey during Load.
func (c *Config) SigningKey() *rsa.PrivateKey {
	return c.signingKey
}

func (c *Config) setIntValue(key string, value interface{}) {
	if str, ok := value.(string); ok {
		if intVal, err := strconv.Atoi(str); err == nil {
			switch key {
			case "app_id":
				c.AppID = intVal
			case "rate_limit":
				c.RateLimit = intVal
			}
		}
	}
}

func (c *Config) setStringValue(key string, value interface{}) {
	if str, ok := value.(string); ok {
		switch key {
		case "private_key":
			c.PrivateKey = str
		case "webhook_secret":
			c.WebhookSecret = str
		case "api_base_url":
			c.APIBaseURL = str
		case "port":
			c.ServerPort = str
		}
	}
}

func loadFromVault(vaultClient *vault.Client, config *Config) {
	if vaultClient == nil {
		return
	}

	vaultPath := os.Getenv("GITHUB_VAULT_PATH")
	if vaultPath == "" {
		vaultPath = "protector/github"
	}
	if githubConfig, err := vaultClient.GetSecret(vaultPath); err == nil {
		for key, value := range githubConfig {
			config.setIntValue(key, value)
			config.setStringValue(key, value)
		}
	} else {
		log.Info().Msg("GitHub configuration not found in Vault, will use environment variables")
	}
}

func loadFromEnv(config *Config) {
	if config.AppID == 0 {
		if v := os.Getenv("GITHUB_APP_IDENTIFIER"); v != "" {
			config.AppID, _ = strconv.Atoi(v)
		}
	}
	if config.PrivateKey == "" {
		config.PrivateKey = os.Getenv("GITHUB_PRIVATE_KEY")
	}
	if config.WebhookSecret == "" {
		config.WebhookSecret = os.Getenv("GITHUB_WEBHOOK_SECRET")
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = os.Getenv("GITHUB_API_BASE_URL")
	}
	if config.ServerPort == "" {
		config.ServerPort = os.Getenv("PORT")
	}
	if config.RateLimit == 0 {
		if v := os.Getenv("RATE_LIMIT_REQUESTS_PER_SECOND"); v != "" {
			config.RateLimit, _ = strconv.Atoi(v)
		}
	}
}

func setDefaults(config *Config) {
	if config.ServerPort == "" {
		config.ServerPort = defaultPort
	}
	if config.APIBaseURL == "" {
		config.APIBaseURL = defaultAPIBaseURL
	}
	if config.RateLimit == 0 {
		config.RateLimit = defaultRateLimit
	}
}

// Load assembles configuration from Vault (when available), environment
// variables and defaults, in that order of precedence, then validates it.
func Load(vaultClient *vault.Client) (*Config, error) {
	config := &Config{}

	loadFromVault(vaultClient, config)
	loadFromEnv(config)
	setDefaults(config)

	// Keys delivered through environment variables carry literal \n sequences.
	config.PrivateKey = strings.ReplaceAll(config.PrivateKey, `\n`, "\n")

	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(config.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	config.signingKey = key

	return config, nil
}
