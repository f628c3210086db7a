package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if all required Google configuration is present
func (c GoogleConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type NotionConfig struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if all required Notion configuration is present
func (c NotionConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SlackConfig struct {
	ClientID        string
	ClientSecret    string
	AlertWebhookURL string
	SalesWebhookURL string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
	// Note: AlertWebhookURL and SalesWebhookURL are optional
}

type ClerkConfig struct {
	SecretKey string
}

// IsConfigured returns true if all required Clerk configuration is present
func (c ClerkConfig) IsConfigured() bool {
	return c.SecretKey != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// OAuth plumbing
	AppBaseURL          string // Used to build provider redirect URIs
	FrontendOrigin      string // Target origin of the callback page postMessage
	RedisURL            string // Optional, OAuth states are kept in Postgres when empty
	OAuthStateTTL       time.Duration
	TokenEncryptionKey  string // base64, optional - tokens are stored unencrypted without it
	ProviderHTTPTimeout time.Duration

	// Integration configurations (grouped)
	GoogleConfig GoogleConfig
	NotionConfig NotionConfig
	SlackConfig  SlackConfig
	ClerkConfig  ClerkConfig
}

// GoogleRedirectURL is the callback registered with the Google OAuth app
func (c *AppConfig) GoogleRedirectURL() string {
	return c.AppBaseURL + "/integrations/google/callback"
}

// NotionRedirectURL is the callback registered with the Notion public integration
func (c *AppConfig) NotionRedirectURL() string {
	return c.AppBaseURL + "/integrations/notion/callback"
}

// SlackRedirectURL is the callback registered with the Slack app
func (c *AppConfig) SlackRedirectURL() string {
	return c.AppBaseURL + "/integrations/slack/callback"
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	stateTTL, err := getDurationWithDefault("OAUTH_STATE_TTL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	providerTimeout, err := getDurationWithDefault("PROVIDER_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "false") == "true",

		AppBaseURL:          strings.TrimRight(getEnvWithDefault("APP_BASE_URL", "http://localhost:8080"), "/"),
		FrontendOrigin:      getEnvWithDefault("FRONTEND_ORIGIN", "*"),
		RedisURL:            os.Getenv("REDIS_URL"),
		OAuthStateTTL:       stateTTL,
		TokenEncryptionKey:  os.Getenv("TOKEN_ENCRYPTION_KEY"),
		ProviderHTTPTimeout: providerTimeout,

		GoogleConfig: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		},

		NotionConfig: NotionConfig{
			ClientID:     os.Getenv("NOTION_CLIENT_ID"),
			ClientSecret: os.Getenv("NOTION_CLIENT_SECRET"),
		},

		SlackConfig: SlackConfig{
			ClientID:        os.Getenv("SLACK_CLIENT_ID"),
			ClientSecret:    os.Getenv("SLACK_CLIENT_SECRET"),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
			SalesWebhookURL: os.Getenv("SLACK_SALES_WEBHOOK_URL"),
		},

		ClerkConfig: ClerkConfig{
			SecretKey: os.Getenv("CLERK_SECRET_KEY"),
		},
	}

	integrations := []struct {
		name       string
		configured bool
	}{
		{"Google", config.GoogleConfig.IsConfigured()},
		{"Notion", config.NotionConfig.IsConfigured()},
		{"Slack", config.SlackConfig.IsConfigured()},
	}
	for _, integration := range integrations {
		if integration.configured {
			log.Printf("✅ %s integration configured", integration.name)
			continue
		}

		log.Printf("⚠️ %s integration not configured - %s features will be disabled", integration.name, integration.name)
		if config.UseStrictConfig {
			return nil, fmt.Errorf("%s integration is not fully configured (USE_STRICT_CONFIG=true)", integration.name)
		}
	}

	if config.ClerkConfig.IsConfigured() {
		log.Printf("✅ Clerk authentication configured")
	} else {
		// Without Clerk no bearer token can be verified, so the API would be unusable
		return nil, fmt.Errorf("CLERK_SECRET_KEY is not set")
	}

	if config.TokenEncryptionKey == "" {
		log.Printf("⚠️ TOKEN_ENCRYPTION_KEY not set - Notion tokens will be stored unencrypted")
	}

	if config.RedisURL != "" {
		log.Printf("✅ Redis OAuth state store configured")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration (e.g. 10m): %w", key, err)
	}
	if duration <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return duration, nil
}
