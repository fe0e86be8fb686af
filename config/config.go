package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

type DiscordConfig struct {
	BotToken  string
	ChannelID string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	UseStrictConfig    bool // If true, error when any transport is not fully configured

	// DeepLinkBaseURL is the public URL the comment-count button links to,
	// e.g. the bot's deep-link address.
	DeepLinkBaseURL string

	// AdminUserID is the opaque user identifier of the moderation account.
	AdminUserID string

	SlackConfig   SlackConfig
	DiscordConfig DiscordConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	deepLinkBaseURL, err := getEnvRequired("DEEP_LINK_BASE_URL")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",
		DeepLinkBaseURL:    deepLinkBaseURL,
		AdminUserID:        os.Getenv("ADMIN_USER_ID"),

		SlackConfig: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},

		DiscordConfig: DiscordConfig{
			BotToken:  os.Getenv("DISCORD_BOT_TOKEN"),
			ChannelID: os.Getenv("DISCORD_CHANNEL_ID"),
		},
	}

	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack transport configured")
	} else {
		log.Printf("⚠️ Slack transport not configured - Slack publishing will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack transport is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord transport configured")
	} else {
		log.Printf("⚠️ Discord transport not configured - Discord publishing will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("discord transport is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if !config.SlackConfig.IsConfigured() && !config.DiscordConfig.IsConfigured() {
		return nil, fmt.Errorf("no chat transport configured - set Slack or Discord credentials")
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
