package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultTriggerEmoji  = "📱"
	defaultLinkBaseURL   = "https://discord.com/channels"
	defaultListenPattern = ".*"
	defaultMaxTokens     = 500
)

type DiscordConfig struct {
	BotToken string
}

// IsConfigured returns true if all required Discord configuration is present
func (c DiscordConfig) IsConfigured() bool {
	return c.BotToken != ""
}

type QRLinkConfig struct {
	// TriggerEmoji is the reaction that requests a QR code reply
	TriggerEmoji string
	// LinkBaseURL prefixes generated message links
	LinkBaseURL string
	// LinkChannelID overrides the channel id embedded in message links;
	// empty means the event channel is used
	LinkChannelID string
	// AckEmoji is added to a message once it is watched; empty disables it
	AckEmoji string
	// ListenPattern selects which new messages are delivered as content events
	ListenPattern string
}

// IsConfigured returns true if the QR link settings are usable
func (c QRLinkConfig) IsConfigured() bool {
	return c.TriggerEmoji != "" && c.LinkBaseURL != ""
}

type HostConfig struct {
	// MaxTokens is the per-guild host call budget, refilled over a minute
	MaxTokens int
	// AllowedChannels lists channel ids or names messages may be sent to; empty allows all
	AllowedChannels []string
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL    string
	DatabaseSchema string
	Port           string // Optional with default "8080"
	Environment    string

	DiscordConfig DiscordConfig
	QRLinkConfig  QRLinkConfig
	HostConfig    HostConfig
}

// LoadConfig reads configuration from envFile (if set) or .env, then the process environment
func LoadConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: getEnvWithDefault("DB_SCHEMA", "public"),
		Port:           getEnvWithDefault("PORT", "8080"),
		Environment:    getEnvWithDefault("ENVIRONMENT", "dev"),

		DiscordConfig: DiscordConfig{
			BotToken: os.Getenv("DISCORD_BOT_TOKEN"),
		},

		QRLinkConfig: QRLinkConfig{
			TriggerEmoji:  getEnvWithDefault("QRLINK_TRIGGER_EMOJI", defaultTriggerEmoji),
			LinkBaseURL:   getEnvWithDefault("QRLINK_LINK_BASE_URL", defaultLinkBaseURL),
			LinkChannelID: os.Getenv("QRLINK_LINK_CHANNEL_ID"),
			AckEmoji:      os.Getenv("QRLINK_ACK_EMOJI"),
			ListenPattern: getEnvWithDefault("QRLINK_LISTEN_PATTERN", defaultListenPattern),
		},
	}

	maxTokens, err := strconv.Atoi(getEnvWithDefault("QRLINK_MAX_TOKENS", strconv.Itoa(defaultMaxTokens)))
	if err != nil || maxTokens <= 0 {
		return nil, fmt.Errorf("QRLINK_MAX_TOKENS must be a positive integer")
	}
	config.HostConfig = HostConfig{
		MaxTokens:       maxTokens,
		AllowedChannels: splitList(os.Getenv("QRLINK_ALLOWED_CHANNELS")),
	}

	if _, err := regexp.Compile(config.QRLinkConfig.ListenPattern); err != nil {
		return nil, fmt.Errorf("QRLINK_LISTEN_PATTERN is not a valid regular expression: %w", err)
	}

	if config.DiscordConfig.IsConfigured() {
		log.Printf("✅ Discord integration configured")
	} else {
		log.Printf("⚠️ Discord integration not configured")
	}

	if config.QRLinkConfig.LinkChannelID == "" {
		log.Printf("⚠️ QRLINK_LINK_CHANNEL_ID not set - message links will use the event channel")
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

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
