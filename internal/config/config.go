package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"switchbot-mcp/internal/switchbot"
)

// ErrMissingCredentials is returned when the token or the secret is unset.
var ErrMissingCredentials = errors.New("missing required environment variables: SWITCHBOT_TOKEN, SWITCHBOT_SECRET")

type Config struct {
	Token       string
	Secret      string
	BaseURL     string
	HTTPTimeout time.Duration
	Port        int
	LogFile     string
	MQTT        MQTTConfig
}

type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

// Enabled reports whether a broker is configured
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

func Load() (*Config, error) {
	// .env is optional; the environment always wins over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{
		Token:       os.Getenv("SWITCHBOT_TOKEN"),
		Secret:      os.Getenv("SWITCHBOT_SECRET"),
		BaseURL:     os.Getenv("SWITCHBOT_BASE_URL"),
		HTTPTimeout: switchbot.DefaultTimeout,
		LogFile:     os.Getenv("SWITCHBOT_LOG_FILE"),
		MQTT: MQTTConfig{
			Broker:      os.Getenv("MQTT_BROKER"),
			ClientID:    os.Getenv("MQTT_CLIENT_ID"),
			Username:    os.Getenv("MQTT_USERNAME"),
			Password:    os.Getenv("MQTT_PASSWORD"),
			TopicPrefix: os.Getenv("MQTT_TOPIC_PREFIX"),
		},
	}

	if cfg.Token == "" || cfg.Secret == "" {
		return nil, ErrMissingCredentials
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = switchbot.DefaultBaseURL
	}

	if s := os.Getenv("SWITCHBOT_HTTP_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.HTTPTimeout = d
		}
	}

	if s := os.Getenv("PORT"); s != "" {
		port, err := strconv.Atoi(s)
		if err != nil || port < 0 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", s)
		}
		cfg.Port = port
	}

	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "switchbot"
	}

	if cfg.MQTT.ClientID == "" {
		// Generate a unique client ID if not provided
		cfg.MQTT.ClientID = generateClientID()
	}

	return cfg, nil
}

var invalidClientIDChars = regexp.MustCompile(`[^a-zA-Z0-9:_-]`)

func generateClientID() string {
	id := uuid.New().String()
	return fmt.Sprintf("switchbot-mcp-%s", invalidClientIDChars.ReplaceAllString(id, "-"))
}
