// Package config loads the client configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/AnhHT/jitsi-meet/internal/models"
)

// Config is everything the shell needs to start. ServerURL empty
// means demo mode: a scripted conference instead of a real backend.
type Config struct {
	ServerURL   string
	Room        string
	Passphrase  string
	DisplayName string // optional prefill for the prejoin screen
	DemoLobby   bool   // demo mode only: walk through the lobby first

	MaxNotifications int
	NotificationTTL  time.Duration
	TileView         bool // start in tile view when the terminal fits it

	Prefs models.UiPreferences
}

// LoadFromEnv reads the MEET_* variables, falling back to defaults
// that give a working demo client.
func LoadFromEnv() *Config {
	return &Config{
		ServerURL:        getEnv("MEET_SERVER_URL", ""),
		Room:             getEnv("MEET_ROOM", "demo-room"),
		Passphrase:       getEnv("MEET_PASSPHRASE", "meet-default-passphrase"),
		DisplayName:      getEnv("MEET_DISPLAY_NAME", ""),
		DemoLobby:        getEnvAsBool("MEET_DEMO_LOBBY", true),
		MaxNotifications: getEnvAsInt("MEET_MAX_NOTIFICATIONS", 50),
		NotificationTTL:  getEnvAsDuration("MEET_NOTIFICATION_TTL", 1*time.Minute),
		TileView:         getEnvAsBool("MEET_TILE_VIEW", false),
		Prefs: models.UiPreferences{
			OverflowDrawerEnabled:     getEnvAsBool("MEET_OVERFLOW_DRAWER", false),
			NotificationsVisible:      getEnvAsBool("MEET_NOTIFICATIONS", true),
			BackgroundAlpha:           getEnvAsFloat("MEET_BACKGROUND_ALPHA", models.AlphaUnset),
			MouseMoveCallbackInterval: getEnvAsDuration("MEET_MOUSE_MOVE_INTERVAL", 1*time.Second),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
