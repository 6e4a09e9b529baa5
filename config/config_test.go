package config

import (
	"testing"
	"time"

	"github.com/AnhHT/jitsi-meet/internal/models"
)

func TestDefaults(t *testing.T) {
	cfg := LoadFromEnv()

	if cfg.ServerURL != "" {
		t.Errorf("default ServerURL = %q, want empty (demo mode)", cfg.ServerURL)
	}
	if cfg.Room != "demo-room" {
		t.Errorf("Room = %q", cfg.Room)
	}
	if !cfg.Prefs.NotificationsVisible {
		t.Error("notifications should default to visible")
	}
	if cfg.Prefs.OverflowDrawerEnabled {
		t.Error("overflow drawer should default to disabled")
	}
	if cfg.Prefs.BackgroundAlpha != models.AlphaUnset {
		t.Errorf("BackgroundAlpha = %v, want unset", cfg.Prefs.BackgroundAlpha)
	}
	if cfg.Prefs.MouseMoveCallbackInterval != time.Second {
		t.Errorf("MouseMoveCallbackInterval = %v", cfg.Prefs.MouseMoveCallbackInterval)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MEET_SERVER_URL", "http://localhost:8034")
	t.Setenv("MEET_ROOM", "standup")
	t.Setenv("MEET_BACKGROUND_ALPHA", "0.5")
	t.Setenv("MEET_OVERFLOW_DRAWER", "true")
	t.Setenv("MEET_NOTIFICATIONS", "false")
	t.Setenv("MEET_MOUSE_MOVE_INTERVAL", "250ms")
	t.Setenv("MEET_NOTIFICATION_TTL", "30s")
	t.Setenv("MEET_MAX_NOTIFICATIONS", "10")
	t.Setenv("MEET_TILE_VIEW", "1")

	cfg := LoadFromEnv()

	if cfg.ServerURL != "http://localhost:8034" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Room != "standup" {
		t.Errorf("Room = %q", cfg.Room)
	}
	if cfg.Prefs.BackgroundAlpha != 0.5 {
		t.Errorf("BackgroundAlpha = %v", cfg.Prefs.BackgroundAlpha)
	}
	if !cfg.Prefs.OverflowDrawerEnabled {
		t.Error("OverflowDrawerEnabled not applied")
	}
	if cfg.Prefs.NotificationsVisible {
		t.Error("NotificationsVisible not applied")
	}
	if cfg.Prefs.MouseMoveCallbackInterval != 250*time.Millisecond {
		t.Errorf("MouseMoveCallbackInterval = %v", cfg.Prefs.MouseMoveCallbackInterval)
	}
	if cfg.NotificationTTL != 30*time.Second {
		t.Errorf("NotificationTTL = %v", cfg.NotificationTTL)
	}
	if cfg.MaxNotifications != 10 {
		t.Errorf("MaxNotifications = %d", cfg.MaxNotifications)
	}
	if !cfg.TileView {
		t.Error("TileView not applied")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MEET_BACKGROUND_ALPHA", "opaque")
	t.Setenv("MEET_MAX_NOTIFICATIONS", "many")
	t.Setenv("MEET_MOUSE_MOVE_INTERVAL", "soon")

	cfg := LoadFromEnv()

	if cfg.Prefs.BackgroundAlpha != models.AlphaUnset {
		t.Errorf("BackgroundAlpha = %v, want unset fallback", cfg.Prefs.BackgroundAlpha)
	}
	if cfg.MaxNotifications != 50 {
		t.Errorf("MaxNotifications = %d, want default 50", cfg.MaxNotifications)
	}
	if cfg.Prefs.MouseMoveCallbackInterval != time.Second {
		t.Errorf("MouseMoveCallbackInterval = %v, want default", cfg.Prefs.MouseMoveCallbackInterval)
	}
}
