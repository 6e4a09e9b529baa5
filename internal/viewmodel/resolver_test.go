package viewmodel

import (
	"errors"
	"testing"
	"time"

	"github.com/AnhHT/jitsi-meet/internal/models"
)

func TestPrimaryScreenPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		session models.SessionState
		want    models.PrimaryScreen
	}{
		{"prejoin only", models.SessionState{IsPrejoinVisible: true}, models.ScreenPrejoin},
		{"lobby only", models.SessionState{IsLobbyVisible: true}, models.ScreenLobby},
		{"neither", models.SessionState{}, models.ScreenConference},
		// Upstream never promises prejoin and lobby are exclusive;
		// prejoin must win when both are set.
		{"prejoin and lobby", models.SessionState{IsPrejoinVisible: true, IsLobbyVisible: true}, models.ScreenPrejoin},
		{"connected does not matter", models.SessionState{IsPrejoinVisible: true, IsConnected: true}, models.ScreenPrejoin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, err := Resolve(tt.session, models.UiPreferences{}, models.LayoutTileView, false)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if vm.PrimaryScreen != tt.want {
				t.Errorf("PrimaryScreen = %v, want %v", vm.PrimaryScreen, tt.want)
			}
		})
	}
}

func TestNotificationPlacement(t *testing.T) {
	tests := []struct {
		name  string
		prefs models.UiPreferences
		want  models.NotificationPlacement
	}{
		{"drawer and visible", models.UiPreferences{OverflowDrawerEnabled: true, NotificationsVisible: true}, models.PlacementOverlay},
		{"visible only", models.UiPreferences{NotificationsVisible: true}, models.PlacementInline},
		{"hidden", models.UiPreferences{}, models.PlacementNone},
		// The drawer flag alone must not surface notifications.
		{"drawer but hidden", models.UiPreferences{OverflowDrawerEnabled: true}, models.PlacementNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, err := Resolve(models.SessionState{}, tt.prefs, models.LayoutTileView, false)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if vm.NotificationPlacement != tt.want {
				t.Errorf("NotificationPlacement = %v, want %v", vm.NotificationPlacement, tt.want)
			}
		})
	}
}

func TestLayoutClassNames(t *testing.T) {
	modes := []models.LayoutMode{
		models.LayoutHorizontalFilmstrip,
		models.LayoutTileView,
		models.LayoutVerticalFilmstrip,
	}

	seen := make(map[string]models.LayoutMode)
	for _, mode := range modes {
		vm, err := Resolve(models.SessionState{}, models.UiPreferences{}, mode, false)
		if err != nil {
			t.Fatalf("Resolve(%v): %v", mode, err)
		}
		if vm.LayoutClassName == "" {
			t.Errorf("Resolve(%v) returned empty LayoutClassName", mode)
		}
		if prev, dup := seen[vm.LayoutClassName]; dup {
			t.Errorf("class %q reused by %v and %v", vm.LayoutClassName, prev, mode)
		}
		seen[vm.LayoutClassName] = mode

		// Same input always yields the same output string.
		again, err := Resolve(models.SessionState{}, models.UiPreferences{}, mode, false)
		if err != nil {
			t.Fatalf("Resolve(%v) second call: %v", mode, err)
		}
		if again.LayoutClassName != vm.LayoutClassName {
			t.Errorf("Resolve(%v) not deterministic: %q then %q", mode, vm.LayoutClassName, again.LayoutClassName)
		}
	}
}

func TestUnknownLayout(t *testing.T) {
	_, err := Resolve(models.SessionState{}, models.UiPreferences{}, models.LayoutMode(99), false)
	if !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("err = %v, want ErrUnknownLayout", err)
	}
}

func TestStageFilmstripPassthrough(t *testing.T) {
	for _, show := range []bool{true, false} {
		vm, err := Resolve(models.SessionState{}, models.UiPreferences{}, models.LayoutVerticalFilmstrip, show)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if vm.ShowStageFilmstrip != show {
			t.Errorf("ShowStageFilmstrip = %v, want %v", vm.ShowStageFilmstrip, show)
		}
	}
}

func TestResolveIdempotent(t *testing.T) {
	session := models.SessionState{IsLobbyVisible: true, IsConnected: true}
	prefs := models.UiPreferences{
		NotificationsVisible:      true,
		BackgroundAlpha:           0.5,
		MouseMoveCallbackInterval: 100 * time.Millisecond,
	}

	first, err := Resolve(session, prefs, models.LayoutHorizontalFilmstrip, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := Resolve(session, prefs, models.LayoutHorizontalFilmstrip, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if first != second {
		t.Errorf("identical inputs produced %+v and %+v", first, second)
	}
}

// The three end-to-end scenarios the resolver must satisfy.
func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name    string
		session models.SessionState
		prefs   models.UiPreferences
		layout  models.LayoutMode
		want    models.ScreenViewModel
	}{
		{
			name:    "prejoin with inline notifications in tile view",
			session: models.SessionState{IsPrejoinVisible: true},
			prefs:   models.UiPreferences{NotificationsVisible: true},
			layout:  models.LayoutTileView,
			want: models.ScreenViewModel{
				PrimaryScreen:         models.ScreenPrejoin,
				NotificationPlacement: models.PlacementInline,
				LayoutClassName:       "tile-view",
			},
		},
		{
			name:    "lobby with drawer notifications in horizontal filmstrip",
			session: models.SessionState{IsLobbyVisible: true},
			prefs:   models.UiPreferences{OverflowDrawerEnabled: true, NotificationsVisible: true},
			layout:  models.LayoutHorizontalFilmstrip,
			want: models.ScreenViewModel{
				PrimaryScreen:         models.ScreenLobby,
				NotificationPlacement: models.PlacementOverlay,
				LayoutClassName:       "horizontal-filmstrip",
			},
		},
		{
			name:    "conference with notifications hidden in vertical filmstrip",
			session: models.SessionState{},
			prefs:   models.UiPreferences{},
			layout:  models.LayoutVerticalFilmstrip,
			want: models.ScreenViewModel{
				PrimaryScreen:         models.ScreenConference,
				NotificationPlacement: models.PlacementNone,
				LayoutClassName:       "vertical-filmstrip",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.session, tt.prefs, tt.layout, false)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %+v, want %+v", got, tt.want)
			}
		})
	}
}
