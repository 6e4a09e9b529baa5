// Package viewmodel decides which top-level screen the client shows
// and how the conference screen is laid out. It is intentionally free
// of tview imports so the decision logic can be exercised without a
// terminal and called from any goroutine.
package viewmodel

import (
	"errors"
	"fmt"

	"github.com/AnhHT/jitsi-meet/internal/models"
)

// ErrUnknownLayout reports a LayoutMode outside the closed enumeration.
// This is a programmer error in the caller, not a runtime condition,
// so it propagates instead of being recovered silently.
var ErrUnknownLayout = errors.New("unknown layout mode")

// layoutClassNames is the fixed lookup table from LayoutMode to the
// layout class applied to the conference screen.
var layoutClassNames = map[models.LayoutMode]string{
	models.LayoutHorizontalFilmstrip: "horizontal-filmstrip",
	models.LayoutTileView:            "tile-view",
	models.LayoutVerticalFilmstrip:   "vertical-filmstrip",
}

// Resolve maps a state snapshot to the screen view model.
//
// Precedence: prejoin beats lobby beats conference, first match wins.
// Nothing upstream forbids the prejoin and lobby flags being true at
// the same time, so Resolve accepts any combination and the ordering
// here is the single place that arbitrates it. The toolbox and every
// in-conference overlay are suppressed whenever the primary screen is
// not the conference, which falls out of PrimaryScreen being
// single-valued.
//
// Resolve is pure: no side effects, no I/O, cheap enough to run on
// every store update without memoization.
func Resolve(
	session models.SessionState,
	prefs models.UiPreferences,
	layout models.LayoutMode,
	showStageFilmstrip bool,
) (models.ScreenViewModel, error) {
	className, ok := layoutClassNames[layout]
	if !ok {
		return models.ScreenViewModel{}, fmt.Errorf("resolve layout %d: %w", int(layout), ErrUnknownLayout)
	}

	vm := models.ScreenViewModel{
		PrimaryScreen:      primaryScreen(session),
		ShowStageFilmstrip: showStageFilmstrip,
		LayoutClassName:    className,
	}

	switch {
	case prefs.NotificationsVisible && prefs.OverflowDrawerEnabled:
		vm.NotificationPlacement = models.PlacementOverlay
	case prefs.NotificationsVisible:
		vm.NotificationPlacement = models.PlacementInline
	default:
		vm.NotificationPlacement = models.PlacementNone
	}

	return vm, nil
}

func primaryScreen(session models.SessionState) models.PrimaryScreen {
	switch {
	case session.IsPrejoinVisible:
		return models.ScreenPrejoin
	case session.IsLobbyVisible:
		return models.ScreenLobby
	default:
		return models.ScreenConference
	}
}
