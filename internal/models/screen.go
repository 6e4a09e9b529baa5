package models

import "time"

// PrimaryScreen identifies the single top-level screen the client shows.
// The resolver guarantees exactly one is active at any time.
type PrimaryScreen int

const (
	ScreenNone       PrimaryScreen = -1 // sentinel: nothing resolved yet
	ScreenPrejoin    PrimaryScreen = iota
	ScreenLobby
	ScreenConference
)

// String returns a human-readable name for the screen.
func (s PrimaryScreen) String() string {
	switch s {
	case ScreenNone:
		return "none"
	case ScreenPrejoin:
		return "prejoin"
	case ScreenLobby:
		return "lobby"
	case ScreenConference:
		return "conference"
	default:
		return "unknown"
	}
}

// LayoutMode is the filmstrip arrangement for the conference screen.
// It is chosen by the layout calculator, never by the resolver.
type LayoutMode int

const (
	LayoutHorizontalFilmstrip LayoutMode = iota
	LayoutTileView
	LayoutVerticalFilmstrip
)

// String returns a human-readable name for the layout mode.
func (m LayoutMode) String() string {
	switch m {
	case LayoutHorizontalFilmstrip:
		return "horizontal-filmstrip"
	case LayoutTileView:
		return "tile-view"
	case LayoutVerticalFilmstrip:
		return "vertical-filmstrip"
	default:
		return "unknown"
	}
}

// NotificationPlacement says where notifications render on the
// conference screen.
type NotificationPlacement int

const (
	PlacementNone    NotificationPlacement = iota // notifications hidden
	PlacementInline                               // banner above the filmstrip
	PlacementOverlay                              // collapsed into the overflow drawer
)

// String returns a human-readable name for the placement.
func (p NotificationPlacement) String() string {
	switch p {
	case PlacementNone:
		return "none"
	case PlacementInline:
		return "inline"
	case PlacementOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// SessionState is the snapshot of the connection subsystem the
// resolver consumes. Produced by the signaling client, held by the
// store.
type SessionState struct {
	IsPrejoinVisible bool
	IsLobbyVisible   bool
	IsConnected      bool
}

// AlphaUnset marks UiPreferences.BackgroundAlpha as not configured.
// Any negative value means "leave the theme's background alone".
const AlphaUnset = -1.0

// UiPreferences are the user/deployment knobs the resolver and shell
// consume. Loaded from the environment at startup.
type UiPreferences struct {
	OverflowDrawerEnabled bool
	NotificationsVisible  bool
	// BackgroundAlpha is in [0,1], or negative when unset.
	BackgroundAlpha float64
	// MouseMoveCallbackInterval caps how often input activity may
	// reveal the toolbox. Zero disables throttling.
	MouseMoveCallbackInterval time.Duration
}

// ScreenViewModel is the resolver's output: everything the rendering
// shell needs to decide what is on screen. It is a plain comparable
// value so callers can detect "nothing changed" with ==.
type ScreenViewModel struct {
	PrimaryScreen         PrimaryScreen
	ShowStageFilmstrip    bool
	NotificationPlacement NotificationPlacement
	LayoutClassName       string
}
