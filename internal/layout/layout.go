// Package layout picks the conference layout mode from the terminal
// geometry and the user's tile-view toggle, and owns the
// stage-filmstrip predicate. The resolver treats both outputs as
// opaque inputs.
package layout

import "github.com/AnhHT/jitsi-meet/internal/models"

// Breakpoints, in cells. Below the tile minimums a tile grid is
// unreadable; at WideWidth and up there is room for a thumbnail
// column beside the stage.
const (
	MinTileWidth  = 80
	MinTileHeight = 20
	WideWidth     = 120
)

// Calculate returns the layout mode for the given terminal size.
// The tile-view toggle wins whenever the terminal can fit a grid;
// otherwise wide terminals get the vertical filmstrip column and
// narrow ones the horizontal strip.
func Calculate(width, height int, tileViewEnabled bool) models.LayoutMode {
	if tileViewEnabled && width >= MinTileWidth && height >= MinTileHeight {
		return models.LayoutTileView
	}
	if width >= WideWidth {
		return models.LayoutVerticalFilmstrip
	}
	return models.LayoutHorizontalFilmstrip
}

// StageFilmstripVisible reports whether the stage filmstrip should
// show: someone must be pinned and there must be someone else to put
// in the strip.
func StageFilmstripVisible(participantCount int, hasPinned bool) bool {
	return hasPinned && participantCount >= 2
}
