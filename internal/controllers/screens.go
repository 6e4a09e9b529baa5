// Package controllers glues the derived view model to the tview
// screens. The screen controller owns the page switcher and the
// enter/exit hooks; it never decides visibility itself, it applies
// whatever the resolver decided.
package controllers

import (
	"github.com/rivo/tview"

	"github.com/AnhHT/jitsi-meet/internal/models"
)

// ScreenController switches between the prejoin, lobby and conference
// pages and fires the registered enter/exit hooks on transitions.
//
// All methods must be called from the tview event loop (wrap calls
// from other goroutines in QueueUpdateDraw).
type ScreenController struct {
	pages   *tview.Pages
	current models.PrimaryScreen
	names   map[models.PrimaryScreen]string
	onEnter map[models.PrimaryScreen]func()
	onExit  map[models.PrimaryScreen]func()
}

// NewScreenController creates a controller over the given page set.
// The current screen starts at ScreenNone so the first Apply always
// transitions.
func NewScreenController(pages *tview.Pages) *ScreenController {
	return &ScreenController{
		pages:   pages,
		current: models.ScreenNone,
		names:   make(map[models.PrimaryScreen]string),
		onEnter: make(map[models.PrimaryScreen]func()),
		onExit:  make(map[models.PrimaryScreen]func()),
	}
}

// Register mounts a screen's primitive as a page.
func (sc *ScreenController) Register(screen models.PrimaryScreen, prim tview.Primitive) {
	sc.names[screen] = screen.String()
	sc.pages.AddPage(screen.String(), prim, true, false)
}

// OnEnter registers a hook fired after the controller switches to a
// screen. Screens use it to start their animations and focus.
func (sc *ScreenController) OnEnter(screen models.PrimaryScreen, fn func()) {
	sc.onEnter[screen] = fn
}

// OnExit registers a hook fired just before leaving a screen.
func (sc *ScreenController) OnExit(screen models.PrimaryScreen, fn func()) {
	sc.onExit[screen] = fn
}

// Apply transitions to the primary screen of the view model. A view
// model naming the already-active screen is a no-op for transitions
// (layout changes inside a screen are the views' business).
func (sc *ScreenController) Apply(vm models.ScreenViewModel) {
	sc.Transition(vm.PrimaryScreen)
}

// Transition switches pages, firing exit then enter hooks.
func (sc *ScreenController) Transition(to models.PrimaryScreen) {
	if sc.current == to {
		return
	}
	if fn, ok := sc.onExit[sc.current]; ok {
		fn()
	}
	sc.current = to
	if name, ok := sc.names[to]; ok {
		sc.pages.SwitchToPage(name)
	}
	if fn, ok := sc.onEnter[to]; ok {
		fn()
	}
}

// Current reports the active screen.
func (sc *ScreenController) Current() models.PrimaryScreen {
	return sc.current
}
