package views

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/AnhHT/jitsi-meet/internal/models"
	"github.com/AnhHT/jitsi-meet/internal/throttle"
)

// toolboxAutoHide is how long the toolbox stays up after the last
// activity that revealed it.
const toolboxAutoHide = 3 * time.Second

// ConferenceView is the in-call screen: header, stage, filmstrip,
// notification area, toolbox and footer. The screen controller mounts
// it only when the resolver picks the conference as primary screen;
// the view itself renders whatever view model it is handed.
type ConferenceView struct {
	app       *tview.Application
	container *tview.Flex // root: main column + optional side column
	mainCol   *tview.Flex
	sideCol   *tview.Flex

	header    *tview.TextView
	stageView *tview.TextView
	stripView *tview.TextView
	notifView *tview.TextView
	drawer    *tview.TextView
	toolbox   *tview.TextView
	footer    *tview.TextView

	onCommand func(cmd string)

	stopped int32 // atomic: 1 = stopped

	reveal *throttle.Limiter // leading-edge limiter for toolbox reveals

	// All fields below are ONLY ever read/written from inside
	// QueueUpdateDraw (i.e. the tview event loop), so no mutex is
	// needed.
	vm            models.ScreenViewModel
	participants  []*models.Participant
	notifications []*models.Notification

	roomName    string
	displayName string
	latency     int
	online      bool

	audioMuted bool
	videoMuted bool
	handRaised bool

	toolboxVisible bool
	toolboxTimer   *time.Timer
}

// NewConferenceView creates the conference screen. onCommand receives
// toolbox commands ("mute", "camera", "tile-view", "raise-hand",
// "pin", "quit"). revealInterval throttles how often input activity
// may reveal the toolbox.
func NewConferenceView(
	app *tview.Application,
	roomName string,
	revealInterval time.Duration,
	onCommand func(string),
) *ConferenceView {
	c := &ConferenceView{
		app:       app,
		roomName:  roomName,
		onCommand: onCommand,
		latency:   -1,
		online:    true,
		reveal:    throttle.New(revealInterval),
	}
	c.buildUI()
	c.startClockTicker()
	return c
}

// Primitive returns the root primitive for page mounting.
func (c *ConferenceView) Primitive() tview.Primitive { return c.container }

// ── UI construction ────────────────────────────────────────────────────────

func (c *ConferenceView) buildUI() {
	// Header — bordered box, cyan border to match the project theme.
	c.header = tview.NewTextView()
	c.header.SetDynamicColors(true)
	c.header.SetTextAlign(tview.AlignLeft)
	c.header.SetBackgroundColor(tcell.ColorBlack)
	c.header.SetBorder(true)
	c.header.SetBorderColor(tcell.ColorDarkCyan)
	c.header.SetBorderPadding(0, 0, 1, 1)

	c.stageView = tview.NewTextView()
	c.stageView.SetDynamicColors(true)
	c.stageView.SetTextAlign(tview.AlignCenter)
	c.stageView.SetBackgroundColor(tcell.ColorBlack)

	c.stripView = tview.NewTextView()
	c.stripView.SetDynamicColors(true)
	c.stripView.SetTextAlign(tview.AlignCenter)
	c.stripView.SetBackgroundColor(tcell.ColorBlack)

	c.notifView = tview.NewTextView()
	c.notifView.SetDynamicColors(true)
	c.notifView.SetTextAlign(tview.AlignLeft)
	c.notifView.SetBackgroundColor(tcell.ColorBlack)

	c.drawer = tview.NewTextView()
	c.drawer.SetDynamicColors(true)
	c.drawer.SetTextAlign(tview.AlignLeft)
	c.drawer.SetBackgroundColor(tcell.ColorBlack)
	c.drawer.SetBorder(true)
	c.drawer.SetTitle(" notifications ")
	c.drawer.SetBorderColor(tcell.ColorDarkCyan)

	c.toolbox = tview.NewTextView()
	c.toolbox.SetDynamicColors(true)
	c.toolbox.SetTextAlign(tview.AlignCenter)
	c.toolbox.SetBackgroundColor(tcell.ColorBlack)

	c.footer = tview.NewTextView()
	c.footer.SetDynamicColors(true)
	c.footer.SetTextAlign(tview.AlignLeft)
	c.footer.SetBackgroundColor(tcell.ColorBlack)

	c.mainCol = tview.NewFlex()
	c.mainCol.SetDirection(tview.FlexRow)
	c.mainCol.SetBackgroundColor(tcell.ColorBlack)

	c.sideCol = tview.NewFlex()
	c.sideCol.SetDirection(tview.FlexRow)
	c.sideCol.SetBackgroundColor(tcell.ColorBlack)

	c.container = tview.NewFlex()
	c.container.SetDirection(tview.FlexColumn)
	c.container.SetBackgroundColor(tcell.ColorBlack)

	c.rebuildLayout()
	c.redrawHeader()
	c.redrawToolbox()
	c.redrawFooter()
}

// rebuildLayout re-mounts the flex tree for the current view model.
// Must be called from the tview event loop.
func (c *ConferenceView) rebuildLayout() {
	c.mainCol.Clear()
	c.sideCol.Clear()
	c.container.Clear()

	c.mainCol.AddItem(c.header, 3, 0, false)

	if c.vm.NotificationPlacement == models.PlacementInline {
		c.mainCol.AddItem(c.notifView, 1, 0, false)
	}

	switch {
	case c.vm.LayoutClassName == models.LayoutTileView.String():
		// One grid, no separate strip.
		c.mainCol.AddItem(c.stageView, 0, 1, false)
	case c.vm.LayoutClassName == models.LayoutVerticalFilmstrip.String():
		// Stage in the main column, thumbnails in a side column.
		c.mainCol.AddItem(c.stageView, 0, 1, false)
		c.sideCol.AddItem(c.stripView, 0, 1, false)
	default: // horizontal-filmstrip
		c.mainCol.AddItem(c.stageView, 0, 1, false)
		c.mainCol.AddItem(c.stripView, 4, 0, false)
	}

	if c.toolboxVisible {
		c.mainCol.AddItem(c.toolbox, 1, 0, false)
	}
	c.mainCol.AddItem(c.footer, 1, 0, false)

	c.container.AddItem(c.mainCol, 0, 1, false)

	needSide := c.vm.LayoutClassName == models.LayoutVerticalFilmstrip.String()
	if c.vm.NotificationPlacement == models.PlacementOverlay {
		c.sideCol.AddItem(c.drawer, 0, 1, false)
		needSide = true
	}
	if needSide {
		c.container.AddItem(c.sideCol, 26, 0, false)
	}
}

// ── View model ────────────────────────────────────────────────────────────

// Apply re-renders the conference for a new view model.
// Safe to call from any goroutine.
func (c *ConferenceView) Apply(vm models.ScreenViewModel) {
	if atomic.LoadInt32(&c.stopped) == 1 {
		return
	}
	c.app.QueueUpdateDraw(func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.vm = vm
		c.rebuildLayout()
		c.redrawAll()
	})
}

// SetParticipants replaces the filmstrip contents.
// Safe to call from any goroutine.
func (c *ConferenceView) SetParticipants(ps []*models.Participant) {
	if atomic.LoadInt32(&c.stopped) == 1 {
		return
	}
	c.app.QueueUpdateDraw(func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.participants = ps
		c.redrawStage()
		c.redrawHeader()
	})
}

// SetNotifications replaces the notification area contents.
// Safe to call from any goroutine.
func (c *ConferenceView) SetNotifications(ns []*models.Notification) {
	if atomic.LoadInt32(&c.stopped) == 1 {
		return
	}
	c.app.QueueUpdateDraw(func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.notifications = ns
		c.redrawNotifications()
	})
}

// ── Rendering ─────────────────────────────────────────────────────────────

func (c *ConferenceView) redrawAll() {
	c.redrawHeader()
	c.redrawStage()
	c.redrawNotifications()
	c.redrawToolbox()
	c.redrawFooter()
}

// sanitize escapes raw display names for safe rendering inside a
// TextView with SetDynamicColors(true). tview treats anything
// matching `[word]` as a color/style tag; an unmatched `[` sequence
// can panic the renderer, which recover() cannot catch.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "[", "[[]")
}

// tile renders one participant thumbnail line.
func tile(p *models.Participant) string {
	color := p.Color
	if color == "" {
		color = "[white]"
	}
	name := sanitize(p.DisplayName)
	if p.IsLocal {
		name += " (you)"
	}

	marks := ""
	if p.AudioMuted {
		marks += " [red]∅mic[-]"
	}
	if p.VideoMuted {
		marks += " [red]∅cam[-]"
	}
	if p.RaisedHand {
		marks += " [yellow]✋[-]"
	}
	if p.Pinned {
		marks += " [cyan]⚲[-]"
	}

	return fmt.Sprintf("%s▣ %s[-]%s", color, name, marks)
}

// redrawStage paints the stage and strip for the active layout.
// Must be called from within the tview event loop.
func (c *ConferenceView) redrawStage() {
	if len(c.participants) == 0 {
		c.stageView.SetText("\n\n[dim]You are the only one here.[-]")
		c.stripView.SetText("")
		return
	}

	switch c.vm.LayoutClassName {
	case models.LayoutTileView.String():
		c.stageView.SetText(c.renderTileGrid())
		c.stripView.SetText("")

	default:
		// Filmstrip layouts: one participant on stage, the rest in
		// the strip. The stage filmstrip variant keeps the strip
		// visible even while someone is pinned.
		stage := c.stageParticipant()
		var strip []string
		for _, p := range c.participants {
			if p == stage && !c.vm.ShowStageFilmstrip {
				continue
			}
			strip = append(strip, tile(p))
		}

		c.stageView.SetText("\n\n" + bigTile(stage))
		sep := "   "
		if c.vm.LayoutClassName == models.LayoutVerticalFilmstrip.String() {
			sep = "\n"
		}
		c.stripView.SetText(strings.Join(strip, sep))
	}
}

// stageParticipant picks who is on stage: the pinned participant, or
// the first remote one, or the local one alone.
func (c *ConferenceView) stageParticipant() *models.Participant {
	for _, p := range c.participants {
		if p.Pinned {
			return p
		}
	}
	for _, p := range c.participants {
		if !p.IsLocal {
			return p
		}
	}
	return c.participants[0]
}

// bigTile renders the stage participant as a boxed block.
func bigTile(p *models.Participant) string {
	color := p.Color
	if color == "" {
		color = "[white]"
	}
	name := sanitize(p.DisplayName)
	if p.IsLocal {
		name += " (you)"
	}
	width := len(name) + 6
	top := "┌" + strings.Repeat("─", width) + "┐"
	bottom := "└" + strings.Repeat("─", width) + "┘"
	return fmt.Sprintf("%s%s\n│   %s   │\n%s[-]\n%s",
		color, top, name, bottom, tile(p))
}

func (c *ConferenceView) renderTileGrid() string {
	var b strings.Builder
	b.WriteString("\n")
	// Three tiles per row keeps the grid readable at the minimum
	// tile-view terminal width.
	for i, p := range c.participants {
		if i > 0 && i%3 == 0 {
			b.WriteString("\n\n")
		} else if i > 0 {
			b.WriteString("      ")
		}
		b.WriteString(tile(p))
	}
	return b.String()
}

// redrawNotifications paints either the inline banner or the drawer,
// depending on placement. Must be called from the tview event loop.
func (c *ConferenceView) redrawNotifications() {
	switch c.vm.NotificationPlacement {
	case models.PlacementInline:
		// Inline: only the newest notification fits the banner line.
		if len(c.notifications) == 0 {
			c.notifView.SetText("")
			return
		}
		last := c.notifications[len(c.notifications)-1]
		c.notifView.SetText(fmt.Sprintf("%s▸ %s[-]", severityTag(last.Severity), sanitize(last.Text)))

	case models.PlacementOverlay:
		var b strings.Builder
		for _, n := range c.notifications {
			fmt.Fprintf(&b, "[dim]%s[-] %s%s[-]\n", n.FormatTime(), severityTag(n.Severity), sanitize(n.Text))
		}
		c.drawer.SetText(b.String())

	default:
		c.notifView.SetText("")
		c.drawer.SetText("")
	}
}

func severityTag(s models.Severity) string {
	switch s {
	case models.SeverityWarning:
		return "[yellow]"
	case models.SeverityError:
		return "[red]"
	default:
		return "[green]"
	}
}

// ── Toolbox ───────────────────────────────────────────────────────────────

// Activity reports user input activity (mouse move, key press). The
// leading-edge limiter makes sure a flood of events reveals the
// toolbox at most once per configured interval; the auto-hide timer
// still resets on every allowed call.
// Safe to call from any goroutine.
func (c *ConferenceView) Activity() {
	if atomic.LoadInt32(&c.stopped) == 1 {
		return
	}
	if !c.reveal.Allow() {
		return
	}
	c.app.QueueUpdateDraw(func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.showToolbox()
	})
}

// showToolbox makes the toolbox visible and (re)arms the auto-hide
// timer. Must be called from the tview event loop.
func (c *ConferenceView) showToolbox() {
	if !c.toolboxVisible {
		c.toolboxVisible = true
		c.rebuildLayout()
	}
	if c.toolboxTimer != nil {
		c.toolboxTimer.Stop()
	}
	c.toolboxTimer = time.AfterFunc(toolboxAutoHide, func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.app.QueueUpdateDraw(func() {
			if atomic.LoadInt32(&c.stopped) == 1 {
				return
			}
			c.toolboxVisible = false
			c.rebuildLayout()
		})
	})
}

func (c *ConferenceView) redrawToolbox() {
	mic := "[green]mic on[-]"
	if c.audioMuted {
		mic = "[red]mic off[-]"
	}
	cam := "[green]cam on[-]"
	if c.videoMuted {
		cam = "[red]cam off[-]"
	}
	hand := ""
	if c.handRaised {
		hand = "  [yellow]✋ raised[-]"
	}
	c.toolbox.SetText(fmt.Sprintf(
		"[m] %s   [c] %s   [t] tile view   [r] raise hand   [p] pin   [q] leave%s",
		mic, cam, hand,
	))
}

// HandleKey routes a toolbox key press. Returns true when consumed.
// Must be called from the tview event loop (input capture).
func (c *ConferenceView) HandleKey(r rune) bool {
	switch r {
	case 'm':
		c.audioMuted = !c.audioMuted
		c.onCommand("mute")
	case 'c':
		c.videoMuted = !c.videoMuted
		c.onCommand("camera")
	case 't':
		c.onCommand("tile-view")
	case 'r':
		c.handRaised = !c.handRaised
		c.onCommand("raise-hand")
	case 'p':
		c.onCommand("pin")
	case 'q':
		c.onCommand("quit")
	default:
		return false
	}
	c.redrawToolbox()
	c.showToolbox()
	return true
}

// ── Header / footer ───────────────────────────────────────────────────────

func (c *ConferenceView) startClockTicker() {
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if atomic.LoadInt32(&c.stopped) == 1 {
				return
			}
			c.app.QueueUpdateDraw(func() {
				if atomic.LoadInt32(&c.stopped) == 1 {
					return
				}
				c.redrawHeader()
			})
		}
	}()
}

// redrawHeader repaints the header content.
// Layout:  [room]  HH:MM:SS  @name  N participants    ●ONLINE  LATENCY:Xms
// Must be called from within the tview event loop.
func (c *ConferenceView) redrawHeader() {
	clock := time.Now().Format("15:04:05")

	onlineStr := "[red]●OFFLINE[-]"
	if c.online {
		onlineStr = "[green]●ONLINE[-]"
	}

	userStr := ""
	if c.displayName != "" {
		userStr = fmt.Sprintf("  [yellow]@%s[-]", sanitize(c.displayName))
	}

	latencyStr := "[dim]LATENCY:--ms[-]"
	if c.latency >= 0 {
		latencyStr = fmt.Sprintf("[dim]LATENCY:%dms[-]", c.latency)
	}

	c.header.SetText(fmt.Sprintf(
		"[cyan][[]%s][-]  [dim]%s[-]%s  [dim]%d in call[-]    %s  %s",
		sanitize(c.roomName), clock, userStr, len(c.participants), onlineStr, latencyStr,
	))
}

// redrawFooter shows the active layout class, mirroring the CSS class
// the web client would put on its container.
func (c *ConferenceView) redrawFooter() {
	c.footer.SetText(fmt.Sprintf(
		"[magenta]IN CALL[white]    Meet Terminal    [dim]layout:%s[-]",
		c.vm.LayoutClassName,
	))
}

// SetCurrentUser pushes the local display name to the header.
// Must be called from the tview event loop.
func (c *ConferenceView) SetCurrentUser(name string) {
	c.displayName = name
	c.redrawHeader()
}

// SetOnlineStatus updates the ●ONLINE/●OFFLINE indicator.
// Safe to call from any goroutine.
func (c *ConferenceView) SetOnlineStatus(online bool) {
	if atomic.LoadInt32(&c.stopped) == 1 {
		return
	}
	c.app.QueueUpdateDraw(func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.online = online
		c.redrawHeader()
	})
}

// UpdateLatency updates the latency shown in the header.
// Safe to call from any goroutine.
func (c *ConferenceView) UpdateLatency(ms int) {
	if atomic.LoadInt32(&c.stopped) == 1 {
		return
	}
	c.app.QueueUpdateDraw(func() {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}
		c.latency = ms
		c.redrawHeader()
	})
}

// SetBackgroundColor recolors the conference surfaces. The shell uses
// this to apply the composited background alpha to the view and its
// parent container, both of which the compositor adjusts together.
// Must be called from the tview event loop (or before Run).
func (c *ConferenceView) SetBackgroundColor(color tcell.Color) {
	c.container.SetBackgroundColor(color)
	c.mainCol.SetBackgroundColor(color)
	c.sideCol.SetBackgroundColor(color)
	c.stageView.SetBackgroundColor(color)
	c.stripView.SetBackgroundColor(color)
}

// Stop halts the ticker goroutine and drops all further updates.
func (c *ConferenceView) Stop() {
	atomic.StoreInt32(&c.stopped, 1)
	if c.toolboxTimer != nil {
		c.toolboxTimer.Stop()
	}
}
