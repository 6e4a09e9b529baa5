package views

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// LobbyView is the waiting-room screen: shown after joining a room
// that requires a moderator to admit the participant.
type LobbyView struct {
	app        *tview.Application
	container  *tview.Flex
	pulseText  *tview.TextView
	statusText *tview.TextView
	errorText  *tview.TextView // shown only on fatal error

	pulsing   int32 // atomic: 1 = pulse ticker running
	pulseStop chan struct{}
	waitStart time.Time
}

// NewLobbyView creates the lobby screen.
func NewLobbyView(app *tview.Application) *LobbyView {
	l := &LobbyView{app: app}
	l.buildUI()
	return l
}

func (l *LobbyView) buildUI() {
	logoText := tview.NewTextView()
	logoText.SetDynamicColors(true)
	logoText.SetTextAlign(tview.AlignCenter)
	logoText.SetText(
		"[cyan]╔═══════════════════════════════════════╗\n" +
			"║          Meet Terminal  v1.0.0        ║\n" +
			"║        Waiting for the moderator      ║\n" +
			"╚═══════════════════════════════════════╝[-]",
	)

	l.pulseText = tview.NewTextView()
	l.pulseText.SetDynamicColors(true)
	l.pulseText.SetTextAlign(tview.AlignCenter)
	l.pulseText.SetText("[green]●○○○[-]")

	l.statusText = tview.NewTextView()
	l.statusText.SetDynamicColors(true)
	l.statusText.SetTextAlign(tview.AlignCenter)
	l.statusText.SetText("[dim]Asking to join…[-]")

	// errorText is invisible until ShowFatalError is called.
	l.errorText = tview.NewTextView()
	l.errorText.SetDynamicColors(true)
	l.errorText.SetTextAlign(tview.AlignCenter)
	l.errorText.SetText("")
	l.errorText.SetBackgroundColor(tcell.ColorBlack)

	l.container = tview.NewFlex()
	l.container.SetDirection(tview.FlexRow)
	l.container.SetBackgroundColor(tcell.ColorBlack)
	l.container.AddItem(logoText, 0, 1, false)
	l.container.AddItem(tview.NewBox().SetBackgroundColor(tcell.ColorBlack), 1, 0, false)
	l.container.AddItem(l.pulseText, 1, 0, false)
	l.container.AddItem(l.statusText, 1, 0, false)
	l.container.AddItem(tview.NewBox().SetBackgroundColor(tcell.ColorBlack), 1, 0, false)
	l.container.AddItem(l.errorText, 3, 0, false) // 3 lines: gap + error + countdown
}

// Primitive returns the root primitive for page mounting.
func (l *LobbyView) Primitive() tview.Primitive {
	return l.container
}

// StartPulse begins the waiting animation and elapsed counter.
// Called when the lobby screen becomes active.
func (l *LobbyView) StartPulse() {
	if !atomic.CompareAndSwapInt32(&l.pulsing, 0, 1) {
		return
	}
	l.pulseStop = make(chan struct{})
	l.waitStart = time.Now()

	go func() {
		ticker := time.NewTicker(400 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-l.pulseStop:
				return
			case <-ticker.C:
				frame++
				f := frame % 4
				l.app.QueueUpdateDraw(func() {
					l.pulseText.SetText("[green]" + pulseFrame(f) + "[-]")
					l.statusText.SetText(fmt.Sprintf(
						"[dim]Waiting for the moderator to let you in… %s[-]",
						formatElapsed(time.Since(l.waitStart))))
				})
			}
		}
	}()
}

// StopPulse halts the waiting animation. Safe to call twice.
func (l *LobbyView) StopPulse() {
	if atomic.CompareAndSwapInt32(&l.pulsing, 1, 0) {
		close(l.pulseStop)
	}
}

func pulseFrame(f int) string {
	var b strings.Builder
	for i := 0; i < 4; i++ {
		if i == f {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

// SetStatus updates the small status line under the pulse.
// Safe to call from any goroutine.
func (l *LobbyView) SetStatus(text string) {
	l.app.QueueUpdateDraw(func() {
		l.statusText.SetText(fmt.Sprintf("[dim]%s[-]", text))
	})
}

// ShowFatalError replaces the status line with a red error banner.
// Call SetCountdown immediately after to start the countdown ticker.
// Must be called via QueueUpdateDraw (or from within the event loop).
func (l *LobbyView) ShowFatalError(message string) {
	l.pulseText.SetText("[red]████[-]  ERROR")
	l.statusText.SetText("")
	l.errorText.SetText(fmt.Sprintf(
		"[red]✗  %s[-]",
		message,
	))
}

// SetCountdown updates the countdown line inside the error area.
// Must be called via QueueUpdateDraw (or from within the event loop).
func (l *LobbyView) SetCountdown(seconds int) {
	current := l.errorText.GetText(false)
	// Keep only the first line (the error message itself) and replace line 2.
	lines := splitFirstLine(current)
	dots := ""
	for i := 0; i < seconds; i++ {
		dots += "●"
	}
	for i := seconds; i < 4; i++ {
		dots += "○"
	}
	l.errorText.SetText(fmt.Sprintf(
		"%s\n[dim]Exiting in %d second%s…  %s[-]",
		lines, seconds, pluralS(seconds), dots,
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func splitFirstLine(s string) string {
	for i, ch := range s {
		if ch == '\n' {
			return s[:i]
		}
	}
	return s
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
