package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/AnhHT/jitsi-meet/config"
	"github.com/AnhHT/jitsi-meet/internal/colors"
	"github.com/AnhHT/jitsi-meet/internal/controllers"
	"github.com/AnhHT/jitsi-meet/internal/layout"
	"github.com/AnhHT/jitsi-meet/internal/models"
	"github.com/AnhHT/jitsi-meet/internal/signaling"
	"github.com/AnhHT/jitsi-meet/internal/store"
	"github.com/AnhHT/jitsi-meet/internal/views"
)

var logFile *os.File

func init() {
	var err error
	logFile, err = os.Create("error.txt")
	if err != nil {
		fmt.Println("Failed to create error log file:", err)
	}
	if logFile != nil {
		log.SetOutput(logFile)
	}
}

func logError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logLine := fmt.Sprintf("[%s] ERROR: %s\n", timestamp, msg)
	if logFile != nil {
		logFile.WriteString(logLine)
		logFile.Sync()
	}
}

func recoverFromPanic() {
	if r := recover(); r != nil {
		logError("PANIC RECOVERED: %v", r)
	}
}

// probeAddr derives a dialable "host:port" from the backend URL.
func probeAddr(serverURL string) string {
	u, err := url.Parse(serverURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := u.Host
	if !strings.Contains(host, ":") {
		if u.Scheme == "https" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	return host
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			logError("FATAL PANIC in main: %v", r)
			if logFile != nil {
				logFile.Close()
			}
			os.Exit(1)
		}
	}()

	cfg := config.LoadFromEnv()

	app := tview.NewApplication()
	app.EnableMouse(true)
	pages := tview.NewPages()

	initialLayout := models.LayoutHorizontalFilmstrip
	if cfg.TileView {
		initialLayout = models.LayoutTileView
	}
	st := store.New(cfg.Prefs, initialLayout)
	notifications := models.NewNotificationBuffer(cfg.MaxNotifications, cfg.NotificationTTL)

	var feed signaling.SessionFeed
	var probe *signaling.Probe

	// The local participant lives in the store like everyone else; the
	// toolbox toggles go through store mutators under its lock.
	const localID = "local"

	// ── Views ─────────────────────────────────────────────────────────────────

	var conference *views.ConferenceView

	// notify pushes a notification into the bounded buffer and repaints
	// the notification area. Safe from any goroutine (the view queues).
	notify := func(text string, severity models.Severity) {
		notifications.Add(models.NewNotification(text, severity))
		active := notifications.Active()
		go conference.SetNotifications(active)
	}

	// NOTE on goroutines: the store fans mutations out to subscribers
	// synchronously, and subscribers queue UI updates. Mutating the
	// store from inside the tview event loop would therefore deadlock
	// on QueueUpdateDraw, so every mutation triggered by a UI handler
	// is dispatched with `go`.
	lobbyView := views.NewLobbyView(app)
	prejoinView := views.NewPrejoinView(app, func(displayName string, audioMuted, videoMuted bool) {
		go func() {
			defer recoverFromPanic()

			local := models.NewParticipant(localID, displayName)
			local.IsLocal = true
			local.AudioMuted = audioMuted
			local.VideoMuted = videoMuted
			st.AddParticipant(local)

			app.QueueUpdateDraw(func() {
				defer recoverFromPanic()
				conference.SetCurrentUser(displayName)
			})

			admitted, err := feed.Join(displayName)
			if err != nil {
				logError("join: %v", err)

				// Failure path: park on the lobby screen, paint the
				// fatal banner, count down and exit.
				st.SetPrejoinVisible(false)
				st.SetLobbyVisible(true)
				app.QueueUpdateDraw(func() {
					defer recoverFromPanic()
					lobbyView.StopPulse()
					lobbyView.ShowFatalError(
						fmt.Sprintf("Could not join %s: %v", cfg.Room, err))
					lobbyView.SetCountdown(4)
				})
				for i := 3; i >= 0; i-- {
					time.Sleep(1 * time.Second)
					remaining := i
					app.QueueUpdateDraw(func() {
						defer recoverFromPanic()
						lobbyView.SetCountdown(remaining)
					})
				}
				time.Sleep(200 * time.Millisecond)
				app.Stop()
				return
			}

			st.SetPrejoinVisible(false)
			st.SetLobbyVisible(!admitted)
			st.SetConnected(admitted)
			feed.Start()
		}()
	})

	conference = views.NewConferenceView(app, cfg.Room, cfg.Prefs.MouseMoveCallbackInterval,
		func(cmd string) {
			// Runs in the event loop; store work goes to a goroutine.
			switch cmd {
			case "mute":
				go st.ToggleAudioMuted(localID)
			case "camera":
				go st.ToggleVideoMuted(localID)
			case "raise-hand":
				go st.ToggleRaisedHand(localID)
			case "tile-view":
				go func() {
					if st.Layout() == models.LayoutTileView {
						st.SetLayoutMode(models.LayoutHorizontalFilmstrip)
					} else {
						st.SetLayoutMode(models.LayoutTileView)
					}
				}()
			case "pin":
				go func() {
					// Cycle the pin through the remote participants.
					parts := st.Participants()
					var remotes []*models.Participant
					pinnedIdx := -1
					for _, p := range parts {
						if p.IsLocal {
							continue
						}
						if p.Pinned {
							pinnedIdx = len(remotes)
						}
						remotes = append(remotes, p)
					}
					if len(remotes) == 0 {
						return
					}
					next := pinnedIdx + 1
					if next >= len(remotes) {
						st.SetPinned("", false) // unpin everyone
						return
					}
					st.SetPinned(remotes[next].ID, true)
				}()
			case "quit":
				go func() {
					defer recoverFromPanic()
					if feed != nil {
						feed.Leave()
					}
					if probe != nil {
						probe.Stop()
					}
					notifications.Close()
					conference.Stop()
					app.Stop()
				}()
			}
		})

	// ── Session feed ──────────────────────────────────────────────────────────

	cb := signaling.Callbacks{
		OnStatusChange: func(connected bool, msg string) {
			defer recoverFromPanic()
			st.SetConnected(connected)
			conference.SetOnlineStatus(connected)
			severity := models.SeverityInfo
			if !connected {
				severity = models.SeverityWarning
			}
			notify(msg, severity)
		},
		OnAdmitted: func() {
			defer recoverFromPanic()
			st.SetLobbyVisible(false)
			st.SetConnected(true)
			notify("A moderator let you into the meeting", models.SeverityInfo)
		},
		OnParticipantJoined: func(id, displayName, color string) {
			defer recoverFromPanic()
			p := models.NewParticipant(id, displayName)
			if color != "" {
				p.Color = colors.ParseColorToTag(color)
			}
			st.AddParticipant(p)
			notify(fmt.Sprintf("%s joined the meeting", displayName), models.SeverityInfo)
		},
		OnParticipantLeft: func(id string) {
			defer recoverFromPanic()
			name := id
			for _, p := range st.Participants() {
				if p.ID == id {
					name = p.DisplayName
					break
				}
			}
			st.RemoveParticipant(id)
			notify(fmt.Sprintf("%s left the meeting", name), models.SeverityInfo)
		},
	}

	if cfg.ServerURL != "" {
		if err := signaling.CheckServerConnectivity(cfg.ServerURL); err != nil {
			logError("connectivity: %v", err)
			notify(fmt.Sprintf("Backend unreachable, running the demo conference (%v)", err),
				models.SeverityWarning)
			feed = signaling.NewDemo(cb, cfg.DemoLobby)
		} else {
			token := signaling.RoomToken(cfg.Room, cfg.Passphrase)
			feed = signaling.NewClient(cfg.ServerURL, cfg.Room, token, cb)
			if addr := probeAddr(cfg.ServerURL); addr != "" {
				probe = signaling.NewProbe(addr)
				probe.Start(func(ms int) {
					conference.UpdateLatency(ms)
				})
			}
		}
	} else {
		feed = signaling.NewDemo(cb, cfg.DemoLobby)
	}

	// ── Screen wiring ─────────────────────────────────────────────────────────

	ctrl := controllers.NewScreenController(pages)
	ctrl.Register(models.ScreenPrejoin, prejoinView.Primitive())
	ctrl.Register(models.ScreenLobby, lobbyView.Primitive())
	ctrl.Register(models.ScreenConference, conference.Primitive())

	ctrl.OnEnter(models.ScreenPrejoin, func() {
		defer recoverFromPanic()
		prejoinView.StartPrompt(cfg.DisplayName)
		app.SetFocus(prejoinView.Primitive())
	})
	ctrl.OnEnter(models.ScreenLobby, func() {
		defer recoverFromPanic()
		lobbyView.StartPulse()
	})
	ctrl.OnExit(models.ScreenLobby, func() {
		defer recoverFromPanic()
		lobbyView.StopPulse()
	})
	ctrl.OnEnter(models.ScreenConference, func() {
		defer recoverFromPanic()
		app.SetFocus(conference.Primitive())
	})

	st.SubscribeViewModel(func(vm models.ScreenViewModel) {
		// Fires on the mutating goroutine; hop to the event loop.
		go app.QueueUpdateDraw(func() {
			defer recoverFromPanic()
			ctrl.Apply(vm)
		})
		go conference.Apply(vm)
	})

	st.SubscribeParticipants(func(ps []*models.Participant) {
		go conference.SetParticipants(ps)

		hasPinned := false
		for _, p := range ps {
			if p.Pinned {
				hasPinned = true
				break
			}
		}
		go st.SetStageFilmstrip(layout.StageFilmstripVisible(len(ps), hasPinned))
	})

	// ── Background compositing ────────────────────────────────────────────────

	// Conference surface base color. With an alpha preference set, the
	// compositor darkens both the view and its parent container.
	const conferenceBackground = "#101820"
	if cfg.Prefs.BackgroundAlpha >= 0 {
		css, err := colors.SetColorAlpha(conferenceBackground, cfg.Prefs.BackgroundAlpha)
		if err != nil {
			logError("background alpha: %v", err)
		} else {
			log.Printf("Shell: conference background %s", css)
		}
		bg := colors.BlendTowardBlack(conferenceBackground, cfg.Prefs.BackgroundAlpha)
		conference.SetBackgroundColor(bg)
		pages.SetBackgroundColor(bg)
	}

	// ── Input and resize handling ─────────────────────────────────────────────

	// Resize tracking. The before-draw hook runs in the event loop, so
	// layout recalculation goes through a goroutine like every other
	// store mutation. lastW/lastH are only touched in the event loop.
	var lastW, lastH int
	var inResize int32
	app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		w, h := screen.Size()
		if w == lastW && h == lastH {
			return false
		}
		lastW, lastH = w, h
		if atomic.CompareAndSwapInt32(&inResize, 0, 1) {
			go func() {
				defer recoverFromPanic()
				defer atomic.StoreInt32(&inResize, 0)
				tileOn := st.Layout() == models.LayoutTileView
				st.SetLayoutMode(layout.Calculate(w, h, tileOn))
			}()
		}
		return false
	})

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if ctrl.Current() != models.ScreenConference {
			return event
		}
		conference.Activity()
		if event.Key() == tcell.KeyRune && conference.HandleKey(event.Rune()) {
			return nil
		}
		return event
	})

	app.SetMouseCapture(func(event *tcell.EventMouse, action tview.MouseAction) (*tcell.EventMouse, tview.MouseAction) {
		if ctrl.Current() == models.ScreenConference {
			conference.Activity()
		}
		return event, action
	})

	// ── Run ───────────────────────────────────────────────────────────────────

	if err := app.SetRoot(pages, true).Run(); err != nil {
		logError("Application error: %v", err)
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
	}

	if feed != nil {
		feed.Stop()
	}
	if probe != nil {
		probe.Stop()
	}
	if logFile != nil {
		logFile.Close()
	}
}
