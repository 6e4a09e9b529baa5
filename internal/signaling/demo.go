package signaling

import (
	"log"
	"sync/atomic"
	"time"
)

// SessionFeed is the session subsystem as the shell consumes it:
// either the real backend Client or the scripted Demo.
type SessionFeed interface {
	Join(displayName string) (admitted bool, err error)
	Start()
	Leave()
	Stop()
}

var (
	_ SessionFeed = (*Client)(nil)
	_ SessionFeed = (*Demo)(nil)
)

// Demo is a scripted conference used when no backend is configured,
// so the client runs standalone. It walks through the full session
// shape: lobby hold, admission, participants joining and leaving.
type Demo struct {
	stop      chan struct{}
	stopped   int32 // atomic flag — 1 means stopped
	withLobby bool
	cb        Callbacks
}

// NewDemo creates a demo feed. With withLobby set, Join parks the
// client in the lobby and admission arrives a few seconds later.
func NewDemo(cb Callbacks, withLobby bool) *Demo {
	return &Demo{
		stop:      make(chan struct{}),
		withLobby: withLobby,
		cb:        cb,
	}
}

// Join pretends to announce us to the room.
func (d *Demo) Join(displayName string) (bool, error) {
	return !d.withLobby, nil
}

// Start plays the scripted conference in a background goroutine.
func (d *Demo) Start() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in Demo goroutine: %v", r)
			}
		}()

		if d.cb.OnStatusChange != nil {
			d.cb.OnStatusChange(true, "Connected to demo conference")
		}

		if d.withLobby {
			if !d.sleep(3 * time.Second) {
				return
			}
			if d.cb.OnAdmitted != nil {
				d.cb.OnAdmitted()
			}
		}

		// Colors are wire values, hex or named, exactly as a real
		// backend would send them.
		script := []struct {
			delay time.Duration
			join  bool
			id    string
			name  string
			color string
		}{
			{2 * time.Second, true, "demo-1", "alice", "#ff00ff"},
			{2 * time.Second, true, "demo-2", "bob", "green"},
			{3 * time.Second, true, "demo-3", "carol", "#00ffff"},
			{4 * time.Second, true, "demo-4", "dave", "yellow"},
			{6 * time.Second, false, "demo-2", "", ""},
			{5 * time.Second, true, "demo-5", "erin", "#ffa500"},
		}

		for _, step := range script {
			if !d.sleep(step.delay) {
				return
			}
			if step.join {
				if d.cb.OnParticipantJoined != nil {
					d.cb.OnParticipantJoined(step.id, step.name, step.color)
				}
			} else {
				if d.cb.OnParticipantLeft != nil {
					d.cb.OnParticipantLeft(step.id)
				}
			}
		}
	}()
}

// sleep waits for dt and reports false if the demo was stopped.
func (d *Demo) sleep(dt time.Duration) bool {
	select {
	case <-d.stop:
		return false
	case <-time.After(dt):
		return atomic.LoadInt32(&d.stopped) == 0
	}
}

// Leave stops the script.
func (d *Demo) Leave() {
	d.Stop()
}

// Stop shuts the script down. Idempotent.
func (d *Demo) Stop() {
	// Mark stopped BEFORE closing the channel so the goroutine sees
	// the flag immediately.
	if atomic.CompareAndSwapInt32(&d.stopped, 0, 1) {
		close(d.stop)
	}
}
