package signaling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// ── Wire types — matching the backend API exactly ─────────────────────────────

// joinRequest mirrors POST /api/join body.
type joinRequest struct {
	AccessKey   string `json:"access_key"`
	ClientID    string `json:"client_id"`
	Room        string `json:"room"`
	DisplayName string `json:"display_name"`
}

// joinResponse mirrors the POST /api/join success response.
// Status is "admitted" when the client may enter the conference
// directly, "lobby" when a moderator must admit it first.
type joinResponse struct {
	Status string `json:"status"`
}

// Event is one entry from the GET /api/events array.
type Event struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ParticipantID string    `json:"participant_id,omitempty"`
	DisplayName   string    `json:"display_name,omitempty"`
	Color         string    `json:"color,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Event types the backend emits.
const (
	EventAdmitted          = "admitted"
	EventParticipantJoined = "participant-joined"
	EventParticipantLeft   = "participant-left"
)

// parseEvents parses the raw JSON array from /api/events, skipping
// malformed entries rather than failing the whole batch.
func parseEvents(data []byte) ([]Event, error) {
	var raw []Event
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse events array: %w", err)
	}

	events := make([]Event, 0, len(raw))
	for _, evt := range raw {
		if evt.ID == "" || evt.Type == "" {
			log.Printf("Client: skipping malformed event (id=%s type=%s)", evt.ID, evt.Type)
			continue
		}
		events = append(events, evt)
	}
	return events, nil
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Callbacks are invoked from the client's goroutines; callers that
// update the UI must schedule via app.QueueUpdateDraw themselves.
type Callbacks struct {
	OnStatusChange      func(connected bool, msg string)
	OnAdmitted          func()
	OnParticipantJoined func(id, displayName, color string)
	OnParticipantLeft   func(id string)
}

// ── Client ────────────────────────────────────────────────────────────────────

// Client handles all HTTP communication with the conference backend:
// joining a room and long-polling its presence events.
//
// Concurrency:
//   - Join is synchronous and should run off the UI event loop.
//   - pollLoop runs in a dedicated goroutine started by Start().
type Client struct {
	serverURL string
	room      string
	token     string
	clientID  string // unique per session, sent with every request

	httpClient *http.Client
	stopped    int32 // atomic: 1 = shut down
	stopCh     chan struct{}

	lastIDMu sync.Mutex
	lastID   string // cursor for incremental polling

	cb Callbacks
}

// NewClient creates a Client ready to Join and Start.
func NewClient(serverURL, room, token string, cb Callbacks) *Client {
	return &Client{
		serverURL: serverURL,
		room:      room,
		token:     token,
		clientID:  generateClientID(),
		// Timeout must exceed the server's long-poll window.
		// Backend holds requests for up to 30s → we use 40s.
		httpClient: &http.Client{Timeout: 40 * time.Second},
		stopCh:     make(chan struct{}),
		cb:         cb,
	}
}

// generateClientID produces a random session identifier.
func generateClientID() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("client_%d", r.Int63n(1_000_000_000))
}

// ── Public API ────────────────────────────────────────────────────────────────

// Join announces this client to the room. It returns true when the
// backend admitted us directly, false when we were parked in the
// lobby (an EventAdmitted will arrive later through the poll loop).
func (c *Client) Join(displayName string) (bool, error) {
	body := joinRequest{
		AccessKey:   c.token,
		ClientID:    c.clientID,
		Room:        c.room,
		DisplayName: displayName,
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return false, fmt.Errorf("marshal join: %w", err)
	}

	resp, err := c.httpClient.Post(
		c.serverURL+"/api/join",
		"application/json",
		bytes.NewReader(bodyJSON),
	)
	if err != nil {
		return false, fmt.Errorf("POST /api/join: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return false, fmt.Errorf("server rejected room token")
	case http.StatusOK, http.StatusCreated:
		var jr joinResponse
		if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
			return false, fmt.Errorf("decode join response: %w", err)
		}
		return jr.Status == "admitted", nil
	default:
		raw, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("join HTTP %d: %.120s", resp.StatusCode, raw)
	}
}

// Start begins the long-polling event loop. Call Stop() to shut it down.
func (c *Client) Start() {
	go c.pollLoop()
}

// Stop shuts down the client cleanly. Idempotent.
func (c *Client) Stop() {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
}

// Leave notifies the backend we are gone, best effort, then stops.
func (c *Client) Leave() {
	if atomic.LoadInt32(&c.stopped) == 0 {
		body, _ := json.Marshal(joinRequest{
			AccessKey: c.token,
			ClientID:  c.clientID,
			Room:      c.room,
		})
		resp, err := c.httpClient.Post(
			c.serverURL+"/api/leave", "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("Client: POST /api/leave: %v", err)
		} else {
			resp.Body.Close()
		}
	}
	c.Stop()
}

// ── Receive (long poll) ───────────────────────────────────────────────────────

func (c *Client) pollLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Client.pollLoop panic: %v", r)
		}
	}()

	backoff := 1 * time.Second
	const maxBackoff = 30 * time.Second
	firstConnect := true
	wasConnected := false

	for {
		if atomic.LoadInt32(&c.stopped) == 1 {
			return
		}

		events, err := c.poll()
		if err != nil {
			log.Printf("Client: poll: %v", err)
			if firstConnect {
				c.notifyStatus(false, fmt.Sprintf(
					"Cannot reach conference backend at %s", c.serverURL))
			} else if wasConnected {
				c.notifyStatus(false, fmt.Sprintf(
					"Connection lost, reconnecting in %v", backoff))
			}
			wasConnected = false

			select {
			case <-c.stopCh:
				return
			case <-time.After(backoff):
			}
			backoff = minDuration(backoff*2, maxBackoff)
			continue
		}

		// Successful poll.
		if firstConnect || !wasConnected {
			c.notifyStatus(true, fmt.Sprintf("Connected to %s", c.serverURL))
		}
		backoff = 1 * time.Second
		firstConnect = false
		wasConnected = true

		for _, evt := range events {
			c.dispatch(evt)
		}

		// 204 No Content means no new events; brief pause before next poll.
		if events == nil {
			select {
			case <-c.stopCh:
				return
			case <-time.After(500 * time.Millisecond):
			}
		}
	}
}

// poll performs one GET /api/events.
// Returns (nil, nil) on 204 No Content (nothing new).
// Returns ([]Event, nil) on success.
// Returns (nil, error) on any failure.
func (c *Client) poll() ([]Event, error) {
	c.lastIDMu.Lock()
	lastID := c.lastID
	c.lastIDMu.Unlock()

	params := url.Values{}
	params.Set("access_key", c.token)
	params.Set("client_id", c.clientID)
	params.Set("room", c.room)
	if lastID != "" {
		params.Set("last_id", lastID)
	}

	req, err := http.NewRequest(http.MethodGet,
		c.serverURL+"/api/events?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil // no new events

	case http.StatusUnauthorized:
		return nil, fmt.Errorf("server rejected room token")

	case http.StatusOK:
		rawBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read events body: %w", err)
		}
		events, err := parseEvents(rawBody)
		if err != nil {
			return nil, err
		}
		if len(events) > 0 {
			c.lastIDMu.Lock()
			c.lastID = events[len(events)-1].ID
			c.lastIDMu.Unlock()
		}
		return events, nil

	default:
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected HTTP %d: %.120s", resp.StatusCode, raw)
	}
}

// dispatch routes one event to the matching callback.
func (c *Client) dispatch(evt Event) {
	switch evt.Type {
	case EventAdmitted:
		if c.cb.OnAdmitted != nil {
			c.cb.OnAdmitted()
		}
	case EventParticipantJoined:
		if c.cb.OnParticipantJoined != nil {
			c.cb.OnParticipantJoined(evt.ParticipantID, evt.DisplayName, evt.Color)
		}
	case EventParticipantLeft:
		if c.cb.OnParticipantLeft != nil {
			c.cb.OnParticipantLeft(evt.ParticipantID)
		}
	default:
		log.Printf("Client: ignoring unknown event type %q (id=%s)", evt.Type, evt.ID)
	}
}

func (c *Client) notifyStatus(connected bool, msg string) {
	if c.cb.OnStatusChange != nil {
		c.cb.OnStatusChange(connected, msg)
	}
}

// ── Startup connectivity check ────────────────────────────────────────────────

// CheckServerConnectivity probes GET /health with a 3-second timeout.
// This intentionally does NOT check general internet access: if the
// backend is unreachable the client falls back to demo mode or exits,
// regardless of whether the user has internet connectivity.
func CheckServerConnectivity(serverURL string) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		return fmt.Errorf("conference backend not available at %s: %w", serverURL, err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("conference backend returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
