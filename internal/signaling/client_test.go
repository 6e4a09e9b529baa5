package signaling

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseEvents(t *testing.T) {
	raw := `[
		{"id":"e1","type":"participant-joined","participant_id":"p1","display_name":"alice","color":"#ff00ff"},
		{"id":"","type":"participant-joined","participant_id":"p2"},
		{"id":"e3","type":"admitted"}
	]`

	events, err := parseEvents([]byte(raw))
	if err != nil {
		t.Fatalf("parseEvents: %v", err)
	}
	// The entry without an ID is malformed and must be skipped.
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventParticipantJoined || events[0].DisplayName != "alice" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Type != EventAdmitted {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestParseEventsBadJSON(t *testing.T) {
	if _, err := parseEvents([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		wantAdmitted bool
	}{
		{"admitted directly", "admitted", true},
		{"parked in lobby", "lobby", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/join" {
					t.Errorf("path = %s", r.URL.Path)
				}
				var req joinRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode join body: %v", err)
				}
				if req.Room != "standup" || req.DisplayName != "alice" || req.AccessKey != "tok" {
					t.Errorf("join body = %+v", req)
				}
				json.NewEncoder(w).Encode(joinResponse{Status: tt.status})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "standup", "tok", Callbacks{})
			admitted, err := c.Join("alice")
			if err != nil {
				t.Fatalf("Join: %v", err)
			}
			if admitted != tt.wantAdmitted {
				t.Errorf("admitted = %v, want %v", admitted, tt.wantAdmitted)
			}
		})
	}
}

func TestJoinUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "standup", "bad", Callbacks{})
	if _, err := c.Join("alice"); err == nil {
		t.Fatal("expected error on 401")
	}
}

func TestPollAdvancesCursor(t *testing.T) {
	var lastIDSeen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastIDSeen = r.URL.Query().Get("last_id")
		json.NewEncoder(w).Encode([]Event{
			{ID: "e1", Type: EventParticipantJoined, ParticipantID: "p1", DisplayName: "bob"},
			{ID: "e2", Type: EventParticipantLeft, ParticipantID: "p1"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "standup", "tok", Callbacks{})

	events, err := c.poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if lastIDSeen != "" {
		t.Errorf("first poll sent last_id=%q, want empty", lastIDSeen)
	}

	if _, err := c.poll(); err != nil {
		t.Fatalf("second poll: %v", err)
	}
	if lastIDSeen != "e2" {
		t.Errorf("second poll sent last_id=%q, want e2", lastIDSeen)
	}
}

func TestPollNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "standup", "tok", Callbacks{})
	events, err := c.poll()
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if events != nil {
		t.Errorf("204 must return nil events, got %v", events)
	}
}

func TestDispatch(t *testing.T) {
	var joined, left, admitted int
	c := NewClient("http://unused", "standup", "tok", Callbacks{
		OnAdmitted:          func() { admitted++ },
		OnParticipantJoined: func(id, name, color string) { joined++ },
		OnParticipantLeft:   func(id string) { left++ },
	})

	c.dispatch(Event{ID: "e1", Type: EventAdmitted})
	c.dispatch(Event{ID: "e2", Type: EventParticipantJoined, ParticipantID: "p1"})
	c.dispatch(Event{ID: "e3", Type: EventParticipantLeft, ParticipantID: "p1"})
	c.dispatch(Event{ID: "e4", Type: "unknown-type"}) // logged and ignored

	if admitted != 1 || joined != 1 || left != 1 {
		t.Errorf("admitted=%d joined=%d left=%d, want 1 each", admitted, joined, left)
	}
}
