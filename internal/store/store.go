// Package store holds the client's application state and re-derives
// the screen view model on every mutation, fanning changes out to
// subscribers. It plays the role the global state container played in
// the web client, but handed to the shell explicitly instead of being
// an ambient global.
package store

import (
	"log"
	"sort"
	"sync"

	"github.com/AnhHT/jitsi-meet/internal/models"
	"github.com/AnhHT/jitsi-meet/internal/viewmodel"
)

// Store is safe for concurrent use. View-model subscribers are only
// invoked when the derived ScreenViewModel actually changed, so
// callers never re-render for no-op mutations.
type Store struct {
	mu sync.RWMutex

	session        models.SessionState
	prefs          models.UiPreferences
	layout         models.LayoutMode
	stageFilmstrip bool

	participants map[string]*models.Participant

	vm    models.ScreenViewModel
	hasVM bool

	nextSubID int
	vmSubs    map[int]func(models.ScreenViewModel)
	partSubs  map[int]func([]*models.Participant)
}

// New creates a store seeded with preferences and an initial layout.
// The session starts on the prejoin screen, disconnected.
func New(prefs models.UiPreferences, layout models.LayoutMode) *Store {
	s := &Store{
		session:      models.SessionState{IsPrejoinVisible: true},
		prefs:        prefs,
		layout:       layout,
		participants: make(map[string]*models.Participant),
		vmSubs:       make(map[int]func(models.ScreenViewModel)),
		partSubs:     make(map[int]func([]*models.Participant)),
	}
	s.mu.Lock()
	s.rederiveLocked()
	s.mu.Unlock()
	return s
}

// ── Subscriptions ─────────────────────────────────────────────────────

// SubscribeViewModel registers fn to run whenever the derived view
// model changes. It fires once immediately with the current value.
// Returns an unsubscribe func.
func (s *Store) SubscribeViewModel(fn func(models.ScreenViewModel)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.vmSubs[id] = fn
	current := s.vm
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.vmSubs, id)
		s.mu.Unlock()
	}
}

// SubscribeParticipants registers fn to run whenever the participant
// set changes. Returns an unsubscribe func.
func (s *Store) SubscribeParticipants(fn func([]*models.Participant)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.partSubs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.partSubs, id)
		s.mu.Unlock()
	}
}

// ── Snapshots ─────────────────────────────────────────────────────────

// ViewModel returns the last derived screen view model.
func (s *Store) ViewModel() models.ScreenViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm
}

// Session returns the current session snapshot.
func (s *Store) Session() models.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// Preferences returns the current UI preferences.
func (s *Store) Preferences() models.UiPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// Layout returns the current layout mode.
func (s *Store) Layout() models.LayoutMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout
}

// Participants returns the participants, local first, then by join time.
func (s *Store) Participants() []*models.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.participantsLocked()
}

// ParticipantCount returns the number of participants.
func (s *Store) ParticipantCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants)
}

// ── Mutations ─────────────────────────────────────────────────────────

// SetPrejoinVisible updates the prejoin flag.
func (s *Store) SetPrejoinVisible(v bool) {
	s.mutate(func() { s.session.IsPrejoinVisible = v })
}

// SetLobbyVisible updates the lobby flag.
func (s *Store) SetLobbyVisible(v bool) {
	s.mutate(func() { s.session.IsLobbyVisible = v })
}

// SetConnected updates the connection flag.
func (s *Store) SetConnected(v bool) {
	s.mutate(func() { s.session.IsConnected = v })
}

// SetLayoutMode updates the layout mode.
func (s *Store) SetLayoutMode(m models.LayoutMode) {
	s.mutate(func() { s.layout = m })
}

// SetStageFilmstrip updates the stage-filmstrip predicate result.
func (s *Store) SetStageFilmstrip(v bool) {
	s.mutate(func() { s.stageFilmstrip = v })
}

// SetPreferences replaces the UI preferences wholesale.
func (s *Store) SetPreferences(p models.UiPreferences) {
	s.mutate(func() { s.prefs = p })
}

// AddParticipant inserts or replaces a participant. The store keeps
// its own copy; later changes to the caller's value are not seen.
func (s *Store) AddParticipant(p *models.Participant) {
	cp := *p
	s.mutateParticipants(func() { s.participants[cp.ID] = &cp })
}

// RemoveParticipant deletes a participant by ID.
func (s *Store) RemoveParticipant(id string) {
	s.mutateParticipants(func() { delete(s.participants, id) })
}

// ToggleAudioMuted flips a participant's microphone state.
func (s *Store) ToggleAudioMuted(id string) {
	s.mutateParticipants(func() {
		if p, ok := s.participants[id]; ok {
			p.AudioMuted = !p.AudioMuted
		}
	})
}

// ToggleVideoMuted flips a participant's camera state.
func (s *Store) ToggleVideoMuted(id string) {
	s.mutateParticipants(func() {
		if p, ok := s.participants[id]; ok {
			p.VideoMuted = !p.VideoMuted
		}
	})
}

// ToggleRaisedHand flips a participant's raised-hand state.
func (s *Store) ToggleRaisedHand(id string) {
	s.mutateParticipants(func() {
		if p, ok := s.participants[id]; ok {
			p.RaisedHand = !p.RaisedHand
		}
	})
}

// SetPinned pins or unpins a participant. Pinning one participant
// unpins the others.
func (s *Store) SetPinned(id string, pinned bool) {
	s.mutateParticipants(func() {
		for pid, p := range s.participants {
			p.Pinned = pinned && pid == id
		}
	})
}

// ── Internals ─────────────────────────────────────────────────────────

// mutate applies fn under the lock, re-derives the view model and
// notifies subscribers outside the lock if it changed.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	changed := s.rederiveLocked()
	vm := s.vm
	var subs []func(models.ScreenViewModel)
	if changed {
		subs = make([]func(models.ScreenViewModel), 0, len(s.vmSubs))
		for _, sub := range s.vmSubs {
			subs = append(subs, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(vm)
	}
}

func (s *Store) mutateParticipants(fn func()) {
	s.mu.Lock()
	fn()
	parts := s.participantsLocked()
	subs := make([]func([]*models.Participant), 0, len(s.partSubs))
	for _, sub := range s.partSubs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(parts)
	}
}

// rederiveLocked recomputes the view model and reports whether it
// changed. Caller holds the write lock.
func (s *Store) rederiveLocked() bool {
	vm, err := viewmodel.Resolve(s.session, s.prefs, s.layout, s.stageFilmstrip)
	if err != nil {
		// Unreachable with the closed LayoutMode enum; keep the old
		// view model rather than flashing an empty screen.
		log.Printf("Store: resolve failed: %v", err)
		return false
	}
	if s.hasVM && vm == s.vm {
		return false
	}
	s.vm = vm
	s.hasVM = true
	return true
}

// participantsLocked snapshots the participants as fresh copies, so
// readers never share memory with the store's own entries and cannot
// race with later mutations.
func (s *Store) participantsLocked() []*models.Participant {
	result := make([]*models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		cp := *p
		result = append(result, &cp)
	}
	// Local participant first, then join order, then ID for stability.
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.IsLocal != b.IsLocal {
			return a.IsLocal
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.ID < b.ID
	})
	return result
}
