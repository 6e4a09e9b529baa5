package models

import "time"

// Participant is one conference member as the filmstrip renders it.
type Participant struct {
	ID          string
	DisplayName string
	Color       string // tview color tag e.g. "[magenta]"
	AudioMuted  bool
	VideoMuted  bool
	RaisedHand  bool
	Pinned      bool
	IsLocal     bool
	JoinedAt    time.Time
}

// NewParticipant creates a participant with the default hash-based color.
func NewParticipant(id, displayName string) *Participant {
	return &Participant{
		ID:          id,
		DisplayName: displayName,
		Color:       DisplayNameColor(displayName),
		JoinedAt:    time.Now(),
	}
}

// DisplayNameColor returns a deterministic tview color tag based on the
// display name hash, so a participant keeps the same color across
// reconnects.
func DisplayNameColor(name string) string {
	tags := []string{
		"[magenta]",
		"[green]",
		"[cyan]",
		"[yellow]",
		"[red]",
		"[blue]",
	}
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	return tags[hash%len(tags)]
}
