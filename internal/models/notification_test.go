package models

import (
	"fmt"
	"testing"
	"time"
)

func TestNotificationIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := NewNotification("hello", SeverityInfo)
		if seen[n.ID] {
			t.Fatalf("duplicate notification ID %q", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestBufferBounded(t *testing.T) {
	nb := NewNotificationBuffer(3, time.Minute)
	defer nb.Close()

	for i := 0; i < 10; i++ {
		nb.Add(NewNotification(fmt.Sprintf("n%d", i), SeverityInfo))
	}

	if nb.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", nb.Len())
	}

	active := nb.Active()
	if active[0].Text != "n7" || active[2].Text != "n9" {
		t.Errorf("kept %q..%q, want the newest three", active[0].Text, active[2].Text)
	}
}

func TestActiveSkipsExpired(t *testing.T) {
	nb := NewNotificationBuffer(10, time.Minute)
	defer nb.Close()

	old := NewNotification("stale", SeverityWarning)
	nb.Add(old)
	old.ExpireAt = time.Now().Add(-time.Second)

	nb.Add(NewNotification("fresh", SeverityInfo))

	active := nb.Active()
	if len(active) != 1 {
		t.Fatalf("Active() returned %d notifications, want 1", len(active))
	}
	if active[0].Text != "fresh" {
		t.Errorf("Active()[0].Text = %q", active[0].Text)
	}
}

func TestDisplayNameColorDeterministic(t *testing.T) {
	a := DisplayNameColor("alice")
	b := DisplayNameColor("alice")
	if a != b {
		t.Errorf("same name gave %q and %q", a, b)
	}
	if a == "" {
		t.Error("color tag must not be empty")
	}
}
