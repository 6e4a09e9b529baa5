package signaling

import "testing"

func TestRoomTokenDeterministic(t *testing.T) {
	a := RoomToken("daily-standup", "secret")
	b := RoomToken("daily-standup", "secret")
	if a != b {
		t.Errorf("same inputs produced %q and %q", a, b)
	}
	if a == "" {
		t.Error("token must not be empty")
	}
}

func TestRoomTokenDistinct(t *testing.T) {
	base := RoomToken("daily-standup", "secret")
	if RoomToken("retro", "secret") == base {
		t.Error("different rooms must not share a token")
	}
	if RoomToken("daily-standup", "other") == base {
		t.Error("different passphrases must not share a token")
	}
}
