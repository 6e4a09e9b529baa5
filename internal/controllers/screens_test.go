package controllers

import (
	"testing"

	"github.com/rivo/tview"

	"github.com/AnhHT/jitsi-meet/internal/models"
)

func newTestController() *ScreenController {
	sc := NewScreenController(tview.NewPages())
	sc.Register(models.ScreenPrejoin, tview.NewBox())
	sc.Register(models.ScreenLobby, tview.NewBox())
	sc.Register(models.ScreenConference, tview.NewBox())
	return sc
}

func TestFirstApplyTransitions(t *testing.T) {
	sc := newTestController()

	entered := false
	sc.OnEnter(models.ScreenPrejoin, func() { entered = true })

	sc.Apply(models.ScreenViewModel{PrimaryScreen: models.ScreenPrejoin})

	if sc.Current() != models.ScreenPrejoin {
		t.Fatalf("Current() = %v, want prejoin", sc.Current())
	}
	if !entered {
		t.Error("OnEnter hook did not fire")
	}
}

func TestTransitionFiresExitThenEnter(t *testing.T) {
	sc := newTestController()

	var order []string
	sc.OnEnter(models.ScreenPrejoin, func() { order = append(order, "enter-prejoin") })
	sc.OnExit(models.ScreenPrejoin, func() { order = append(order, "exit-prejoin") })
	sc.OnEnter(models.ScreenLobby, func() { order = append(order, "enter-lobby") })

	sc.Transition(models.ScreenPrejoin)
	sc.Transition(models.ScreenLobby)

	want := []string{"enter-prejoin", "exit-prejoin", "enter-lobby"}
	if len(order) != len(want) {
		t.Fatalf("hook order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("hook order = %v, want %v", order, want)
		}
	}
}

func TestSameScreenIsNoOp(t *testing.T) {
	sc := newTestController()

	calls := 0
	sc.OnEnter(models.ScreenConference, func() { calls++ })

	sc.Apply(models.ScreenViewModel{PrimaryScreen: models.ScreenConference})
	sc.Apply(models.ScreenViewModel{PrimaryScreen: models.ScreenConference})

	if calls != 1 {
		t.Errorf("enter hook fired %d times, want 1", calls)
	}
}
