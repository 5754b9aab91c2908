package imageurl

import (
	"testing"
	"time"
)

func TestCoordinator_WakeBeforeActivationIsNoop(t *testing.T) {
	c := NewCoordinator()
	fired := 0
	c.Subscribe(func() { fired++ })

	if c.Wake() {
		t.Error("Wake before any signed resolution should not broadcast")
	}
	if fired != 0 {
		t.Errorf("subscriber fired %d times, want 0", fired)
	}
}

func TestCoordinator_StaleWakeBroadcastsOnce(t *testing.T) {
	base := time.Unix(1700000000, 0)
	now := base

	c := NewCoordinator()
	c.now = func() time.Time { return now }

	fired := 0
	c.Subscribe(func() { fired++ })

	c.NoteSignedResolution()

	// Two hours pass; the next wake is due.
	now = base.Add(2 * time.Hour)
	if !c.Wake() {
		t.Fatal("Wake after 2h idle should broadcast")
	}
	if fired != 1 {
		t.Errorf("subscriber fired %d times, want 1", fired)
	}
	if got := c.LastRefreshed(); !got.Equal(now) {
		t.Errorf("LastRefreshed = %v, want %v", got, now)
	}

	// An immediate second wake is inside the interval.
	if c.Wake() {
		t.Error("second Wake within the interval should not broadcast")
	}
	if fired != 1 {
		t.Errorf("subscriber fired %d times, want still 1", fired)
	}
}

func TestCoordinator_WakeWithinIntervalIsNoop(t *testing.T) {
	base := time.Unix(1700000000, 0)
	now := base

	c := NewCoordinator()
	c.now = func() time.Time { return now }
	c.NoteSignedResolution()

	fired := 0
	c.Subscribe(func() { fired++ })

	now = base.Add(30 * time.Minute)
	if c.Wake() {
		t.Error("Wake within the refresh interval should not broadcast")
	}
	if fired != 0 {
		t.Errorf("subscriber fired %d times, want 0", fired)
	}
}

func TestCoordinator_Unsubscribe(t *testing.T) {
	base := time.Unix(1700000000, 0)
	now := base

	c := NewCoordinator()
	c.now = func() time.Time { return now }
	c.NoteSignedResolution()

	fired := 0
	unsubscribe := c.Subscribe(func() { fired++ })
	unsubscribe()

	now = base.Add(2 * time.Hour)
	c.Wake()
	if fired != 0 {
		t.Errorf("unsubscribed callback fired %d times, want 0", fired)
	}
}

func TestCoordinator_BroadcastReachesAllSubscribers(t *testing.T) {
	base := time.Unix(1700000000, 0)
	now := base

	c := NewCoordinator()
	c.now = func() time.Time { return now }
	c.NoteSignedResolution()

	var a, b int
	c.Subscribe(func() { a++ })
	c.Subscribe(func() { b++ })

	now = base.Add(2 * time.Hour)
	c.Wake()
	if a != 1 || b != 1 {
		t.Errorf("subscribers fired (%d, %d), want (1, 1)", a, b)
	}
}
