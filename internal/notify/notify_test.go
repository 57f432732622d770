package notify

import (
	"fmt"
	"testing"
)

func TestCenterKeepsRecentNotifications(t *testing.T) {
	c := NewCenter(3)

	for i := 1; i <= 5; i++ {
		c.Info(fmt.Sprintf("message %d", i))
	}

	recent := c.Recent()
	if len(recent) != 3 {
		t.Fatalf("capacity 3 must keep 3 entries, got %d", len(recent))
	}
	if recent[0].Message != "message 3" || recent[2].Message != "message 5" {
		t.Errorf("oldest entries must be evicted first, got %v", recent)
	}
}

func TestCenterLevels(t *testing.T) {
	c := NewCenter(10)
	c.Info("a")
	c.Warn("b")
	c.Success("c")

	recent := c.Recent()
	want := []Level{LevelInfo, LevelWarn, LevelSuccess}
	for i, level := range want {
		if recent[i].Level != level {
			t.Errorf("recent[%d].Level = %s, want %s", i, recent[i].Level, level)
		}
	}
}

func TestCenterListeners(t *testing.T) {
	c := NewCenter(10)

	var seen []string
	c.OnNotify(func(n Notification) {
		seen = append(seen, n.Message)
	})

	c.Warn("low stock")
	if len(seen) != 1 || seen[0] != "low stock" {
		t.Errorf("listener not invoked, got %v", seen)
	}
}

func TestCenterDrain(t *testing.T) {
	c := NewCenter(10)
	c.Info("a")

	if got := c.Drain(); len(got) != 1 {
		t.Fatalf("drain must return the buffered entries, got %d", len(got))
	}
	if got := c.Recent(); len(got) != 0 {
		t.Errorf("drain must empty the buffer, got %d", len(got))
	}
}
