// Package notify collects transient user notifications (low stock warnings,
// sync outcomes) in a bounded in-memory ring drained by the UI.
package notify

import (
	"log"
	"sync"

	"github.com/candleworks/waxpro/internal/models"
)

// Level classifies a notification
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarn    Level = "warning"
	LevelSuccess Level = "success"
)

// Notification is one transient message for the UI
type Notification struct {
	ID        string `json:"id"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Listener receives notifications as they are raised
type Listener func(n Notification)

// Center is a bounded ring of recent notifications
type Center struct {
	mu        sync.Mutex
	items     []Notification
	capacity  int
	listeners []Listener
}

// NewCenter creates a notification center keeping at most capacity entries
func NewCenter(capacity int) *Center {
	if capacity <= 0 {
		capacity = 50
	}
	return &Center{capacity: capacity}
}

// OnNotify subscribes to new notifications
func (c *Center) OnNotify(fn Listener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Center) push(level Level, message string) {
	n := Notification{
		ID:        models.NewID(),
		Level:     level,
		Message:   message,
		Timestamp: models.NowMillis(),
	}

	c.mu.Lock()
	c.items = append(c.items, n)
	if len(c.items) > c.capacity {
		c.items = c.items[len(c.items)-c.capacity:]
	}
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	log.Printf("🔔 [%s] %s", level, message)
	for _, fn := range listeners {
		fn(n)
	}
}

// Info raises an informational notification
func (c *Center) Info(message string) { c.push(LevelInfo, message) }

// Warn raises a warning notification
func (c *Center) Warn(message string) { c.push(LevelWarn, message) }

// Success raises a success notification
func (c *Center) Success(message string) { c.push(LevelSuccess, message) }

// Recent returns the retained notifications, oldest first
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Drain returns and clears the retained notifications
func (c *Center) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	items := c.items
	c.items = nil
	return items
}
