package models

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Severity classifies a notification for rendering.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Notification is one entry in the conference notification area.
type Notification struct {
	ID        string
	Text      string
	Severity  Severity
	Timestamp time.Time
	ExpireAt  time.Time
}

var notifCounter uint64

func generateNotificationID() string {
	n := atomic.AddUint64(&notifCounter, 1)
	return fmt.Sprintf("ntf_%d_%d", time.Now().UnixNano(), n)
}

// NewNotification creates a notification stamped with a unique ID.
func NewNotification(text string, severity Severity) *Notification {
	return &Notification{
		ID:        generateNotificationID(),
		Text:      text,
		Severity:  severity,
		Timestamp: time.Now(),
	}
}

// FormatTime returns the formatted timestamp for display.
func (n *Notification) FormatTime() string {
	return n.Timestamp.Format("15:04")
}

// NotificationBuffer is a bounded, TTL'd buffer of notifications.
// Old entries fall off the front when the buffer is full and are
// swept once expired. Safe for concurrent use.
type NotificationBuffer struct {
	mu      sync.RWMutex
	entries []*Notification
	maxSize int
	ttl     time.Duration
	stop    chan struct{}
}

// NewNotificationBuffer creates a buffer and starts its cleanup loop.
func NewNotificationBuffer(maxSize int, ttl time.Duration) *NotificationBuffer {
	nb := &NotificationBuffer{
		entries: make([]*Notification, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		stop:    make(chan struct{}),
	}

	go nb.cleanupLoop()

	return nb
}

// Add appends a notification, evicting the oldest entry if full.
func (nb *NotificationBuffer) Add(n *Notification) {
	nb.mu.Lock()
	defer nb.mu.Unlock()

	n.ExpireAt = time.Now().Add(nb.ttl)
	nb.entries = append(nb.entries, n)

	if len(nb.entries) > nb.maxSize {
		nb.entries = nb.entries[1:]
	}
}

// Active returns the unexpired notifications, oldest first.
func (nb *NotificationBuffer) Active() []*Notification {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	now := time.Now()
	result := make([]*Notification, 0, len(nb.entries))
	for _, n := range nb.entries {
		if n.ExpireAt.After(now) {
			result = append(result, n)
		}
	}
	return result
}

// Len returns the number of stored entries, expired or not.
func (nb *NotificationBuffer) Len() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return len(nb.entries)
}

// Close stops the cleanup loop. Idempotent is not required; call once.
func (nb *NotificationBuffer) Close() {
	close(nb.stop)
}

func (nb *NotificationBuffer) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-nb.stop:
			return
		case <-ticker.C:
			nb.mu.Lock()
			now := time.Now()
			kept := make([]*Notification, 0, len(nb.entries))
			for _, n := range nb.entries {
				if n.ExpireAt.After(now) {
					kept = append(kept, n)
				}
			}
			nb.entries = kept
			nb.mu.Unlock()
		}
	}
}
