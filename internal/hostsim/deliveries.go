package hostsim

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Delivery tracks one dispatched request by its stable request id.
type Delivery struct {
	RequestID   string    `json:"request_id"`
	Action      string    `json:"action"`
	Attempts    int       `json:"attempts"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
	LastError   string    `json:"last_error,omitempty"`
	Applied     bool      `json:"applied"`
}

// DeliveryLog remembers delivered request ids so retries are idempotent.
type DeliveryLog struct {
	mu    sync.RWMutex
	items map[string]Delivery
	limit int
}

func NewDeliveryLog(limit int) *DeliveryLog {
	if limit <= 0 {
		limit = 1024
	}
	return &DeliveryLog{
		items: make(map[string]Delivery),
		limit: limit,
	}
}

// Seen records an attempt and reports whether the request was already
// applied by an earlier attempt.
func (l *DeliveryLog) Seen(requestID, act string, at time.Time) (Delivery, bool) {
	key := strings.TrimSpace(requestID)
	if key == "" {
		return Delivery{Action: act, Attempts: 1, FirstSeenAt: at, LastSeenAt: at}, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.items[key]
	if !ok {
		l.evictLocked()
		item = Delivery{RequestID: key, Action: act, FirstSeenAt: at}
	}
	item.Attempts++
	item.LastSeenAt = at
	l.items[key] = item
	return item, ok && item.Applied
}

func (l *DeliveryLog) MarkResult(requestID string, err error) {
	key := strings.TrimSpace(requestID)
	l.mu.Lock()
	defer l.mu.Unlock()
	item, ok := l.items[key]
	if !ok {
		return
	}
	if err != nil {
		item.LastError = err.Error()
		item.Applied = false
	} else {
		item.LastError = ""
		item.Applied = true
	}
	l.items[key] = item
}

func (l *DeliveryLog) Get(requestID string) (Delivery, bool) {
	key := strings.TrimSpace(requestID)
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.items[key]
	return item, ok
}

// List returns deliveries oldest first.
func (l *DeliveryLog) List() []Delivery {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Delivery, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstSeenAt.Equal(out[j].FirstSeenAt) {
			return out[i].RequestID < out[j].RequestID
		}
		return out[i].FirstSeenAt.Before(out[j].FirstSeenAt)
	})
	return out
}

func (l *DeliveryLog) evictLocked() {
	if len(l.items) < l.limit {
		return
	}
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for k, item := range l.items {
		if oldestKey == "" || item.FirstSeenAt.Before(oldestAt) {
			oldestKey, oldestAt = k, item.FirstSeenAt
		}
	}
	delete(l.items, oldestKey)
}
