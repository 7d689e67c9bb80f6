package services

import (
	"sync"
	"time"

	"storefront/models"

	"github.com/google/uuid"
)

const DefaultNotificationTTL = 4 * time.Second

// Notifier queues transient messages for display and fans them out to live
// subscribers. Expired messages are pruned on read; no timers are kept.
type Notifier struct {
	mu      sync.Mutex
	queue   []models.Notification
	ttl     time.Duration
	now     func() time.Time
	subs    map[int]chan models.Notification
	nextSub int
}

func NewNotifier(ttl time.Duration, now func() time.Time) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		ttl:  ttl,
		now:  now,
		subs: make(map[int]chan models.Notification),
	}
}

func (n *Notifier) Notify(severity models.Severity, message string) models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.now()
	notification := models.Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(n.ttl),
	}

	n.pruneLocked(now)
	n.queue = append(n.queue, notification)

	for _, ch := range n.subs {
		select {
		case ch <- notification:
		default:
		}
	}

	return notification
}

func (n *Notifier) Info(message string) models.Notification {
	return n.Notify(models.SeverityInfo, message)
}

func (n *Notifier) Success(message string) models.Notification {
	return n.Notify(models.SeveritySuccess, message)
}

func (n *Notifier) Error(message string) models.Notification {
	return n.Notify(models.SeverityError, message)
}

// Active returns the unexpired notifications, oldest first.
func (n *Notifier) Active() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.pruneLocked(n.now())
	return append([]models.Notification(nil), n.queue...)
}

func (n *Notifier) Dismiss(id string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, item := range n.queue {
		if item.ID == id {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Subscribe streams every notification pushed after the call. Messages are
// dropped for a subscriber whose buffer is full. cancel must be called.
func (n *Notifier) Subscribe(buffer int) (<-chan models.Notification, func()) {
	if buffer < 1 {
		buffer = 1
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextSub
	n.nextSub++
	ch := make(chan models.Notification, buffer)
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (n *Notifier) pruneLocked(now time.Time) {
	kept := n.queue[:0]
	for _, item := range n.queue {
		if !item.Expired(now) {
			kept = append(kept, item)
		}
	}
	n.queue = kept
}
