package notifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	_ port.Notifier = (*Log)(nil)
	_ port.Notifier = (*Recent)(nil)
)

// A Log writes notifications to the structured logger.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) Log {
	return Log{logger.With("op", "Notifier")}
}

func (n Log) Notify(ctx context.Context, v domain.Notification) {
	level := slog.LevelInfo
	if v.Level == domain.LevelError {
		level = slog.LevelWarn
	}
	n.logger.Log(ctx, level, v.Message, "notification", string(v.Level))
}

// A Recent keeps the last notifications for the presentation layer to poll
// and forwards each one to next.
type Recent struct {
	next  port.Notifier
	limit int

	mu    sync.Mutex
	items []domain.Notification
}

func NewRecent(next port.Notifier, limit int) *Recent {
	return &Recent{next: next, limit: max(1, limit)}
}

func (n *Recent) Notify(ctx context.Context, v domain.Notification) {
	n.mu.Lock()
	n.items = append(n.items, v)
	if over := len(n.items) - n.limit; over > 0 {
		n.items = n.items[over:]
	}
	n.mu.Unlock()

	if n.next != nil {
		n.next.Notify(ctx, v)
	}
}

// Drain returns the kept notifications, oldest first, and forgets them.
func (n *Recent) Drain() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := n.items
	n.items = nil
	return items
}
