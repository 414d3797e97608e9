package campaign

import (
	"context"
	"sync"

	"campaignstudio/internal/domain"
)

// Locker grants one mutating operation per campaign at a time. Acquire
// returns domain.ErrCampaignBusy instead of waiting.
type Locker interface {
	Acquire(ctx context.Context, campaignID string) (release func(), err error)
}

// MemoryLocker is the in-process Locker used by single-replica deployments.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Acquire(ctx context.Context, campaignID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[campaignID]; busy {
		return nil, domain.ErrCampaignBusy
	}
	l.held[campaignID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, campaignID)
			l.mu.Unlock()
		})
	}, nil
}
