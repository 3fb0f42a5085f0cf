package admission

import (
	"context"
	"sync"

	"edureward/internal/identity"
)

// InMemory is a process-local keyed lock. Waiters give up when their context ends.
type InMemory struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch      chan struct{}
	waiters int
}

func NewInMemory() *InMemory {
	return &InMemory{slots: make(map[string]*slot)}
}

// Acquire blocks until the participant's slot is free or ctx is done.
func (l *InMemory) Acquire(ctx context.Context, participant identity.Address) (ReleaseFunc, error) {
	key := keyFor(participant)

	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.waiters++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.leave(key, s)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			<-s.ch
			l.leave(key, s)
		})
		return nil
	}, nil
}

func (l *InMemory) leave(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.waiters--
	if s.waiters == 0 {
		delete(l.slots, key)
	}
}

// Held reports how many participants currently have a holder or waiter.
func (l *InMemory) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
