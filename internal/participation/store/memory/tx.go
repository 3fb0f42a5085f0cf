// Package memory holds in-memory Configuration and Record stores for tests and
// single-process development. Writes made inside Tx.RunInTx are undone when the
// callback fails, and stores bound to the Tx never expose a half-applied one.
package memory

import (
	"context"
	"sync"
)

type undoKey struct{}

type undoLog struct {
	tx    *Tx
	steps []func()
}

func (u *undoLog) rollback() {
	for i := len(u.steps) - 1; i >= 0; i-- {
		u.steps[i]()
	}
}

// onRollback registers fn to run if the surrounding transaction fails.
// Outside a transaction the write is final and fn is dropped.
func onRollback(ctx context.Context, fn func()) {
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok {
		log.steps = append(log.steps, fn)
	}
}

// Tx serializes transactional callbacks and rolls back their writes on error.
// Stores bound to it hold its lock for single operations as well.
type Tx struct {
	mu sync.RWMutex
}

func NewTx() *Tx {
	return &Tx{}
}

func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	log := &undoLog{tx: t}
	if err := fn(context.WithValue(ctx, undoKey{}, log)); err != nil {
		log.rollback()
		return err
	}
	return nil
}

// enter holds the snapshot lock for one store operation and returns its
// release. A nil Tx, or a call from inside t's own callback, takes nothing.
func (t *Tx) enter(ctx context.Context, write bool) func() {
	if t == nil {
		return func() {}
	}
	if log, ok := ctx.Value(undoKey{}).(*undoLog); ok && log.tx == t {
		return func() {}
	}
	if write {
		t.mu.Lock()
		return t.mu.Unlock
	}
	t.mu.RLock()
	return t.mu.RUnlock
}
