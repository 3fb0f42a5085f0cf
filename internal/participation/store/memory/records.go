package memory

import (
	"context"
	"fmt"
	"sync"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/pkg/platform/sentinel"
)

// RecordStore is the keyed Record tier. Each key is evictable on its own.
type RecordStore struct {
	tx      *Tx
	mu      sync.RWMutex
	records map[identity.Address]*models.ParticipationRecord
}

// NewRecordStore returns a store whose operations are isolated by tx.
func NewRecordStore(tx *Tx) *RecordStore {
	return &RecordStore{tx: tx, records: make(map[identity.Address]*models.ParticipationRecord)}
}

func (s *RecordStore) Find(ctx context.Context, participant identity.Address) (*models.ParticipationRecord, error) {
	defer s.tx.enter(ctx, false)()
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[participant]
	if !ok {
		return nil, fmt.Errorf("participation %s: %w", participant, sentinel.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// FindMany returns the resident records among participants, keyed by address.
// Missing keys are simply absent from the result.
func (s *RecordStore) FindMany(ctx context.Context, participants []identity.Address) (map[identity.Address]*models.ParticipationRecord, error) {
	defer s.tx.enter(ctx, false)()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[identity.Address]*models.ParticipationRecord, len(participants))
	for _, p := range participants {
		if rec, ok := s.records[p]; ok {
			cp := *rec
			out[p] = &cp
		}
	}
	return out, nil
}

// Create inserts a record, failing with sentinel.ErrAlreadyUsed if the key is taken.
func (s *RecordStore) Create(ctx context.Context, record *models.ParticipationRecord) error {
	defer s.tx.enter(ctx, true)()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.Participant]; exists {
		return fmt.Errorf("participation %s: %w", record.Participant, sentinel.ErrAlreadyUsed)
	}
	cp := *record
	s.records[record.Participant] = &cp
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.records, record.Participant)
	})
	return nil
}

// Delete evicts one record. Deleting a missing key is not an error.
func (s *RecordStore) Delete(ctx context.Context, participant identity.Address) error {
	defer s.tx.enter(ctx, true)()
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.records[participant]
	if !ok {
		return nil
	}
	delete(s.records, participant)
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.records[participant] = prev
	})
	return nil
}

// Len returns the number of resident records.
func (s *RecordStore) Len() int {
	defer s.tx.enter(context.Background(), false)()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
