package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/pkg/platform/sentinel"
	"edureward/pkg/platform/tx"
)

const uniqueViolation = "23505"

type RecordStore struct {
	db *sql.DB
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

const recordColumns = `address, created_at, comment, reward_amount, reward_claimed, expiry`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.ParticipationRecord, error) {
	var (
		addr, created, comment, reward, expiry string
		claimed                                bool
	)
	if err := row.Scan(&addr, &created, &comment, &reward, &claimed, &expiry); err != nil {
		return nil, err
	}
	ts, err := parseU64("created_at", created)
	if err != nil {
		return nil, err
	}
	exp, err := parseU64("expiry", expiry)
	if err != nil {
		return nil, err
	}
	amount, err := models.ParseAmount(reward)
	if err != nil {
		return nil, fmt.Errorf("decode reward_amount: %w", err)
	}
	return &models.ParticipationRecord{
		Participant:   identity.Address(addr),
		Timestamp:     models.Timestamp(ts),
		Comment:       comment,
		RewardAmount:  amount,
		RewardClaimed: claimed,
		Expiry:        models.Timestamp(exp),
	}, nil
}

func (s *RecordStore) Find(ctx context.Context, participant identity.Address) (*models.ParticipationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM participation_records WHERE address = $1`
	rec, err := scanRecord(tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx, query, participant.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("participation %s: %w", participant, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find participation: %w", err)
	}
	return rec, nil
}

// FindMany loads the resident records among participants in one round trip.
func (s *RecordStore) FindMany(ctx context.Context, participants []identity.Address) (map[identity.Address]*models.ParticipationRecord, error) {
	out := make(map[identity.Address]*models.ParticipationRecord, len(participants))
	if len(participants) == 0 {
		return out, nil
	}
	keys := make([]string, len(participants))
	for i, p := range participants {
		keys[i] = p.String()
	}

	query := `SELECT ` + recordColumns + ` FROM participation_records WHERE address = ANY($1)`
	rows, err := tx.ExecutorFor(ctx, s.db).QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("find participations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participation: %w", err)
		}
		out[rec.Participant] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participations: %w", err)
	}
	return out, nil
}

func (s *RecordStore) Create(ctx context.Context, record *models.ParticipationRecord) error {
	query := `INSERT INTO participation_records (` + recordColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, query,
		record.Participant.String(),
		u64(uint64(record.Timestamp)),
		record.Comment,
		record.RewardAmount.String(),
		record.RewardClaimed,
		u64(uint64(record.Expiry)),
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("participation %s: %w", record.Participant, sentinel.ErrAlreadyUsed)
	}
	if err != nil {
		return fmt.Errorf("create participation: %w", err)
	}
	return nil
}

func (s *RecordStore) Delete(ctx context.Context, participant identity.Address) error {
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `DELETE FROM participation_records WHERE address = $1`, participant.String())
	if err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	return nil
}
