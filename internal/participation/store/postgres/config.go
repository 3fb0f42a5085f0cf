package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/pkg/platform/sentinel"
	"edureward/pkg/platform/tx"
)

type ConfigStore struct {
	db *sql.DB
}

func NewConfigStore(db *sql.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

func (s *ConfigStore) Load(ctx context.Context) (*models.Configuration, error) {
	query := `
		SELECT admin, token_ref, reward_amount, expiry_days, total_participants, total_rewards_distributed
		FROM registry_config
		WHERE id = 1
	`
	var (
		admin, token                       string
		reward, days, participants, totals string
	)
	err := tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx, query).
		Scan(&admin, &token, &reward, &days, &participants, &totals)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("configuration: %w", sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	cfg := &models.Configuration{
		Admin:    identity.Address(admin),
		TokenRef: models.TokenRef(token),
	}
	if cfg.RewardAmount, err = models.ParseAmount(reward); err != nil {
		return nil, fmt.Errorf("decode reward_amount: %w", err)
	}
	if cfg.TotalRewardsDistributed, err = models.ParseAmount(totals); err != nil {
		return nil, fmt.Errorf("decode total_rewards_distributed: %w", err)
	}
	window, err := parseU64("expiry_days", days)
	if err != nil {
		return nil, err
	}
	cfg.ExpiryWindow = models.ExpiryWindow(window)
	if cfg.TotalParticipants, err = parseU64("total_participants", participants); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save overwrites the singleton row with zeroed counters and empties the index.
// Run it inside Tx.RunInTx so both statements commit together.
func (s *ConfigStore) Save(ctx context.Context, cfg *models.Configuration) error {
	exec := tx.ExecutorFor(ctx, s.db)
	query := `
		INSERT INTO registry_config (id, admin, token_ref, reward_amount, expiry_days, total_participants, total_rewards_distributed, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			admin = EXCLUDED.admin,
			token_ref = EXCLUDED.token_ref,
			reward_amount = EXCLUDED.reward_amount,
			expiry_days = EXCLUDED.expiry_days,
			total_participants = EXCLUDED.total_participants,
			total_rewards_distributed = EXCLUDED.total_rewards_distributed,
			updated_at = now()
	`
	_, err := exec.ExecContext(ctx, query,
		cfg.Admin.String(),
		string(cfg.TokenRef),
		cfg.RewardAmount.String(),
		u64(uint64(cfg.ExpiryWindow)),
		u64(cfg.TotalParticipants),
		cfg.TotalRewardsDistributed.String(),
	)
	if err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM participant_index`); err != nil {
		return fmt.Errorf("reset participant index: %w", err)
	}
	return nil
}

func (s *ConfigStore) UpdateRewardAmount(ctx context.Context, amount models.Amount) error {
	query := `UPDATE registry_config SET reward_amount = $1, updated_at = now() WHERE id = 1`
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, query, amount.String())
	if err != nil {
		return fmt.Errorf("update reward amount: %w", err)
	}
	return requireRow(res)
}

// Bounds of a signed 128-bit amount; NUMERIC(39,0) alone admits wider values.
const (
	minAmountText = "-170141183460469231731687303715884105728"
	maxAmountText = "170141183460469231731687303715884105727"
)

// RecordParticipation bumps the counters and appends the participant to the index.
// A bump that would carry total_rewards_distributed out of the 128-bit range
// fails with sentinel.ErrInvalidState and changes nothing.
func (s *ConfigStore) RecordParticipation(ctx context.Context, participant identity.Address, reward models.Amount) error {
	exec := tx.ExecutorFor(ctx, s.db)
	query := `
		UPDATE registry_config SET
			total_participants = total_participants + 1,
			total_rewards_distributed = total_rewards_distributed + $1,
			updated_at = now()
		WHERE id = 1
			AND total_rewards_distributed + $1 BETWEEN $2 AND $3
	`
	res, err := exec.ExecContext(ctx, query, reward.String(), minAmountText, maxAmountText)
	if err != nil {
		return fmt.Errorf("bump counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		var exists bool
		if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM registry_config WHERE id = 1)`).Scan(&exists); err != nil {
			return fmt.Errorf("check configuration: %w", err)
		}
		if !exists {
			return fmt.Errorf("configuration: %w", sentinel.ErrNotFound)
		}
		return fmt.Errorf("total rewards distributed out of range: %w", sentinel.ErrInvalidState)
	}
	if _, err := exec.ExecContext(ctx, `INSERT INTO participant_index (address) VALUES ($1)`, participant.String()); err != nil {
		return fmt.Errorf("append participant index: %w", err)
	}
	return nil
}

func (s *ConfigStore) ListParticipants(ctx context.Context) ([]identity.Address, error) {
	rows, err := tx.ExecutorFor(ctx, s.db).QueryContext(ctx, `SELECT address FROM participant_index ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	out := []identity.Address{}
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, identity.Address(addr))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("configuration: %w", sentinel.ErrNotFound)
	}
	return nil
}
