//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/internal/participation/store/postgres"
	"edureward/pkg/platform/sentinel"
	"edureward/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	configs  *postgres.ConfigStore
	records  *postgres.RecordStore
	tx       *postgres.Tx
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(postgres.Migrate(s.ctx, s.postgres.DB))
	s.configs = postgres.NewConfigStore(s.postgres.DB)
	s.records = postgres.NewRecordStore(s.postgres.DB)
	s.tx = postgres.NewTx(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(s.ctx, "registry_config", "participant_index", "participation_records")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) initialize(reward int64) {
	cfg := models.NewConfiguration("admin", "EDU", models.NewAmount(reward), 1)
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		return s.configs.Save(ctx, cfg)
	})
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) record(participant identity.Address, reward models.Amount) *models.ParticipationRecord {
	rec, err := models.NewParticipationRecord(participant, "great course", reward, 1, 1_000)
	s.Require().NoError(err)
	return rec
}

func (s *PostgresStoreSuite) TestConfigurationRoundTrip() {
	_, err := s.configs.Load(s.ctx)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.initialize(100)
	cfg, err := s.configs.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(identity.Address("admin"), cfg.Admin)
	s.Equal(models.TokenRef("EDU"), cfg.TokenRef)
	s.Equal("100", cfg.RewardAmount.String())
	s.Equal(models.ExpiryWindow(1), cfg.ExpiryWindow)
	s.Zero(cfg.TotalParticipants)
}

func (s *PostgresStoreSuite) TestAmountsKeepFullPrecision() {
	big, err := models.ParseAmount("170141183460469231731687303715884105727")
	s.Require().NoError(err)

	s.initialize(1)
	s.Require().NoError(s.configs.UpdateRewardAmount(s.ctx, big))
	s.Require().NoError(s.records.Create(s.ctx, s.record("alice", big)))

	cfg, err := s.configs.Load(s.ctx)
	s.Require().NoError(err)
	s.True(cfg.RewardAmount.Equal(big))
	rec, err := s.records.Find(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(rec.RewardAmount.Equal(big))
	s.Equal(rec.Timestamp+models.Timestamp(models.SecondsPerDay), rec.Expiry)
}

func (s *PostgresStoreSuite) TestParticipationCommitsAtomically() {
	s.initialize(100)

	s.Run("commit writes record, index and counters", func() {
		err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.records.Create(ctx, s.record("alice", models.NewAmount(100))); err != nil {
				return err
			}
			return s.configs.RecordParticipation(ctx, "alice", models.NewAmount(100))
		})
		s.Require().NoError(err)

		cfg, err := s.configs.Load(s.ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), cfg.TotalParticipants)
		s.Equal("100", cfg.TotalRewardsDistributed.String())
	})

	s.Run("failure rolls everything back", func() {
		boom := errors.New("boom")
		err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.records.Create(ctx, s.record("bob", models.NewAmount(100))); err != nil {
				return err
			}
			if err := s.configs.RecordParticipation(ctx, "bob", models.NewAmount(100)); err != nil {
				return err
			}
			return boom
		})
		s.Require().ErrorIs(err, boom)

		_, err = s.records.Find(s.ctx, "bob")
		s.ErrorIs(err, sentinel.ErrNotFound)
		participants, err := s.configs.ListParticipants(s.ctx)
		s.Require().NoError(err)
		s.Equal([]identity.Address{"alice"}, participants)
	})

	s.Run("duplicate record maps to already used", func() {
		err := s.records.Create(s.ctx, s.record("alice", models.NewAmount(100)))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})
}

func (s *PostgresStoreSuite) TestRecordParticipationKeepsTotalsInRange() {
	near, err := models.ParseAmount("170141183460469231731687303715884105000")
	s.Require().NoError(err)
	s.initialize(1)
	s.Require().NoError(s.configs.RecordParticipation(s.ctx, "alice", near))

	err = s.configs.RecordParticipation(s.ctx, "bob", models.NewAmount(1_000))
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	cfg, err := s.configs.Load(s.ctx)
	s.Require().NoError(err, "stored totals stay decodable")
	s.Equal(uint64(1), cfg.TotalParticipants)
	s.True(cfg.TotalRewardsDistributed.Equal(near))
	participants, err := s.configs.ListParticipants(s.ctx)
	s.Require().NoError(err)
	s.Equal([]identity.Address{"alice"}, participants)
}

func (s *PostgresStoreSuite) TestRecordParticipationBeforeInitialize() {
	err := s.configs.RecordParticipation(s.ctx, "alice", models.NewAmount(1))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSaveResetsIndex() {
	s.initialize(100)
	s.Require().NoError(s.configs.RecordParticipation(s.ctx, "alice", models.NewAmount(100)))

	s.initialize(50)
	participants, err := s.configs.ListParticipants(s.ctx)
	s.Require().NoError(err)
	s.Empty(participants)
}

func (s *PostgresStoreSuite) TestFindManyAndDelete() {
	for _, p := range []identity.Address{"alice", "bob"} {
		s.Require().NoError(s.records.Create(s.ctx, s.record(p, models.NewAmount(10))))
	}

	found, err := s.records.FindMany(s.ctx, []identity.Address{"alice", "bob", "carol"})
	s.Require().NoError(err)
	s.Len(found, 2)

	s.Require().NoError(s.records.Delete(s.ctx, "alice"))
	s.Require().NoError(s.records.Delete(s.ctx, "alice"))
	found, err = s.records.FindMany(s.ctx, []identity.Address{"alice", "bob"})
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Contains(found, identity.Address("bob"))
}
