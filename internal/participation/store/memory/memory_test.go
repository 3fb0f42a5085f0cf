package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"edureward/internal/identity"
	"edureward/internal/participation/models"
	"edureward/pkg/platform/sentinel"
)

type StoreSuite struct {
	suite.Suite
	configs *ConfigStore
	records *RecordStore
	tx      *Tx
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.tx = NewTx()
	s.configs = NewConfigStore(s.tx)
	s.records = NewRecordStore(s.tx)
	s.ctx = context.Background()
}

func (s *StoreSuite) newRecord(participant identity.Address) *models.ParticipationRecord {
	rec, err := models.NewParticipationRecord(participant, "great course", models.NewAmount(100), 1, 1_000)
	s.Require().NoError(err)
	return rec
}

func (s *StoreSuite) initialize() {
	s.Require().NoError(s.configs.Save(s.ctx, models.NewConfiguration("admin", "EDU", models.NewAmount(100), 1)))
}

// TestConfigLifecycle verifies singleton semantics of the configuration tier.
func (s *StoreSuite) TestConfigLifecycle() {
	s.Run("load before save is not found", func() {
		_, err := s.configs.Load(s.ctx)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(s.configs.UpdateRewardAmount(s.ctx, models.NewAmount(5)), sentinel.ErrNotFound)
		s.ErrorIs(s.configs.RecordParticipation(s.ctx, "alice", models.NewAmount(5)), sentinel.ErrNotFound)
	})

	s.Run("save overwrites and empties the index", func() {
		s.initialize()
		s.Require().NoError(s.configs.RecordParticipation(s.ctx, "alice", models.NewAmount(100)))

		s.initialize()
		cfg, err := s.configs.Load(s.ctx)
		s.Require().NoError(err)
		s.Zero(cfg.TotalParticipants)
		participants, err := s.configs.ListParticipants(s.ctx)
		s.Require().NoError(err)
		s.Empty(participants)
	})

	s.Run("update reward keeps totals", func() {
		s.initialize()
		s.Require().NoError(s.configs.RecordParticipation(s.ctx, "alice", models.NewAmount(100)))
		s.Require().NoError(s.configs.UpdateRewardAmount(s.ctx, models.NewAmount(500)))

		cfg, err := s.configs.Load(s.ctx)
		s.Require().NoError(err)
		s.Equal("500", cfg.RewardAmount.String())
		s.Equal(uint64(1), cfg.TotalParticipants)
		s.Equal("100", cfg.TotalRewardsDistributed.String())
	})

	s.Run("loaded configuration is a copy", func() {
		s.initialize()
		cfg, err := s.configs.Load(s.ctx)
		s.Require().NoError(err)
		cfg.TotalParticipants = 99

		again, err := s.configs.Load(s.ctx)
		s.Require().NoError(err)
		s.Zero(again.TotalParticipants)
	})
}

// TestIndexKeepsInsertionOrder verifies index order and duplicate retention.
func (s *StoreSuite) TestIndexKeepsInsertionOrder() {
	s.initialize()
	for _, p := range []identity.Address{"carol", "alice", "bob", "alice"} {
		s.Require().NoError(s.configs.RecordParticipation(s.ctx, p, models.NewAmount(10)))
	}

	participants, err := s.configs.ListParticipants(s.ctx)
	s.Require().NoError(err)
	s.Equal([]identity.Address{"carol", "alice", "bob", "alice"}, participants)
}

func (s *StoreSuite) TestRecordParticipationKeepsTotalsInRange() {
	near, err := models.ParseAmount("170141183460469231731687303715884105000")
	s.Require().NoError(err)
	s.initialize()
	s.Require().NoError(s.configs.RecordParticipation(s.ctx, "alice", near))

	err = s.configs.RecordParticipation(s.ctx, "bob", models.NewAmount(1_000))
	s.Require().ErrorIs(err, sentinel.ErrInvalidState)

	cfg, err := s.configs.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), cfg.TotalParticipants)
	s.True(cfg.TotalRewardsDistributed.Equal(near))
}

// TestRecords verifies keyed create, lookup and independent eviction.
func (s *StoreSuite) TestRecords() {
	s.Run("create then find", func() {
		s.Require().NoError(s.records.Create(s.ctx, s.newRecord("alice")))
		found, err := s.records.Find(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal("great course", found.Comment)
	})

	s.Run("duplicate create is rejected", func() {
		err := s.records.Create(s.ctx, s.newRecord("alice"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("delete evicts only the given key", func() {
		s.Require().NoError(s.records.Create(s.ctx, s.newRecord("bob")))
		s.Require().NoError(s.records.Delete(s.ctx, "alice"))

		_, err := s.records.Find(s.ctx, "alice")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.records.Find(s.ctx, "bob")
		s.NoError(err)
	})

	s.Run("find many skips missing keys", func() {
		found, err := s.records.FindMany(s.ctx, []identity.Address{"alice", "bob", "nobody"})
		s.Require().NoError(err)
		s.Len(found, 1)
		s.Contains(found, identity.Address("bob"))
	})

	s.Run("delete of missing key is a no-op", func() {
		s.NoError(s.records.Delete(s.ctx, "nobody"))
	})
}

// TestRunInTxRollsBack verifies a failing callback leaves no partial writes.
func (s *StoreSuite) TestRunInTxRollsBack() {
	s.initialize()
	boom := errors.New("boom")

	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		if err := s.records.Create(ctx, s.newRecord("alice")); err != nil {
			return err
		}
		if err := s.configs.RecordParticipation(ctx, "alice", models.NewAmount(100)); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	_, err = s.records.Find(s.ctx, "alice")
	s.ErrorIs(err, sentinel.ErrNotFound)
	cfg, err := s.configs.Load(s.ctx)
	s.Require().NoError(err)
	s.Zero(cfg.TotalParticipants)
	s.Zero(cfg.TotalRewardsDistributed.Sign())
	participants, err := s.configs.ListParticipants(s.ctx)
	s.Require().NoError(err)
	s.Empty(participants)
}

func (s *StoreSuite) TestRunInTxCommits() {
	s.initialize()
	err := s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
		if err := s.records.Create(ctx, s.newRecord("alice")); err != nil {
			return err
		}
		return s.configs.RecordParticipation(ctx, "alice", models.NewAmount(100))
	})
	s.Require().NoError(err)
	s.Equal(1, s.records.Len())
}

// TestReadsWaitForCommit verifies a reader sees either none or all of a
// transaction's writes.
func (s *StoreSuite) TestReadsWaitForCommit() {
	s.initialize()
	inside := make(chan struct{})
	release := make(chan struct{})
	committed := make(chan error, 1)
	go func() {
		committed <- s.tx.RunInTx(s.ctx, func(ctx context.Context) error {
			if err := s.records.Create(ctx, s.newRecord("alice")); err != nil {
				return err
			}
			if _, err := s.records.Find(ctx, "alice"); err != nil {
				return err
			}
			close(inside)
			<-release
			return s.configs.RecordParticipation(ctx, "alice", models.NewAmount(100))
		})
	}()
	<-inside

	type snapshot struct {
		found        bool
		participants uint64
	}
	seen := make(chan snapshot, 1)
	go func() {
		_, err := s.records.Find(s.ctx, "alice")
		cfg, loadErr := s.configs.Load(s.ctx)
		if loadErr != nil {
			close(seen)
			return
		}
		seen <- snapshot{found: err == nil, participants: cfg.TotalParticipants}
	}()

	s.Never(func() bool { return len(seen) > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"reader must not observe the record before the counters")
	close(release)
	s.Require().NoError(<-committed)

	got, ok := <-seen
	s.Require().True(ok)
	s.True(got.found)
	s.Equal(uint64(1), got.participants)
}
