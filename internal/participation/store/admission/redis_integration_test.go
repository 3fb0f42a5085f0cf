//go:build integration

package admission_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"edureward/internal/participation/store/admission"
	"edureward/pkg/testutil/containers"
)

type RedisLockSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	lock  *admission.Redis
}

func TestRedisLockSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockSuite))
}

func (s *RedisLockSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.lock = admission.NewRedis(s.redis.Client, admission.WithRetryWait(5*time.Millisecond))
}

func (s *RedisLockSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLockSuite) TestExclusiveUntilReleased() {
	ctx := context.Background()
	release, err := s.lock.Acquire(ctx, "alice")
	s.Require().NoError(err)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = s.lock.Acquire(waitCtx, "alice")
	s.ErrorIs(err, context.DeadlineExceeded)

	s.Require().NoError(release(ctx))
	again, err := s.lock.Acquire(ctx, "alice")
	s.Require().NoError(err)
	s.NoError(again(ctx))
}

func (s *RedisLockSuite) TestExpiredLockIsNotReleasedByStaleHolder() {
	ctx := context.Background()
	short := admission.NewRedis(s.redis.Client, admission.WithTTL(20*time.Millisecond))

	stale, err := short.Acquire(ctx, "bob")
	s.Require().NoError(err)
	time.Sleep(40 * time.Millisecond)

	fresh, err := s.lock.Acquire(ctx, "bob")
	s.Require().NoError(err)

	s.ErrorIs(stale(ctx), admission.ErrLockLost)
	s.NoError(fresh(ctx))
}

func (s *RedisLockSuite) TestReleaseRemovesKey() {
	ctx := context.Background()
	release, err := s.lock.Acquire(ctx, "carol")
	s.Require().NoError(err)

	keys, err := s.redis.Keys(ctx, "edureward:admission:*")
	s.Require().NoError(err)
	s.Equal([]string{"edureward:admission:carol"}, keys)

	s.Require().NoError(release(ctx))
	keys, err = s.redis.Keys(ctx, "edureward:admission:*")
	s.Require().NoError(err)
	s.Empty(keys)
}
