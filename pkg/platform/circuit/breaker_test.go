package circuit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
	now time.Time
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) SetupTest() {
	s.now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (s *BreakerSuite) breaker(opts ...Option) *Breaker {
	opts = append(opts, WithClock(func() time.Time { return s.now }))
	return New("ledger", opts...)
}

func (s *BreakerSuite) fail(b *Breaker, n int) {
	for range n {
		b.RecordFailure()
	}
}

func (s *BreakerSuite) TestStartsClosed() {
	b := s.breaker()
	s.Equal("ledger", b.Name())
	s.Equal(StateClosed, b.State())
	s.True(b.Allow())
}

func (s *BreakerSuite) TestOpensOnThresholdOnly() {
	b := s.breaker(WithFailureThreshold(3))

	s.fail(b, 2)
	s.False(b.IsOpen())

	useFallback, change := b.RecordFailure()
	s.True(useFallback)
	s.True(change.Opened)
	s.True(b.IsOpen())

	// further failures report open without a new transition
	useFallback, change = b.RecordFailure()
	s.True(useFallback)
	s.False(change.Opened)
}

func (s *BreakerSuite) TestFailuresMustBeConsecutive() {
	b := s.breaker(WithFailureThreshold(3))

	s.fail(b, 2)
	b.RecordSuccess()
	s.fail(b, 2)
	s.False(b.IsOpen())

	s.fail(b, 1)
	s.True(b.IsOpen())
}

func (s *BreakerSuite) TestClosesAfterConsecutiveSuccesses() {
	b := s.breaker(WithFailureThreshold(1), WithSuccessThreshold(3))
	s.fail(b, 1)

	b.RecordSuccess()
	b.RecordSuccess()
	s.fail(b, 1)
	s.True(b.IsOpen(), "a failure while open restarts the success count")

	for i := range 2 {
		usePrimary, change := b.RecordSuccess()
		s.False(usePrimary, "success %d", i+1)
		s.False(change.Closed)
	}
	usePrimary, change := b.RecordSuccess()
	s.True(usePrimary)
	s.True(change.Closed)
	s.False(b.IsOpen())
}

func (s *BreakerSuite) TestCooldownGatesProbe() {
	b := s.breaker(WithFailureThreshold(1), WithCooldown(10*time.Second))
	s.fail(b, 1)

	s.False(b.Allow())
	s.now = s.now.Add(9 * time.Second)
	s.False(b.Allow())
	s.now = s.now.Add(time.Second)
	s.True(b.Allow())

	// a failed probe restarts the cooldown
	s.fail(b, 1)
	s.False(b.Allow())
}

func (s *BreakerSuite) TestReset() {
	b := s.breaker(WithFailureThreshold(1))
	s.fail(b, 1)

	b.Reset()
	s.Equal(StateClosed, b.State())
	s.True(b.Allow())
}

func (s *BreakerSuite) TestIgnoresInvalidOptions() {
	b := New("ledger", WithFailureThreshold(0), WithSuccessThreshold(-1), WithCooldown(-time.Second), WithClock(nil))
	s.Equal(defaultFailureThreshold, b.failureThreshold)
	s.Equal(defaultSuccessThreshold, b.successThreshold)
	s.Equal(defaultCooldown, b.cooldown)
	s.NotNil(b.now)
}

func (s *BreakerSuite) TestConcurrentRecording() {
	const workers, perWorker = 50, 10
	b := New("ledger", WithFailureThreshold(workers*perWorker+1))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				b.RecordFailure()
			}
		}()
	}
	wg.Wait()
	s.False(b.IsOpen(), "no failure lost below the threshold")
	b.RecordFailure()
	s.True(b.IsOpen(), "the threshold-th failure opens the breaker")
}
