package models

import (
	"math"
	"time"

	dErrors "edureward/pkg/domain-errors"
)

// SecondsPerDay converts an expiry window in days to Timestamp units.
const SecondsPerDay uint64 = 24 * 60 * 60

// Timestamp is a point in time in Unix seconds, the host clock's unit.
type Timestamp uint64

// TimestampFrom converts a wall-clock time. Times before the epoch clamp to 0.
func TimestampFrom(t time.Time) Timestamp {
	s := t.Unix()
	if s < 0 {
		return 0
	}
	return Timestamp(s)
}

// Time converts back to a UTC wall-clock time.
func (t Timestamp) Time() time.Time {
	if t > math.MaxInt64 {
		return time.Unix(math.MaxInt64, 0).UTC()
	}
	return time.Unix(int64(t), 0).UTC()
}

// ExpiryWindow is the configured record lifetime, in days.
type ExpiryWindow uint64

// NewExpiryWindow validates that the window converts to seconds without overflow.
func NewExpiryWindow(days uint64) (ExpiryWindow, error) {
	if days > math.MaxInt64/SecondsPerDay {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "expiry window is too large")
	}
	return ExpiryWindow(days), nil
}

// Seconds returns the window length in Timestamp units.
func (w ExpiryWindow) Seconds() uint64 {
	return uint64(w) * SecondsPerDay
}

// ExpiryFrom returns start + window, or an invariant violation on overflow.
func (w ExpiryWindow) ExpiryFrom(start Timestamp) (Timestamp, error) {
	secs := w.Seconds()
	if uint64(start) > math.MaxUint64-secs {
		return 0, dErrors.New(dErrors.CodeInvariantViolation, "expiry overflows timestamp range")
	}
	return start + Timestamp(secs), nil
}
