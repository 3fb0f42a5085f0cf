package models

import (
	"encoding/json"
	"math/big"

	dErrors "edureward/pkg/domain-errors"
)

var (
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Amount is a signed 128-bit token quantity. The zero value is 0.
//
// Invariants:
//   - value lies in [-2^127, 2^127-1]
//   - values are immutable; arithmetic returns new Amounts
type Amount struct {
	v *big.Int
}

// NewAmount returns an Amount for a machine integer.
func NewAmount(v int64) Amount {
	return Amount{v: big.NewInt(v)}
}

// ParseAmount parses a base-10 integer string and enforces the 128-bit range.
func ParseAmount(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, dErrors.New(dErrors.CodeInvalidInput, "amount must be a base-10 integer")
	}
	if !inRange(v) {
		return Amount{}, dErrors.New(dErrors.CodeInvalidInput, "amount exceeds 128-bit range")
	}
	return Amount{v: v}, nil
}

func inRange(v *big.Int) bool {
	return v.Cmp(minAmount) >= 0 && v.Cmp(maxAmount) <= 0
}

func (a Amount) big() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Add returns a+b, or an invariant violation when the sum leaves the 128-bit range.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := new(big.Int).Add(a.big(), b.big())
	if !inRange(sum) {
		return Amount{}, dErrors.New(dErrors.CodeInvariantViolation, "amount overflows 128-bit range")
	}
	return Amount{v: sum}, nil
}

// Sub returns a-b, or an invariant violation when the difference leaves the 128-bit range.
func (a Amount) Sub(b Amount) (Amount, error) {
	diff := new(big.Int).Sub(a.big(), b.big())
	if !inRange(diff) {
		return Amount{}, dErrors.New(dErrors.CodeInvariantViolation, "amount overflows 128-bit range")
	}
	return Amount{v: diff}, nil
}

// Sign returns -1, 0 or +1.
func (a Amount) Sign() int {
	return a.big().Sign()
}

// Cmp compares a and b.
func (a Amount) Cmp(b Amount) int {
	return a.big().Cmp(b.big())
}

// Equal reports whether a and b hold the same value.
func (a Amount) Equal(b Amount) bool {
	return a.Cmp(b) == 0
}

// BigInt returns a copy of the underlying value.
func (a Amount) BigInt() *big.Int {
	return new(big.Int).Set(a.big())
}

func (a Amount) String() string {
	return a.big().String()
}

// MarshalJSON encodes the amount as a decimal string; int128 does not fit a JSON number safely.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be a decimal string")
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
