package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type address string

func (a address) String() string { return string(a) }

func TestExtractString(t *testing.T) {
	list := []any{"subject", address("alice"), "amount", "100", "count", 3, "dangling"}

	assert.Equal(t, "alice", ExtractString(list, "subject"), "stringers are rendered")
	assert.Equal(t, "100", ExtractString(list, "amount"))
	assert.Empty(t, ExtractString(list, "count"), "non-string values yield empty")
	assert.Empty(t, ExtractString(list, "dangling"), "keys without values are ignored")
	assert.Empty(t, ExtractString(nil, "subject"))
}

func TestExtractUint(t *testing.T) {
	list := []any{"count", 3, "big", uint64(1 << 40), "neg", -1}

	n, ok := ExtractUint(list, "count")
	assert.True(t, ok)
	assert.Equal(t, uint64(3), n)

	n, ok = ExtractUint(list, "big")
	assert.True(t, ok)
	assert.Equal(t, uint64(1<<40), n)

	_, ok = ExtractUint(list, "neg")
	assert.False(t, ok)
	_, ok = ExtractUint(list, "missing")
	assert.False(t, ok)
}
