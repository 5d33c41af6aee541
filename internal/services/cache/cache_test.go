package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", "v")
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestExpiredEntriesAreMisses(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("k", 42)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", 1)
	c.Delete("k")

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDeletePrefixClearsAllListVariants(t *testing.T) {
	c := New(time.Minute)
	c.Set(ListKey("", "desc"), 1)
	c.Set(ListKey("beach", "asc"), 2)
	c.Set(EntryKey(7), 3)

	c.DeletePrefix(ListPrefix)

	_, ok := c.Get(ListKey("", "desc"))
	assert.False(t, ok)
	_, ok = c.Get(ListKey("beach", "asc"))
	assert.False(t, ok)

	// Entry keys survive list invalidation
	got, ok := c.Get(EntryKey(7))
	assert.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestStatsCountHitsAndMisses(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", 1)

	c.Get("k")
	c.Get("k")
	c.Get("nope")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestKeysDistinguishQueries(t *testing.T) {
	assert.NotEqual(t, ListKey("a", "asc"), ListKey("a", "desc"))
	assert.NotEqual(t, ListKey("a", "asc"), ListKey("b", "asc"))
	assert.NotEqual(t, EntryKey(1), EntryKey(2))

	// Escaping keeps adversarial queries from colliding with other keys
	assert.NotEqual(t, ListKey("a&sort=asc", "desc"), ListKey("a", "asc"))
}
