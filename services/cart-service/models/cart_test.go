package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemIDRoundTrip(t *testing.T) {
	for _, pid := range []int64{1, 7, 42, 1000003, 9007199254740993} {
		id := ItemIDFor(pid)
		got, err := ProductIDFrom(id)
		require.NoError(t, err)
		assert.Equal(t, pid, got, id)
	}
	assert.Equal(t, "ITEM#42", ItemIDFor(42))
}

func TestProductIDFrom_Invalid(t *testing.T) {
	_, err := ProductIDFrom("PRODUCT#1")
	assert.Error(t, err)
	_, err = ProductIDFrom("ITEM#abc")
	assert.Error(t, err)
}

func TestPrepare_KeepsExistingValues(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := int64(123)
	it := CartItem{ProductID: 5, AddedAt: "earlier", TTL: &ttl}
	it.Prepare(now, 30)

	assert.Equal(t, "ITEM#5", it.ItemID)
	assert.Equal(t, "earlier", it.AddedAt)
	assert.Equal(t, int64(123), *it.TTL)
}

func TestPrepare_FillsDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	it := CartItem{ProductID: 5}
	it.Prepare(now, 30)

	assert.Equal(t, "2026-03-01T12:00:00Z", it.AddedAt)
	assert.Equal(t, now.AddDate(0, 0, 30).Unix(), *it.TTL)
	assert.False(t, it.Expired(now))
	assert.True(t, it.Expired(now.AddDate(0, 0, 31)))
}

func TestSubtotal(t *testing.T) {
	it := CartItem{Quantity: 3, Price: decimal.RequireFromString("0.10")}
	assert.Equal(t, "0.30", Amount(it.Subtotal()).String())
}

func TestValidUserID(t *testing.T) {
	for _, id := range []string{"u1", "user_42", "a.b@example.com", "0f8c-11"} {
		assert.True(t, ValidUserID(id), id)
	}
	for _, id := range []string{"", "a:ITEM#1", "a:b", "a#b", "a b", "u*", strings.Repeat("x", 129)} {
		assert.False(t, ValidUserID(id), id)
	}
}
