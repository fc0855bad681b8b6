package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ms := NewMemory()
	ctx := context.Background()

	err := ms.SetJSON(ctx, "k", payload{Name: "acme", Count: 3}, 0)
	assert.NoError(t, err)

	var got payload
	hit, err := ms.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{Name: "acme", Count: 3}, got)
}

func TestMemoryStore_MissOnUnknownKey(t *testing.T) {
	ms := NewMemory()

	var got payload
	hit, err := ms.GetJSON(context.Background(), "missing", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStore_Delete(t *testing.T) {
	ms := NewMemory()
	ctx := context.Background()

	assert.NoError(t, ms.SetJSON(ctx, "a", payload{Name: "a"}, 0))
	assert.NoError(t, ms.SetJSON(ctx, "b", payload{Name: "b"}, 0))
	assert.NoError(t, ms.Delete(ctx, "a", "b"))

	var got payload
	hit, err := ms.GetJSON(ctx, "a", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ms := NewMemory()
	ctx := context.Background()

	current := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return current }

	assert.NoError(t, ms.SetJSON(ctx, "k", payload{Name: "acme"}, 10*time.Minute))

	var got payload
	hit, err := ms.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.True(t, hit)

	// TTL 边界上仍然有效
	current = current.Add(10 * time.Minute)
	hit, err = ms.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.True(t, hit)

	current = current.Add(time.Second)
	hit, err = ms.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStore_ZeroTTLNeverExpires(t *testing.T) {
	ms := NewMemory()
	ctx := context.Background()

	current := time.Date(2024, 4, 10, 12, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return current }

	assert.NoError(t, ms.SetJSON(ctx, "k", payload{Name: "acme"}, 0))

	current = current.AddDate(1, 0, 0)
	var got payload
	hit, err := ms.GetJSON(ctx, "k", &got)
	assert.NoError(t, err)
	assert.True(t, hit)
}
