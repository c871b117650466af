package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	At   time.Time `json:"createdAt"`
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}
func (failingStore) Del(context.Context, ...string) error    { return errors.New("down") }
func (failingStore) DelPrefix(context.Context, string) error { return errors.New("down") }

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		parts  []string
		want   string
	}{
		{name: "entity and tenant", entity: "students", parts: []string{"s1"}, want: "students:s1"},
		{name: "absent filter", entity: "certificates", parts: []string{"s1", ""}, want: "certificates:s1:all"},
		{name: "filter present", entity: "certificates", parts: []string{"s1", "st9"}, want: "certificates:s1:st9"},
		{name: "nested entity", entity: "leaves:pending", parts: []string{"s1"}, want: "leaves:pending:s1"},
		{name: "no parts", entity: "schools", want: "schools"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Key(tc.entity, tc.parts...))
		})
	}
}

func TestRemember_MissThenHit(t *testing.T) {
	ctx := context.Background()
	a := New(NewMemoryStore(), time.Minute)

	calls := 0
	load := func(context.Context) ([]row, error) {
		calls++
		return []row{{ID: "1", Name: "Asha", At: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}}, nil
	}

	first, err := Remember(ctx, a, "students:s1", load)
	require.NoError(t, err)
	second, err := Remember(ctx, a, "students:s1", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestRemember_LoaderErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := New(store, time.Minute)

	_, err := Remember(ctx, a, "k", func(context.Context) ([]row, error) {
		return nil, errors.New("db down")
	})
	require.Error(t, err)
	assert.Equal(t, 0, store.Len())
}

func TestRemember_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	a := New(store, 300*time.Second)

	calls := 0
	load := func(context.Context) (int, error) { calls++; return calls, nil }

	v, _ := Remember(ctx, a, "k", load)
	assert.Equal(t, 1, v)

	now = now.Add(299 * time.Second)
	v, _ = Remember(ctx, a, "k", load)
	assert.Equal(t, 1, v)

	now = now.Add(time.Second)
	v, _ = Remember(ctx, a, "k", load)
	assert.Equal(t, 2, v)
}

func TestRemember_StoreFailureFallsThrough(t *testing.T) {
	a := New(failingStore{}, time.Minute)
	calls := 0
	for i := 0; i < 2; i++ {
		v, err := Remember(context.Background(), a, "k", func(context.Context) (string, error) {
			calls++
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", v)
	}
	assert.Equal(t, 2, calls)
}

func TestRemember_NilAsideLoadsDirectly(t *testing.T) {
	v, err := Remember(context.Background(), nil, "k", func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestForgetAndForgetPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := New(store, time.Minute)

	for _, k := range []string{"marks:s1:all", "marks:s1:st1", "marks:s2:all", "students:s1"} {
		require.NoError(t, store.Set(ctx, k, []byte(`1`), time.Minute))
	}

	a.Forget(ctx, "students:s1")
	a.ForgetPrefix(ctx, Prefix("marks", "s1"))

	_, ok, _ := store.Get(ctx, "students:s1")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "marks:s1:st1")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "marks:s2:all")
	assert.True(t, ok, "other tenant untouched")
}
