package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreateThenUpdate(t *testing.T) {
	registry := NewMemoryRegistry()
	current := time.Unix(1700000000, 0)
	registry.now = func() time.Time { return current }
	ctx := context.Background()

	entry, created, err := registry.Upsert(ctx, "ABC-123", "https://example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ABC-123", entry.UniqueID)
	assert.Equal(t, "ABC-123", entry.Slug)
	assert.Equal(t, "https://example.com", entry.FinalURL)
	assert.Equal(t, current, entry.CreatedAt)
	assert.Equal(t, current, entry.UpdatedAt)

	current = current.Add(time.Minute)

	entry, created, err = registry.Upsert(ctx, "ABC-123", "https://example.org")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ABC-123", entry.Slug)
	assert.Equal(t, "https://example.org", entry.FinalURL)
	assert.Equal(t, time.Unix(1700000000, 0), entry.CreatedAt)
	assert.Equal(t, current, entry.UpdatedAt)
	assert.True(t, !entry.UpdatedAt.Before(entry.CreatedAt))

	stored, err := registry.Lookup(ctx, "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", stored.FinalURL)
}

func TestUpsertValidation(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	tests := []struct {
		name     string
		uniqueID string
		finalURL string
	}{
		{"empty unique_id", "", "https://example.com"},
		{"blank unique_id", "   ", "https://example.com"},
		{"empty final_url", "ABC-123", ""},
		{"missing scheme separator", "ABC-123", "https//example.com"},
		{"bare host", "ABC-123", "example.com"},
		{"scheme without host", "ABC-123", "mailto:dev@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := registry.Upsert(ctx, tt.uniqueID, tt.finalURL)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	entries, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected input must not mutate the registry")
}

func TestLookupMiss(t *testing.T) {
	registry := NewMemoryRegistry()

	_, err := registry.Lookup(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	_, _, err := registry.Upsert(ctx, "order 42", "https://example.com/orders/42")
	require.NoError(t, err)

	entry, err := registry.Resolve(ctx, "order-42")
	require.NoError(t, err)
	assert.Equal(t, "order 42", entry.UniqueID)
	assert.Equal(t, "https://example.com/orders/42", entry.FinalURL)

	_, err = registry.Resolve(ctx, "order 42")
	assert.ErrorIs(t, err, ErrNotFound, "resolution is by slug, not raw identifier")
}

func TestSanitizeSlug(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"ABC-123", "ABC-123"},
		{"snake_case_id", "snake_case_id"},
		{"Hello World!", "Hello-World-"},
		{"  spaced  ", "spaced"},
		{"a/b\\c", "a-b-c"},
		{"半角カナ", "-"},
		{"", "link"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSlug(tt.raw))
		})
	}
}

func TestSlugCollision(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	first, _, err := registry.Upsert(ctx, "a b", "https://example.com/1")
	require.NoError(t, err)
	assert.Equal(t, "a-b", first.Slug)

	second, _, err := registry.Upsert(ctx, "a*b", "https://example.com/2")
	require.NoError(t, err)
	assert.Equal(t, "a-b-1", second.Slug)

	third, _, err := registry.Upsert(ctx, "a+b", "https://example.com/3")
	require.NoError(t, err)
	assert.Equal(t, "a-b-2", third.Slug)

	// Each slug resolves to its own entry.
	entry, err := registry.Resolve(ctx, "a-b-1")
	require.NoError(t, err)
	assert.Equal(t, "a*b", entry.UniqueID)

	// Updates never change an existing slug.
	updated, created, err := registry.Upsert(ctx, "a*b", "https://example.com/2b")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "a-b-1", updated.Slug)
}

func TestListInsertionOrder(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	ids := []string{"gamma", "alpha", "beta"}
	for _, id := range ids {
		_, _, err := registry.Upsert(ctx, id, "https://example.com/"+id)
		require.NoError(t, err)
	}

	// Updating an early entry must not move it.
	_, _, err := registry.Upsert(ctx, "gamma", "https://example.org/gamma")
	require.NoError(t, err)

	entries, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, id := range ids {
		assert.Equal(t, id, entries[i].UniqueID)
	}
	assert.Equal(t, "https://example.org/gamma", entries[0].FinalURL)
}

func TestListReturnsCopies(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	_, _, err := registry.Upsert(ctx, "ABC-123", "https://example.com")
	require.NoError(t, err)

	entries, err := registry.List(ctx)
	require.NoError(t, err)
	entries[0].FinalURL = "https://tampered.example.com"

	stored, err := registry.Lookup(ctx, "ABC-123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", stored.FinalURL)
}

func TestConcurrentAccess(t *testing.T) {
	registry := NewMemoryRegistry()
	ctx := context.Background()

	const workers = 8
	const rounds = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				id := fmt.Sprintf("id-%d", i%10)
				_, _, err := registry.Upsert(ctx, id, fmt.Sprintf("https://example.com/%d/%d", w, i))
				assert.NoError(t, err)
				if _, err := registry.Lookup(ctx, id); err != nil {
					assert.ErrorIs(t, err, ErrNotFound)
				}
				_, err = registry.List(ctx)
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	entries, err := registry.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
	for _, entry := range entries {
		assert.True(t, !entry.UpdatedAt.Before(entry.CreatedAt))
		assert.NotEmpty(t, entry.FinalURL)
	}
}
