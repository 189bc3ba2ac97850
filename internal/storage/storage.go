package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ryandol1/qrserver/internal/util"
)

var (
	// ErrNotFound reports a lookup for an identifier or slug that was
	// never registered.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports a missing identifier or a missing or
	// malformed destination URL.
	ErrInvalidInput = errors.New("invalid input")
)

type (
	// Registry is the authoritative mapping from identifier to redirect
	// entry. Implementations must be safe for concurrent use.
	Registry interface {
		Upsert(ctx context.Context, uniqueID, finalURL string) (Entry, bool, error)
		Lookup(ctx context.Context, uniqueID string) (Entry, error)
		Resolve(ctx context.Context, slug string) (Entry, error)
		List(ctx context.Context) ([]Entry, error)
	}

	// Entry is one registered redirect. Reads hand out copies, so holding
	// an Entry never observes later updates.
	Entry struct {
		UniqueID  string
		FinalURL  string
		Slug      string
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	// MemoryRegistry keeps entries for the lifetime of the process. A
	// single RWMutex guards the whole collection: upserts take the write
	// lock, reads the read lock, so an upsert on an identifier is atomic
	// with respect to every other operation.
	MemoryRegistry struct {
		mu      sync.RWMutex
		entries map[string]*Entry
		bySlug  map[string]string
		order   []string
		now     func() time.Time
	}
)

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[string]*Entry),
		bySlug:  make(map[string]string),
		now:     time.Now,
	}
}

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// sanitizeSlug converts an identifier into a URL-safe path segment: runs of
// characters outside [a-zA-Z0-9_-] collapse into a single dash.
func sanitizeSlug(raw string) string {
	cleaned := slugPattern.ReplaceAllString(strings.TrimSpace(raw), "-")
	if cleaned == "" {
		return "link"
	}
	return cleaned
}

// uniqueSlug appends -1, -2, ... until the candidate is free. Callers must
// hold the write lock.
func (r *MemoryRegistry) uniqueSlug(candidate string) string {
	slug := candidate
	for suffix := 1; ; suffix++ {
		if _, taken := r.bySlug[slug]; !taken {
			return slug
		}
		slug = fmt.Sprintf("%s-%d", candidate, suffix)
	}
}

// Upsert registers finalURL under uniqueID. The first registration creates
// the entry and derives its slug; later ones replace the destination and
// bump UpdatedAt, leaving slug and CreatedAt untouched. The returned flag
// distinguishes creation from update.
func (r *MemoryRegistry) Upsert(_ context.Context, uniqueID, finalURL string) (Entry, bool, error) {
	uniqueID = strings.TrimSpace(uniqueID)
	if uniqueID == "" {
		return Entry{}, false, fmt.Errorf("unique_id is required: %w", ErrInvalidInput)
	}
	if finalURL == "" {
		return Entry{}, false, fmt.Errorf("final_url is required: %w", ErrInvalidInput)
	}
	if _, err := util.ParseURL(finalURL); err != nil {
		return Entry{}, false, fmt.Errorf("%s: %w", err, ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if entry, ok := r.entries[uniqueID]; ok {
		entry.FinalURL = finalURL
		entry.UpdatedAt = now
		return *entry, false, nil
	}

	entry := &Entry{
		UniqueID:  uniqueID,
		FinalURL:  finalURL,
		Slug:      r.uniqueSlug(sanitizeSlug(uniqueID)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.entries[uniqueID] = entry
	r.bySlug[entry.Slug] = uniqueID
	r.order = append(r.order, uniqueID)
	return *entry, true, nil
}

// Lookup returns the entry registered under uniqueID.
func (r *MemoryRegistry) Lookup(_ context.Context, uniqueID string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[uniqueID]
	if !ok {
		return Entry{}, fmt.Errorf("unique_id %q: %w", uniqueID, ErrNotFound)
	}
	return *entry, nil
}

// Resolve returns the entry whose derived slug matches. Redirect endpoints
// resolve by slug, which equals the identifier whenever it was URL-safe.
func (r *MemoryRegistry) Resolve(_ context.Context, slug string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	uniqueID, ok := r.bySlug[slug]
	if !ok {
		return Entry{}, fmt.Errorf("slug %q: %w", slug, ErrNotFound)
	}
	return *r.entries[uniqueID], nil
}

// List returns a snapshot of all entries in the order their identifiers
// were first registered. Updates never reorder the listing.
func (r *MemoryRegistry) List(_ context.Context) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Entry, 0, len(r.order))
	for _, uniqueID := range r.order {
		list = append(list, *r.entries[uniqueID])
	}
	return list, nil
}
