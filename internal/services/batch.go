package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryandol1/qrserver/internal/models"
	"github.com/ryandol1/qrserver/internal/storage"
	"github.com/ryandol1/qrserver/internal/util"
)

// Result is the per-item outcome of a batch registration.
type Result struct {
	Entry   storage.Entry
	Created bool
}

// RegisterBatch registers every item or none: all items are validated before
// the first upsert, so one malformed item rejects the whole batch without
// mutating the registry. Items are registered in order, which means a
// duplicated identifier within one batch comes back as created and then
// updated.
func RegisterBatch(ctx context.Context, registry storage.Registry, items []models.WebhookRequest) ([]Result, error) {
	if len(items) == 0 {
		return nil, errors.New("batch is empty")
	}

	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, err := util.ParseURL(items[i].FinalURL); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		entry, created, err := registry.Upsert(ctx, item.UniqueID, item.FinalURL)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Entry: entry, Created: created})
	}
	return results, nil
}
