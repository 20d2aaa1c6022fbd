package rates

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/de-tools/invoice-atlas/pkg/models/domain"
	storemodels "github.com/de-tools/invoice-atlas/pkg/models/store"
	ratestore "github.com/de-tools/invoice-atlas/pkg/store/duckdb/rates"
)

// NotFoundError reports a classification with neither a location-specific nor
// a default rate standard. This is a data-completeness problem for the rate
// seed, not a transient fault.
type NotFoundError struct {
	Classification domain.Classification
	Location       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no rate standard for classification %q at %q or %q",
		e.Classification, e.Location, domain.DefaultLocation)
}

// Resolver resolves classification rate standards with a default-location
// fallback.
type Resolver interface {
	Resolve(ctx context.Context, classification domain.Classification, location string) (domain.RateStandard, error)
}

type cachedResolver struct {
	store ratestore.Store

	mu    sync.RWMutex
	cache map[string]domain.RateStandard
}

// NewCachedResolver wraps a rate store with a run-scoped cache. Standards are
// read-only during an audit, so entries are never invalidated; concurrent
// first resolutions of the same key are idempotent.
func NewCachedResolver(store ratestore.Store) Resolver {
	return &cachedResolver{
		store: store,
		cache: make(map[string]domain.RateStandard),
	}
}

func (r *cachedResolver) Resolve(ctx context.Context, classification domain.Classification, location string) (domain.RateStandard, error) {
	if location == "" {
		location = domain.DefaultLocation
	}
	key := string(classification) + ":" + location

	r.mu.RLock()
	std, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return std, nil
	}

	rec, err := r.store.Get(ctx, string(classification), location)
	if errors.Is(err, ratestore.ErrNotFound) && location != domain.DefaultLocation {
		rec, err = r.store.Get(ctx, string(classification), domain.DefaultLocation)
	}
	if errors.Is(err, ratestore.ErrNotFound) {
		return domain.RateStandard{}, &NotFoundError{Classification: classification, Location: location}
	}
	if err != nil {
		return domain.RateStandard{}, fmt.Errorf("resolve rate standard: %w", err)
	}

	std = mapRecord(rec)

	r.mu.Lock()
	r.cache[key] = std
	r.mu.Unlock()

	return std, nil
}

func mapRecord(rec storemodels.RateRecord) domain.RateStandard {
	return domain.RateStandard{
		Classification:    domain.Classification(rec.Classification),
		Location:          rec.Location,
		HourlyRate:        rec.HourlyRate,
		OvertimeThreshold: rec.OvertimeThreshold,
		Description:       rec.Description,
	}
}
