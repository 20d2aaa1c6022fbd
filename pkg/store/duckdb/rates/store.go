package rates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/invoice-atlas/pkg/models/store"
)

// ErrNotFound is returned when no rate standard exists for a
// (classification, location) pair. Location fallback is the resolver's
// concern, not the store's.
var ErrNotFound = errors.New("rate standard not found")

// Store reads and seeds rate standards. Standards are seeded once at
// deployment and read-only at audit time.
type Store interface {
	Get(ctx context.Context, classification, location string) (store.RateRecord, error)
	Seed(ctx context.Context, records []store.RateRecord) error
}

type rateStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &rateStore{db: db}, nil
}

func (r *rateStore) Get(ctx context.Context, classification, location string) (store.RateRecord, error) {
	query := `
		SELECT classification, location, hourly_rate, overtime_threshold, COALESCE(description, '')
		FROM rate_standards
		WHERE classification = ? AND location = ?`

	var rec store.RateRecord
	err := r.db.QueryRowContext(ctx, query, classification, location).Scan(
		&rec.Classification,
		&rec.Location,
		&rec.HourlyRate,
		&rec.OvertimeThreshold,
		&rec.Description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.RateRecord{}, fmt.Errorf("%s/%s: %w", classification, location, ErrNotFound)
	}
	if err != nil {
		return store.RateRecord{}, fmt.Errorf("query rate standard: %w", err)
	}
	return rec, nil
}

func (r *rateStore) Seed(ctx context.Context, records []store.RateRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO rate_standards (
			classification, location, hourly_rate, overtime_threshold, description
		) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seed statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		location := rec.Location
		if location == "" {
			location = "default"
		}
		_, err = stmt.ExecContext(ctx,
			rec.Classification,
			location,
			rec.HourlyRate,
			rec.OvertimeThreshold,
			rec.Description,
		)
		if err != nil {
			return fmt.Errorf("seed rate standard %s/%s: %w", rec.Classification, location, err)
		}
	}

	return tx.Commit()
}
