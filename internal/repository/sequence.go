package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// NextNumber generates a sequential entity number in the format
// {Type}-{YY}-{NNNN}, e.g. Vendor-25-0001. Counters are per entity type and
// year; the upsert increments atomically so concurrent callers never receive
// the same number.
func NextNumber(ctx context.Context, db *gorm.DB, entityType string) (string, error) {
	now := time.Now().UTC()
	counterID := fmt.Sprintf("%s_%d", entityType, now.Year())

	var sequence int64
	err := GetDB(ctx, db).Raw(`
		INSERT INTO sequence_counters (id, sequence) VALUES (?, 1)
		ON CONFLICT (id) DO UPDATE SET sequence = sequence_counters.sequence + 1
		RETURNING sequence
	`, counterID).Scan(&sequence).Error
	if err != nil {
		return "", fmt.Errorf("failed to increment sequence counter %s: %w", counterID, err)
	}

	return FormatNumber(entityType, now.Year(), sequence), nil
}

// FormatNumber renders the canonical entity number for a type, year, and
// sequence value.
func FormatNumber(entityType string, year int, sequence int64) string {
	return fmt.Sprintf("%s-%02d-%04d", entityType, year%100, sequence)
}
