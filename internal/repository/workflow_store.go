package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/workflow"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowStore persists workflow transitions for any governed entity table.
// Every save is a single conditional UPDATE keyed on the expected version, so
// two concurrent transitions on the same record cannot clobber each other:
// the loser gets ErrConflict and no partial state is ever written.
type WorkflowStore interface {
	SaveTransition(ctx context.Context, table string, id uuid.UUID, expectedVersion int, status workflow.Status, st *workflow.State) error
}

type workflowStore struct {
	db *gorm.DB
}

// NewWorkflowStore returns a new instance of WorkflowStore
func NewWorkflowStore(db *gorm.DB) WorkflowStore {
	return &workflowStore{db: db}
}

func (s *workflowStore) SaveTransition(ctx context.Context, table string, id uuid.UUID, expectedVersion int, status workflow.Status, st *workflow.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode workflow state: %w", err)
	}

	db := GetDB(ctx, s.db)
	res := db.Table(table).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(status),
			"workflow":   string(raw),
			"version":    expectedVersion + 1,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to persist workflow transition: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a stale version from a missing record
		var count int64
		if err := db.Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check record existence: %w", err)
		}
		if count == 0 {
			return fmt.Errorf("%w: %s %s", apperr.ErrNotFound, table, id)
		}
		return fmt.Errorf("%w: %s %s was modified concurrently", apperr.ErrConflict, table, id)
	}
	return nil
}
