package service

import (
	"context"
	"encoding/json"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/workflow"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor identifies the authenticated user performing a transition. Identity
// comes from the JWT claims; the service never manages authentication itself.
type Actor struct {
	ID         string
	Name       string
	Role       string
	Department string
}

// Target binds a workflow operation to one governed entity collection.
type Target struct {
	Table      string // e.g. "vendors"
	EntityType string // audit entity_type, e.g. model.EntityVendor
}

// Approver pairs an approver id with its display name.
type Approver struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
}

// WorkflowSnapshot is the transition result returned to handlers.
type WorkflowSnapshot struct {
	ID      string                   `json:"id"`
	Status  workflow.Status          `json:"status"`
	Summary workflow.ApprovalSummary `json:"approval_status"`
	State   workflow.State           `json:"workflow"`
}

// FinalApproveGate is an optional business-rule precondition evaluated inside
// the transaction before final approval (e.g. risk acceptance for high-risk
// vendors). It is not part of the generic engine.
type FinalApproveGate func(ctx context.Context) error

// WorkflowService drives the approval lifecycle of any governed entity.
// Permission checks happen in the middleware layer before these are invoked;
// the service enforces structural preconditions and atomic persistence only.
type WorkflowService interface {
	Get(ctx context.Context, target Target, id string) (*WorkflowSnapshot, error)
	Submit(ctx context.Context, target Target, id string, actor Actor) (*WorkflowSnapshot, error)
	Review(ctx context.Context, target Target, id string, actor Actor, approvers []Approver, comment string) (*WorkflowSnapshot, error)
	Approve(ctx context.Context, target Target, id string, actor Actor, comment string) (*WorkflowSnapshot, error)
	FinalApprove(ctx context.Context, target Target, id string, actor Actor, comment string, gate FinalApproveGate) (*WorkflowSnapshot, error)
	Reject(ctx context.Context, target Target, id string, actor Actor, reason string) (*WorkflowSnapshot, error)
	Return(ctx context.Context, target Target, id string, actor Actor, reason string) (*WorkflowSnapshot, error)
	Resubmit(ctx context.Context, target Target, id string, actor Actor) (*WorkflowSnapshot, error)
	Reopen(ctx context.Context, target Target, id string, actor Actor, reason string, to workflow.Status) (*WorkflowSnapshot, error)
}

// Notifier decouples the service from the WebSocket hub.
type Notifier interface {
	NotifyUser(ctx context.Context, userID, title, message, kind string)
	NotifyUsers(ctx context.Context, userIDs []string, title, message, kind string)
}

type workflowService struct {
	db       *gorm.DB
	store    repository.WorkflowStore
	tx       repository.TransactionManager
	notifier Notifier
}

// NewWorkflowService returns a new instance of WorkflowService
func NewWorkflowService(db *gorm.DB, store repository.WorkflowStore, tx repository.TransactionManager, notifier Notifier) WorkflowService {
	return &workflowService{db: db, store: store, tx: tx, notifier: notifier}
}

// envelopeRow is the minimal projection needed to run a transition.
type envelopeRow struct {
	Status   workflow.Status
	Workflow string
	Version  int
}

func (s *workflowService) loadEnvelope(ctx context.Context, target Target, id uuid.UUID) (*envelopeRow, *workflow.State, error) {
	var row envelopeRow
	err := repository.GetDB(ctx, s.db).Table(target.Table).
		Select("status, workflow, version").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("%w: %s %s", apperr.ErrNotFound, target.EntityType, id)
		}
		return nil, nil, fmt.Errorf("failed to load %s workflow: %w", target.EntityType, err)
	}

	st := &workflow.State{}
	if row.Workflow != "" {
		if err := json.Unmarshal([]byte(row.Workflow), st); err != nil {
			return nil, nil, fmt.Errorf("corrupt workflow document on %s %s: %w", target.EntityType, id, err)
		}
	}
	return &row, st, nil
}

// mutator applies one engine operation and returns the next status.
type mutator func(st *workflow.State, status workflow.Status) (workflow.Status, error)

// transition is the shared read-modify-write path: load the envelope, run the
// engine, persist conditionally on the loaded version, and write the audit
// row — all in one transaction. Notifications go out after commit.
func (s *workflowService) transition(ctx context.Context, target Target, rawID string, actor Actor, auditAction string, apply mutator) (*WorkflowSnapshot, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s id %q", apperr.ErrNotFound, target.EntityType, rawID)
	}

	var snap *WorkflowSnapshot
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, st, err := s.loadEnvelope(txCtx, target, id)
		if err != nil {
			return err
		}

		before := len(st.History)
		next, err := apply(st, row.Status)
		if err != nil {
			return err
		}

		// Idempotent no-op (duplicate approval): nothing changed, so nothing
		// is persisted and no audit row is written.
		if next == row.Status && len(st.History) == before {
			snap = &WorkflowSnapshot{ID: id.String(), Status: next, Summary: st.ApprovalStatus(), State: *st}
			return nil
		}

		if err := s.store.SaveTransition(txCtx, target.Table, id, row.Version, next, st); err != nil {
			return err
		}

		if err := s.recordAudit(txCtx, actor, auditAction, target.EntityType, id, next); err != nil {
			return err
		}

		snap = &WorkflowSnapshot{ID: id.String(), Status: next, Summary: st.ApprovalStatus(), State: *st}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyTransition(ctx, target, snap, actor)
	return snap, nil
}

func (s *workflowService) recordAudit(ctx context.Context, actor Actor, action, entityType string, id uuid.UUID, status workflow.Status) error {
	var userID *uuid.UUID
	if parsed, err := uuid.Parse(actor.ID); err == nil {
		userID = &parsed
	}
	details, _ := json.Marshal(map[string]interface{}{
		"status": status,
		"role":   actor.Role,
	})
	audit := model.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   id.String(),
		EntityName: actor.Name,
		Details:    string(details),
	}
	if err := repository.GetDB(ctx, s.db).Create(&audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// notifyTransition fans out best-effort notifications after a committed
// transition. Failures here never fail the transition itself.
func (s *workflowService) notifyTransition(ctx context.Context, target Target, snap *WorkflowSnapshot, actor Actor) {
	if s.notifier == nil || snap == nil {
		return
	}

	title := fmt.Sprintf("%s %s", target.EntityType, snap.Status)
	switch snap.Status {
	case workflow.StatusReviewed:
		msg := fmt.Sprintf("%s assigned you as approver on a %s", actor.Name, target.EntityType)
		s.notifier.NotifyUsers(ctx, snap.State.AssignedApprovers, title, msg, "approval")
	case workflow.StatusRejected, workflow.StatusReturned, workflow.StatusFinalApproved:
		if snap.State.SubmittedBy != "" {
			msg := fmt.Sprintf("Your %s is now %s", target.EntityType, snap.Status)
			s.notifier.NotifyUser(ctx, snap.State.SubmittedBy, title, msg, "info")
		}
	}
}

func (s *workflowService) Get(ctx context.Context, target Target, rawID string) (*WorkflowSnapshot, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s id %q", apperr.ErrNotFound, target.EntityType, rawID)
	}
	row, st, err := s.loadEnvelope(ctx, target, id)
	if err != nil {
		return nil, err
	}
	return &WorkflowSnapshot{ID: rawID, Status: row.Status, Summary: st.ApprovalStatus(), State: *st}, nil
}

func (s *workflowService) Submit(ctx context.Context, target Target, id string, actor Actor) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionSubmit, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		return st.Submit(status, actor.ID, actor.Name)
	})
}

func (s *workflowService) Review(ctx context.Context, target Target, id string, actor Actor, approvers []Approver, comment string) (*WorkflowSnapshot, error) {
	ids := make([]string, 0, len(approvers))
	names := make([]string, 0, len(approvers))
	for _, a := range approvers {
		ids = append(ids, a.ID)
		names = append(names, a.Name)
	}
	return s.transition(ctx, target, id, actor, model.ActionReview, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		return st.ReviewAndAssign(status, actor.ID, actor.Name, ids, names, comment)
	})
}

func (s *workflowService) Approve(ctx context.Context, target Target, id string, actor Actor, comment string) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionApprove, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		next, _, err := st.Approve(status, actor.ID, actor.Name, comment)
		return next, err
	})
}

func (s *workflowService) FinalApprove(ctx context.Context, target Target, id string, actor Actor, comment string, gate FinalApproveGate) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionFinalApprove, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		if gate != nil {
			if err := gate(ctx); err != nil {
				return status, err
			}
		}
		return st.FinalApprove(status, actor.ID, actor.Name, comment)
	})
}

func (s *workflowService) Reject(ctx context.Context, target Target, id string, actor Actor, reason string) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionReject, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		return st.Reject(status, actor.ID, actor.Name, reason)
	})
}

func (s *workflowService) Return(ctx context.Context, target Target, id string, actor Actor, reason string) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionReturn, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		return st.ReturnForClarification(status, actor.ID, actor.Name, reason)
	})
}

func (s *workflowService) Resubmit(ctx context.Context, target Target, id string, actor Actor) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionResubmit, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		return st.Resubmit(status, actor.ID, actor.Name)
	})
}

func (s *workflowService) Reopen(ctx context.Context, target Target, id string, actor Actor, reason string, to workflow.Status) (*WorkflowSnapshot, error) {
	return s.transition(ctx, target, id, actor, model.ActionReopen, func(st *workflow.State, status workflow.Status) (workflow.Status, error) {
		return st.Reopen(status, actor.ID, actor.Name, reason, to)
	})
}
