// Package workflow implements the multi-stage approval state machine shared
// by every governed entity (vendors, tenders, contracts, purchase orders,
// invoices, resources, service requests, assets).
//
// The engine mutates a State sub-document and returns the next Status; it
// checks structural preconditions only. Callers authorize the actor through
// internal/permission before invoking any operation, and persist the result
// atomically together with the parent record's status column.
package workflow

import "time"

// Status is the derived lifecycle status stored on the parent entity.
type Status string

const (
	StatusDraft              Status = "draft"
	StatusPendingReview      Status = "pending_review"
	StatusReviewed           Status = "reviewed"
	StatusApprovedByApprover Status = "approved_by_approver"
	StatusFinalApproved      Status = "final_approved"
	StatusRejected           Status = "rejected"
	StatusReturned           Status = "returned_for_clarification"
)

// Action identifies a workflow history entry type.
type Action string

const (
	ActionCreated       Action = "created"
	ActionSubmitted     Action = "submitted"
	ActionReviewed      Action = "reviewed"
	ActionApproved      Action = "approved"
	ActionRejected      Action = "rejected"
	ActionReturned      Action = "returned"
	ActionFinalApproved Action = "final_approved"
	ActionReopened      Action = "reopened"
)

// ApprovalRecord is one approver's recorded approval. At most one record per
// approver id exists per review round.
type ApprovalRecord struct {
	ApproverID   string    `json:"approver_id"`
	ApproverName string    `json:"approver_name"`
	Approved     bool      `json:"approved"`
	Comment      string    `json:"comment,omitempty"`
	ApprovedAt   time.Time `json:"approved_at"`
}

// RejectionRecord is a recorded rejection. A single rejection is terminal
// for the round it was raised in.
type RejectionRecord struct {
	RejectedBy     string    `json:"rejected_by"`
	RejectedByName string    `json:"rejected_by_name"`
	Reason         string    `json:"reason"`
	RejectedAt     time.Time `json:"rejected_at"`
}

// ClarificationRequest is the single active return-for-clarification marker.
type ClarificationRequest struct {
	By     string    `json:"by"`
	ByName string    `json:"by_name"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// HistoryEntry is one immutable line in the record's audit narrative.
type HistoryEntry struct {
	Action  Action    `json:"action"`
	By      string    `json:"by"`
	ByName  string    `json:"by_name"`
	At      time.Time `json:"at"`
	Comment string    `json:"comment,omitempty"`
}

// State is the workflow sub-document embedded in every governed entity,
// persisted as a single jsonb column. It is mutated only through the engine
// operations in this package.
type State struct {
	SubmittedBy     string     `json:"submitted_by,omitempty"`
	SubmittedByName string     `json:"submitted_by_name,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`

	ReviewedBy     string     `json:"reviewed_by,omitempty"`
	ReviewedByName string     `json:"reviewed_by_name,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`

	AssignedApprovers     []string `json:"assigned_approvers,omitempty"`
	AssignedApproverNames []string `json:"assigned_approver_names,omitempty"`

	Approvals  []ApprovalRecord  `json:"approvals,omitempty"`
	Rejections []RejectionRecord `json:"rejections,omitempty"`

	FinalApprovedBy     string     `json:"final_approved_by,omitempty"`
	FinalApprovedByName string     `json:"final_approved_by_name,omitempty"`
	FinalApprovedAt     *time.Time `json:"final_approved_at,omitempty"`

	ReturnedForClarification *ClarificationRequest `json:"returned_for_clarification,omitempty"`

	History []HistoryEntry `json:"history"`
}

// addHistory appends an entry to the audit trail. Always the last step of a
// successful mutation so a failed transition never leaves a partial entry.
func (s *State) addHistory(action Action, by, byName, comment string) {
	s.History = append(s.History, HistoryEntry{
		Action:  action,
		By:      by,
		ByName:  byName,
		At:      time.Now().UTC(),
		Comment: comment,
	})
}

// hasApproved reports whether the given approver already approved this round.
func (s *State) hasApproved(approverID string) bool {
	for _, a := range s.Approvals {
		if a.ApproverID == approverID {
			return true
		}
	}
	return false
}

// isAssigned reports whether the given user is on the current approver list.
func (s *State) isAssigned(userID string) bool {
	for _, id := range s.AssignedApprovers {
		if id == userID {
			return true
		}
	}
	return false
}

// ApprovalSummary is the derived approval progress for the current round.
type ApprovalSummary struct {
	TotalApprovers int  `json:"total_approvers"`
	ApprovedCount  int  `json:"approved_count"`
	RejectedCount  int  `json:"rejected_count"`
	PendingCount   int  `json:"pending_count"`
	AllApproved    bool `json:"all_approved"`
}

// ApprovalStatus derives the current round's progress from the assigned
// approver list and recorded approvals. Pure read, no mutation.
func (s *State) ApprovalStatus() ApprovalSummary {
	total := len(s.AssignedApprovers)
	approved := 0
	for _, a := range s.Approvals {
		if a.Approved {
			approved++
		}
	}
	return ApprovalSummary{
		TotalApprovers: total,
		ApprovedCount:  approved,
		RejectedCount:  len(s.Rejections),
		PendingCount:   total - approved,
		AllApproved:    approved == total && total > 0,
	}
}
