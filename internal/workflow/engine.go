package workflow

import (
	"fmt"
	"time"

	"backend/pkg/apperr"
)

// transitions is the exhaustive status transition table. Anything not listed
// here is rejected — there is no fall-through that permits arbitrary jumps.
var transitions = map[Status]map[Action]Status{
	StatusDraft: {
		ActionSubmitted: StatusPendingReview,
	},
	StatusPendingReview: {
		ActionReviewed: StatusReviewed,
		ActionRejected: StatusRejected,
		ActionReturned: StatusReturned,
	},
	StatusReviewed: {
		ActionApproved: StatusApprovedByApprover,
		ActionRejected: StatusRejected,
		ActionReturned: StatusReturned,
	},
	StatusApprovedByApprover: {
		ActionFinalApproved: StatusFinalApproved,
		ActionRejected:      StatusRejected,
		ActionReturned:      StatusReturned,
	},
	StatusReturned: {
		ActionSubmitted: StatusPendingReview,
	},
	StatusFinalApproved: {
		ActionReopened: StatusDraft,
	},
	StatusRejected: {
		ActionReopened: StatusDraft,
	},
}

// next resolves the transition table, failing with ErrPrecondition when the
// action is not valid from the current status.
func next(from Status, action Action) (Status, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return from, fmt.Errorf("%w: cannot %s from status %s", apperr.ErrPrecondition, action, from)
}

// Create initializes a fresh workflow for a newly created record. The first
// history entry is written immediately so history is never empty.
func Create(userID, userName string) (State, Status) {
	st := State{}
	st.addHistory(ActionCreated, userID, userName, "Request created")
	return st, StatusDraft
}

// Submit moves a draft into review. Only the draft owner may submit; an
// unowned draft (created by import) is claimed by the submitter.
func (s *State) Submit(status Status, userID, userName string) (Status, error) {
	to, err := next(status, ActionSubmitted)
	if err != nil {
		return status, err
	}
	if status != StatusDraft {
		return status, fmt.Errorf("%w: submit is only valid from %s, use resubmit", apperr.ErrPrecondition, StatusDraft)
	}
	if s.SubmittedBy != "" && s.SubmittedBy != userID {
		return status, fmt.Errorf("%w: draft is owned by another user", apperr.ErrPrecondition)
	}

	now := time.Now().UTC()
	s.SubmittedBy = userID
	s.SubmittedByName = userName
	s.SubmittedAt = &now
	s.addHistory(ActionSubmitted, userID, userName, "Submitted for review")
	return to, nil
}

// ReviewAndAssign records the reviewer and installs the approver list for a
// new round. Approvals from any prior round are reset — they stay visible in
// history but no longer count toward ApprovalStatus.
func (s *State) ReviewAndAssign(status Status, reviewerID, reviewerName string, approverIDs, approverNames []string, comment string) (Status, error) {
	to, err := next(status, ActionReviewed)
	if err != nil {
		return status, err
	}
	if len(approverIDs) == 0 {
		return status, fmt.Errorf("%w: at least one approver must be assigned", apperr.ErrPrecondition)
	}
	if len(approverNames) != len(approverIDs) {
		return status, fmt.Errorf("%w: approver id/name lists must match", apperr.ErrPrecondition)
	}

	now := time.Now().UTC()
	s.ReviewedBy = reviewerID
	s.ReviewedByName = reviewerName
	s.ReviewedAt = &now
	s.AssignedApprovers = approverIDs
	s.AssignedApproverNames = approverNames
	s.Approvals = nil // new round

	if comment == "" {
		comment = fmt.Sprintf("Assigned to %d approver(s)", len(approverIDs))
	}
	s.addHistory(ActionReviewed, reviewerID, reviewerName, comment)
	return to, nil
}

// Approve records one assigned approver's approval. A duplicate approval by
// the same approver is an intentional idempotent no-op: no new record, no
// history entry, no error. The returned status advances to
// approved_by_approver only once every assigned approver has approved.
func (s *State) Approve(status Status, approverID, approverName, comment string) (Status, ApprovalSummary, error) {
	if status != StatusReviewed && status != StatusApprovedByApprover {
		_, err := next(status, ActionApproved)
		return status, s.ApprovalStatus(), err
	}
	if !s.isAssigned(approverID) {
		return status, s.ApprovalStatus(), fmt.Errorf("%w: user %s is not an assigned approver", apperr.ErrPrecondition, approverID)
	}
	if s.hasApproved(approverID) {
		return status, s.ApprovalStatus(), nil
	}

	if comment == "" {
		comment = "Approved"
	}
	s.Approvals = append(s.Approvals, ApprovalRecord{
		ApproverID:   approverID,
		ApproverName: approverName,
		Approved:     true,
		Comment:      comment,
		ApprovedAt:   time.Now().UTC(),
	})
	s.addHistory(ActionApproved, approverID, approverName, comment)

	summary := s.ApprovalStatus()
	if summary.AllApproved {
		return StatusApprovedByApprover, summary, nil
	}
	return StatusReviewed, summary, nil
}

// FinalApprove grants the terminal approval once every assigned approver has
// approved. Sets final_approved_by exactly once.
func (s *State) FinalApprove(status Status, userID, userName, comment string) (Status, error) {
	to, err := next(status, ActionFinalApproved)
	if err != nil {
		return status, err
	}
	if !s.ApprovalStatus().AllApproved {
		return status, fmt.Errorf("%w: not all assigned approvers have approved", apperr.ErrPrecondition)
	}
	if s.FinalApprovedBy != "" {
		return status, fmt.Errorf("%w: already final approved by %s", apperr.ErrPrecondition, s.FinalApprovedBy)
	}

	now := time.Now().UTC()
	s.FinalApprovedBy = userID
	s.FinalApprovedByName = userName
	s.FinalApprovedAt = &now
	if comment == "" {
		comment = "Final approval granted"
	}
	s.addHistory(ActionFinalApproved, userID, userName, comment)
	return to, nil
}

// Reject records a rejection, terminal for the current round. Approvals
// already recorded are retained, not erased.
func (s *State) Reject(status Status, userID, userName, reason string) (Status, error) {
	to, err := next(status, ActionRejected)
	if err != nil {
		return status, err
	}

	s.Rejections = append(s.Rejections, RejectionRecord{
		RejectedBy:     userID,
		RejectedByName: userName,
		Reason:         reason,
		RejectedAt:     time.Now().UTC(),
	})
	s.addHistory(ActionRejected, userID, userName, "Rejected: "+reason)
	return to, nil
}

// ReturnForClarification sends the record back to the submitter with a
// reason. At most one clarification request is active at a time.
func (s *State) ReturnForClarification(status Status, userID, userName, reason string) (Status, error) {
	to, err := next(status, ActionReturned)
	if err != nil {
		return status, err
	}

	s.ReturnedForClarification = &ClarificationRequest{
		By:     userID,
		ByName: userName,
		Reason: reason,
		At:     time.Now().UTC(),
	}
	s.addHistory(ActionReturned, userID, userName, "Returned for clarification: "+reason)
	return to, nil
}

// Resubmit clears the active clarification request and starts a fresh round.
// Assigned approvers and prior approvals are left untouched here; the next
// ReviewAndAssign resets them before any new approval can count.
func (s *State) Resubmit(status Status, userID, userName string) (Status, error) {
	if status != StatusReturned {
		_, err := next(status, ActionSubmitted)
		if err != nil {
			return status, err
		}
		return status, fmt.Errorf("%w: resubmit is only valid from %s", apperr.ErrPrecondition, StatusReturned)
	}

	now := time.Now().UTC()
	s.ReturnedForClarification = nil
	s.SubmittedBy = userID
	s.SubmittedByName = userName
	s.SubmittedAt = &now
	s.addHistory(ActionSubmitted, userID, userName, "Resubmitted after clarification")
	return StatusPendingReview, nil
}

// Reopen returns a terminal record to an editable status. The caller must
// restrict this to the top-tier role before invoking; the engine validates
// only the structural transition and the target status.
func (s *State) Reopen(status Status, userID, userName, reason string, to Status) (Status, error) {
	if _, err := next(status, ActionReopened); err != nil {
		return status, err
	}
	if to != StatusDraft && to != StatusPendingReview {
		return status, fmt.Errorf("%w: cannot reopen into status %s", apperr.ErrPrecondition, to)
	}

	s.addHistory(ActionReopened, userID, userName, "Reopened: "+reason)
	return to, nil
}
