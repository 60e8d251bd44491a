package workflow

import (
	"testing"

	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actions(history []HistoryEntry) []Action {
	out := make([]Action, 0, len(history))
	for _, h := range history {
		out = append(out, h.Action)
	}
	return out
}

func TestHappyPathSingleApprover(t *testing.T) {
	st, status := Create("u1", "Alice")
	assert.Equal(t, StatusDraft, status)
	require.Len(t, st.History, 1)

	status, err := st.Submit(status, "u1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, status)

	status, err = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1"}, []string{"Carol"}, "")
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, status)

	status, summary, err := st.Approve(status, "a1", "Carol", "looks good")
	require.NoError(t, err)
	assert.Equal(t, StatusApprovedByApprover, status)
	assert.True(t, summary.AllApproved)

	status, err = st.FinalApprove(status, "f1", "Dave", "")
	require.NoError(t, err)
	assert.Equal(t, StatusFinalApproved, status)
	assert.Equal(t, "f1", st.FinalApprovedBy)

	assert.Equal(t, []Action{
		ActionCreated, ActionSubmitted, ActionReviewed, ActionApproved, ActionFinalApproved,
	}, actions(st.History))
}

func TestMultiApproverProgress(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, err := st.Submit(status, "u1", "Alice")
	require.NoError(t, err)
	status, err = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1", "a2"}, []string{"Carol", "Dan"}, "")
	require.NoError(t, err)

	status, summary, err := st.Approve(status, "a1", "Carol", "")
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, status, "one of two approvals must not advance the status")
	assert.Equal(t, 2, summary.TotalApprovers)
	assert.Equal(t, 1, summary.ApprovedCount)
	assert.Equal(t, 1, summary.PendingCount)
	assert.False(t, summary.AllApproved)

	// final approval is blocked until everyone has approved
	_, err = st.FinalApprove(status, "f1", "Eve", "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)

	status, summary, err = st.Approve(status, "a2", "Dan", "")
	require.NoError(t, err)
	assert.Equal(t, StatusApprovedByApprover, status)
	assert.True(t, summary.AllApproved)
}

func TestApproveIsIdempotent(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")
	status, _ = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1", "a2"}, []string{"Carol", "Dan"}, "")

	status, _, err := st.Approve(status, "a1", "Carol", "")
	require.NoError(t, err)
	historyLen := len(st.History)

	// same approver again: no error, no new record, no new history
	status, summary, err := st.Approve(status, "a1", "Carol", "again")
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, status)
	assert.Equal(t, 1, summary.ApprovedCount)
	assert.Len(t, st.Approvals, 1)
	assert.Len(t, st.History, historyLen)
}

func TestApproveRequiresAssignment(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")
	status, _ = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1"}, []string{"Carol"}, "")

	_, _, err := st.Approve(status, "intruder", "Mallory", "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
}

func TestRejectRetainsApprovals(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")
	status, _ = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1", "a2"}, []string{"Carol", "Dan"}, "")
	status, _, _ = st.Approve(status, "a1", "Carol", "")

	status, err := st.Reject(status, "a2", "Dan", "budget exceeded")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, status)
	assert.Len(t, st.Approvals, 1, "prior approvals stay on record")
	require.Len(t, st.Rejections, 1)
	assert.Equal(t, "budget exceeded", st.Rejections[0].Reason)
}

func TestReturnAndResubmit(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")

	status, err := st.ReturnForClarification(status, "r1", "Bob", "missing tax certificate")
	require.NoError(t, err)
	assert.Equal(t, StatusReturned, status)
	require.NotNil(t, st.ReturnedForClarification)

	// plain submit is rejected from returned, resubmit is the path back
	_, err = st.Submit(status, "u1", "Alice")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)

	status, err = st.Resubmit(status, "u1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, status)
	assert.Nil(t, st.ReturnedForClarification)
}

func TestReviewResetsApprovalsForNewRound(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")
	status, _ = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1"}, []string{"Carol"}, "")
	status, _, _ = st.Approve(status, "a1", "Carol", "")
	status, _ = st.ReturnForClarification(status, "r1", "Bob", "clarify scope")
	status, _ = st.Resubmit(status, "u1", "Alice")

	status, err := st.ReviewAndAssign(status, "r1", "Bob", []string{"a1", "a2"}, []string{"Carol", "Dan"}, "")
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, status)

	summary := st.ApprovalStatus()
	assert.Equal(t, 0, summary.ApprovedCount, "approvals from the previous round must not carry over")
	assert.Equal(t, 2, summary.TotalApprovers)
}

func TestInvalidTransitions(t *testing.T) {
	st, status := Create("u1", "Alice")

	// nothing but submit is valid from draft
	_, _, err := st.Approve(status, "a1", "Carol", "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
	_, err = st.Reject(status, "r1", "Bob", "no")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
	_, err = st.FinalApprove(status, "f1", "Eve", "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
	_, err = st.Reopen(status, "m1", "Mike", "oops", StatusDraft)
	assert.ErrorIs(t, err, apperr.ErrPrecondition)

	// submitting someone else's draft
	status, err = st.Submit(status, "u1", "Alice")
	require.NoError(t, err)
	_, err = st.Submit(StatusDraft, "u2", "Zoe")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)

	// double submit
	_, err = st.Submit(status, "u1", "Alice")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
}

func TestReviewRequiresApprovers(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")

	_, err := st.ReviewAndAssign(status, "r1", "Bob", nil, nil, "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)

	_, err = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1", "a2"}, []string{"Carol"}, "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
}

func TestFinalApproveOnlyOnce(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")
	status, _ = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1"}, []string{"Carol"}, "")
	status, _, _ = st.Approve(status, "a1", "Carol", "")
	status, err := st.FinalApprove(status, "f1", "Eve", "")
	require.NoError(t, err)

	_, err = st.FinalApprove(StatusApprovedByApprover, "f2", "Frank", "")
	assert.ErrorIs(t, err, apperr.ErrPrecondition)
	assert.Equal(t, StatusFinalApproved, status)
}

func TestReopen(t *testing.T) {
	st, status := Create("u1", "Alice")
	status, _ = st.Submit(status, "u1", "Alice")
	status, _ = st.ReviewAndAssign(status, "r1", "Bob", []string{"a1"}, []string{"Carol"}, "")
	status, err := st.Reject(status, "a1", "Carol", "pricing")
	require.NoError(t, err)

	// reopen target is restricted
	_, err = st.Reopen(status, "m1", "Mike", "re-tender", StatusFinalApproved)
	assert.ErrorIs(t, err, apperr.ErrPrecondition)

	status, err = st.Reopen(status, "m1", "Mike", "re-tender", StatusPendingReview)
	require.NoError(t, err)
	assert.Equal(t, StatusPendingReview, status)

	// reopen from final_approved lands in draft
	st2, s2 := Create("u1", "Alice")
	s2, _ = st2.Submit(s2, "u1", "Alice")
	s2, _ = st2.ReviewAndAssign(s2, "r1", "Bob", []string{"a1"}, []string{"Carol"}, "")
	s2, _, _ = st2.Approve(s2, "a1", "Carol", "")
	s2, _ = st2.FinalApprove(s2, "f1", "Eve", "")
	s2, err = st2.Reopen(s2, "m1", "Mike", "contract amended", StatusDraft)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, s2)
	assert.Equal(t, ActionReopened, st2.History[len(st2.History)-1].Action)
}

func TestApprovalStatusEmptyRound(t *testing.T) {
	st, _ := Create("u1", "Alice")
	summary := st.ApprovalStatus()
	assert.Equal(t, 0, summary.TotalApprovers)
	assert.False(t, summary.AllApproved, "no approvers assigned never counts as all approved")
}
