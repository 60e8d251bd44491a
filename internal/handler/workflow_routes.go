package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/permission"
	"backend/internal/service"
	"backend/internal/workflow"
	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// actorFrom builds the acting identity from the JWT claims the auth
// middleware stored on the context.
func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		ID:         c.GetString("userID"),
		Name:       c.GetString("userName"),
		Role:       c.GetString("userRole"),
		Department: c.GetString("userDepartment"),
	}
}

// httpStatus maps the service error taxonomy onto HTTP status codes.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrPrecondition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondErr(c *gin.Context, err error) {
	status := httpStatus(err)
	c.JSON(status, response.Error(status, err.Error()))
}

type reviewRequest struct {
	Approvers []service.Approver `json:"approvers" binding:"required,min=1,dive"`
	Comment   string             `json:"comment"`
}

type commentRequest struct {
	Comment string `json:"comment"`
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type reopenRequest struct {
	Reason string `json:"reason" binding:"required"`
	To     string `json:"to" binding:"omitempty,oneof=draft pending_review"`
}

// WorkflowRoutes wires the uniform transition endpoints of one governed
// entity collection. The permission middleware gates each step by tier;
// final approval and reopening stay role-bound to the top tier.
type WorkflowRoutes struct {
	Service service.WorkflowService
	Target  service.Target
	Module  permission.Module

	// Gate, when set, produces the business-rule precondition evaluated
	// before final approval of one record.
	Gate func(id string) service.FinalApproveGate
}

// Register binds the transition endpoints under the entity group, e.g.
// POST /vendors/:id/submit.
func (w WorkflowRoutes) Register(group *gin.RouterGroup) {
	group.GET("/:id/workflow", middleware.RequirePermission(w.Module, permission.Viewer), w.getWorkflow)
	group.POST("/:id/submit", middleware.RequirePermission(w.Module, permission.Requester), w.submit)
	group.POST("/:id/resubmit", middleware.RequirePermission(w.Module, permission.Requester), w.resubmit)
	group.POST("/:id/review", middleware.RequirePermission(w.Module, permission.Verifier), w.review)
	group.POST("/:id/return", middleware.RequirePermission(w.Module, permission.Verifier), w.returnForClarification)
	group.POST("/:id/approve", middleware.RequirePermission(w.Module, permission.Approver), w.approve)
	group.POST("/:id/reject", middleware.RequirePermission(w.Module, permission.Verifier), w.reject)
	group.POST("/:id/final-approve", middleware.RequireRoles(permission.RoleProcurementManager, permission.RoleAdmin), w.finalApprove)
	group.POST("/:id/reopen", middleware.RequireRoles(permission.RoleProcurementManager, permission.RoleAdmin), w.reopen)
}

func (w WorkflowRoutes) getWorkflow(c *gin.Context) {
	snap, err := w.Service.Get(c.Request.Context(), w.Target, c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) submit(c *gin.Context) {
	snap, err := w.Service.Submit(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) resubmit(c *gin.Context) {
	snap, err := w.Service.Resubmit(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	snap, err := w.Service.Review(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c), req.Approvers, req.Comment)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) approve(c *gin.Context) {
	var req commentRequest
	_ = c.ShouldBindJSON(&req) // comment is optional; an empty body is fine

	snap, err := w.Service.Approve(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c), req.Comment)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) finalApprove(c *gin.Context) {
	var req commentRequest
	_ = c.ShouldBindJSON(&req)

	var gate service.FinalApproveGate
	if w.Gate != nil {
		gate = w.Gate(c.Param("id"))
	}

	snap, err := w.Service.FinalApprove(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c), req.Comment, gate)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) reject(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "A rejection reason is required"))
		return
	}

	snap, err := w.Service.Reject(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c), req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) returnForClarification(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "A clarification reason is required"))
		return
	}

	snap, err := w.Service.Return(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c), req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}

func (w WorkflowRoutes) reopen(c *gin.Context) {
	var req reopenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "A reopen reason is required"))
		return
	}

	to := workflow.StatusDraft
	if req.To != "" {
		to = workflow.Status(req.To)
	}

	snap, err := w.Service.Reopen(c.Request.Context(), w.Target, c.Param("id"), actorFrom(c), req.Reason, to)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, snap))
}
