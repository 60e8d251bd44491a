package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/permission"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TenderHandler struct {
	tenderService service.TenderService
	workflow      WorkflowRoutes
}

// NewTenderHandler sets up the routing dependencies for Tender endpoints
func NewTenderHandler(tenderService service.TenderService, workflowService service.WorkflowService) *TenderHandler {
	h := &TenderHandler{tenderService: tenderService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "tenders", EntityType: model.EntityTender},
		Module:  permission.ModuleTenders,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *TenderHandler) RegisterRoutes(router *gin.RouterGroup) {
	tenders := router.Group("/tenders")
	{
		tenders.GET("", middleware.RequirePermission(permission.ModuleTenders, permission.Viewer), h.List)
		tenders.GET("/:id", middleware.RequirePermission(permission.ModuleTenders, permission.Viewer), h.GetByID)
		tenders.POST("", middleware.RequirePermission(permission.ModuleTenders, permission.Requester), h.Create)
		tenders.PUT("/:id", middleware.RequirePermission(permission.ModuleTenders, permission.Requester), h.Update)
		tenders.DELETE("/:id", middleware.RequirePermission(permission.ModuleTenders, permission.Approver), h.Delete)

		// Proposals ride under the tender they bid on.
		tenders.GET("/:id/proposals", middleware.RequirePermission(permission.ModuleTenderProposals, permission.Viewer), h.ListProposals)
		tenders.POST("/:id/proposals", middleware.RequirePermission(permission.ModuleTenderProposals, permission.Requester), h.AddProposal)

		h.workflow.Register(tenders)
	}

	// Evaluation is its own governed module.
	router.PUT("/proposals/:id/evaluate",
		middleware.RequirePermission(permission.ModuleTenderEvaluation, permission.Verifier), h.EvaluateProposal)
}

// Create handles POST /tenders
func (h *TenderHandler) Create(c *gin.Context) {
	var req service.CreateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tender, err := h.tenderService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tender))
}

// List handles GET /tenders
func (h *TenderHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.TenderFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	tenders, total, err := h.tenderService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "tenders", tenders, total, p.Page, p.Limit))
}

// GetByID handles GET /tenders/:id
func (h *TenderHandler) GetByID(c *gin.Context) {
	tender, err := h.tenderService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tender))
}

// Update handles PUT /tenders/:id
func (h *TenderHandler) Update(c *gin.Context) {
	var req service.UpdateTenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tender, err := h.tenderService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tender))
}

// Delete handles DELETE /tenders/:id
func (h *TenderHandler) Delete(c *gin.Context) {
	if err := h.tenderService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Tender deleted successfully"))
}

// AddProposal handles POST /tenders/:id/proposals
// @Summary      Submit proposal
// @Description  Records a vendor's bid against an approved, open tender
// @Tags         tenders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Tender ID"
// @Param        payload  body      service.CreateProposalRequest  true  "Proposal Payload"
// @Success      201      {object}  response.Response{data=model.Proposal}
// @Failure      422      {object}  response.Response
// @Router       /tenders/{id}/proposals [post]
func (h *TenderHandler) AddProposal(c *gin.Context) {
	var req service.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	proposal, err := h.tenderService.AddProposal(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, proposal))
}

// ListProposals handles GET /tenders/:id/proposals
func (h *TenderHandler) ListProposals(c *gin.Context) {
	proposals, err := h.tenderService.ListProposals(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, proposals))
}

// EvaluateProposal handles PUT /proposals/:id/evaluate
// @Summary      Evaluate proposal
// @Description  Records technical and commercial scores for a proposal
// @Tags         tenders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Proposal ID"
// @Param        payload  body      service.EvaluateProposalRequest  true  "Evaluation Payload"
// @Success      200      {object}  response.Response{data=model.Proposal}
// @Failure      404      {object}  response.Response
// @Router       /proposals/{id}/evaluate [put]
func (h *TenderHandler) EvaluateProposal(c *gin.Context) {
	var req service.EvaluateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	proposal, err := h.tenderService.EvaluateProposal(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, proposal))
}
