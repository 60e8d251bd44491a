package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/permission"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeliverableHandler struct {
	deliverableService service.DeliverableService
}

// NewDeliverableHandler sets up the routing dependencies for Deliverable endpoints
func NewDeliverableHandler(deliverableService service.DeliverableService) *DeliverableHandler {
	return &DeliverableHandler{deliverableService: deliverableService}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *DeliverableHandler) RegisterRoutes(router *gin.RouterGroup) {
	deliverables := router.Group("/deliverables")
	{
		deliverables.GET("", middleware.RequirePermission(permission.ModuleInvoices, permission.Viewer), h.List)
		deliverables.GET("/:id", middleware.RequirePermission(permission.ModuleInvoices, permission.Viewer), h.GetByID)
		deliverables.POST("", middleware.RequirePermission(permission.ModuleInvoices, permission.Requester), h.Create)
		deliverables.POST("/:id/review", middleware.RequirePermission(permission.ModuleInvoices, permission.Verifier), h.Review)
		deliverables.POST("/:id/payment-authorization", middleware.RequirePermission(permission.ModuleInvoices, permission.Requester), h.CreatePAF)
	}

	pafs := router.Group("/payment-authorizations")
	{
		pafs.GET("", middleware.RequirePermission(permission.ModuleInvoices, permission.Viewer), h.ListPAFs)
		pafs.GET("/:id", middleware.RequirePermission(permission.ModuleInvoices, permission.Viewer), h.GetPAF)
		pafs.POST("/:id/decide", middleware.RequirePermission(permission.ModuleInvoices, permission.Approver), h.DecidePAF)
		pafs.POST("/:id/mark-paid", middleware.RequireRoles(permission.RoleProcurementManager, permission.RoleAdmin), h.MarkPAFPaid)
	}
}

// Create handles POST /deliverables
func (h *DeliverableHandler) Create(c *gin.Context) {
	var req service.CreateDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	deliverable, err := h.deliverableService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, deliverable))
}

// List handles GET /deliverables
func (h *DeliverableHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.DeliverableFilter{
		Status:   c.Query("status"),
		VendorID: c.Query("vendor_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	deliverables, total, err := h.deliverableService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "deliverables", deliverables, total, p.Page, p.Limit))
}

// GetByID handles GET /deliverables/:id
func (h *DeliverableHandler) GetByID(c *gin.Context) {
	deliverable, err := h.deliverableService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, deliverable))
}

// Review handles POST /deliverables/:id/review
func (h *DeliverableHandler) Review(c *gin.Context) {
	var req service.ReviewDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	deliverable, err := h.deliverableService.Review(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, deliverable))
}

// CreatePAF handles POST /deliverables/:id/payment-authorization
func (h *DeliverableHandler) CreatePAF(c *gin.Context) {
	paf, err := h.deliverableService.CreatePAF(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, paf))
}

// ListPAFs handles GET /payment-authorizations
func (h *DeliverableHandler) ListPAFs(c *gin.Context) {
	p := pagination.Parse(c)
	pafs, total, err := h.deliverableService.ListPAFs(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "payment_authorizations", pafs, total, p.Page, p.Limit))
}

// GetPAF handles GET /payment-authorizations/:id
func (h *DeliverableHandler) GetPAF(c *gin.Context) {
	paf, err := h.deliverableService.GetPAF(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, paf))
}

// DecidePAF handles POST /payment-authorizations/:id/decide
func (h *DeliverableHandler) DecidePAF(c *gin.Context) {
	var req service.DecidePAFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	paf, err := h.deliverableService.DecidePAF(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, paf))
}

// MarkPAFPaid handles POST /payment-authorizations/:id/mark-paid
func (h *DeliverableHandler) MarkPAFPaid(c *gin.Context) {
	paf, err := h.deliverableService.MarkPAFPaid(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, paf))
}
