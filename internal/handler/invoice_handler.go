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

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	workflow       WorkflowRoutes
}

// NewInvoiceHandler sets up the routing dependencies for Invoice endpoints
func NewInvoiceHandler(invoiceService service.InvoiceService, workflowService service.WorkflowService) *InvoiceHandler {
	h := &InvoiceHandler{invoiceService: invoiceService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "invoices", EntityType: model.EntityInvoice},
		Module:  permission.ModuleInvoices,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.GET("", middleware.RequirePermission(permission.ModuleInvoices, permission.Viewer), h.List)
		invoices.GET("/:id", middleware.RequirePermission(permission.ModuleInvoices, permission.Viewer), h.GetByID)
		invoices.POST("", middleware.RequirePermission(permission.ModuleInvoices, permission.Requester), h.Create)
		invoices.PUT("/:id", middleware.RequirePermission(permission.ModuleInvoices, permission.Requester), h.Update)
		invoices.DELETE("/:id", middleware.RequirePermission(permission.ModuleInvoices, permission.Approver), h.Delete)
		invoices.POST("/:id/mark-paid", middleware.RequireRoles(permission.RoleProcurementManager, permission.RoleAdmin), h.MarkPaid)

		h.workflow.Register(invoices)
	}
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// List handles GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.InvoiceFilter{
		Status:   c.Query("status"),
		VendorID: c.Query("vendor_id"),
		Unpaid:   c.Query("unpaid") == "true",
		Page:     p.Page,
		Limit:    p.Limit,
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "invoices", invoices, total, p.Page, p.Limit))
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoice, err := h.invoiceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// Update handles PUT /invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoiceService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoice deleted successfully"))
}

// MarkPaid handles POST /invoices/:id/mark-paid
// @Summary      Mark invoice paid
// @Description  Records payment disbursal on a final-approved invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      422  {object}  response.Response
// @Router       /invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}
