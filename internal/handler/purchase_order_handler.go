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

type PurchaseOrderHandler struct {
	poService service.PurchaseOrderService
	workflow  WorkflowRoutes
}

// NewPurchaseOrderHandler sets up the routing dependencies for PO endpoints
func NewPurchaseOrderHandler(poService service.PurchaseOrderService, workflowService service.WorkflowService) *PurchaseOrderHandler {
	h := &PurchaseOrderHandler{poService: poService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "purchase_orders", EntityType: model.EntityPurchaseOrder},
		Module:  permission.ModulePurchaseOrders,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *PurchaseOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/purchase-orders")
	{
		pos.GET("", middleware.RequirePermission(permission.ModulePurchaseOrders, permission.Viewer), h.List)
		pos.GET("/:id", middleware.RequirePermission(permission.ModulePurchaseOrders, permission.Viewer), h.GetByID)
		pos.POST("", middleware.RequirePermission(permission.ModulePurchaseOrders, permission.Requester), h.Create)
		pos.PUT("/:id", middleware.RequirePermission(permission.ModulePurchaseOrders, permission.Requester), h.Update)
		pos.DELETE("/:id", middleware.RequirePermission(permission.ModulePurchaseOrders, permission.Approver), h.Delete)

		h.workflow.Register(pos)
	}
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req service.CreatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, po))
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.POFilter{
		Status:   c.Query("status"),
		VendorID: c.Query("vendor_id"),
		Search:   c.Query("search"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	orders, total, err := h.poService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "purchase_orders", orders, total, p.Page, p.Limit))
}

// GetByID handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	po, err := h.poService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// Update handles PUT /purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	var req service.UpdatePORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	po, err := h.poService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, po))
}

// Delete handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	if err := h.poService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Purchase order deleted successfully"))
}
