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

type VendorHandler struct {
	vendorService service.VendorService
	workflow      WorkflowRoutes
}

// NewVendorHandler sets up the routing dependencies for Vendor endpoints
func NewVendorHandler(vendorService service.VendorService, workflowService service.WorkflowService) *VendorHandler {
	h := &VendorHandler{vendorService: vendorService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  vendorTarget(),
		Module:  permission.ModuleVendors,
		Gate:    vendorService.FinalApprovalGate,
	}
	return h
}

func vendorTarget() service.Target {
	return service.Target{Table: "vendors", EntityType: model.EntityVendor}
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *VendorHandler) RegisterRoutes(router *gin.RouterGroup) {
	vendors := router.Group("/vendors")
	{
		vendors.GET("", middleware.RequirePermission(permission.ModuleVendors, permission.Viewer), h.List)
		vendors.GET("/:id", middleware.RequirePermission(permission.ModuleVendors, permission.Viewer), h.GetByID)
		vendors.POST("", middleware.RequirePermission(permission.ModuleVendors, permission.Requester), h.Create)
		vendors.PUT("/:id", middleware.RequirePermission(permission.ModuleVendors, permission.Requester), h.Update)
		vendors.DELETE("/:id", middleware.RequirePermission(permission.ModuleVendors, permission.Approver), h.Delete)

		h.workflow.Register(vendors)
	}
}

// Create handles POST /vendors
// @Summary      Create vendor
// @Description  Creates a vendor in draft with an assigned vendor number
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateVendorRequest  true  "Create Vendor Payload"
// @Success      201      {object}  response.Response{data=model.Vendor}
// @Failure      400      {object}  response.Response
// @Router       /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req service.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, vendor))
}

// List handles GET /vendors with status/search filters and pagination
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by workflow status"
// @Param        search  query     string  false  "Search name or vendor number"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Items per page"
// @Success      200     {object}  response.Response{data=object}
// @Router       /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.VendorFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   p.Page,
		Limit:  p.Limit,
	}

	vendors, total, err := h.vendorService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "vendors", vendors, total, p.Page, p.Limit))
}

// GetByID handles GET /vendors/:id
// @Summary      Get vendor by ID
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response{data=model.Vendor}
// @Failure      404  {object}  response.Response
// @Router       /vendors/{id} [get]
func (h *VendorHandler) GetByID(c *gin.Context) {
	vendor, err := h.vendorService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// Update handles PUT /vendors/:id
// @Summary      Update vendor
// @Description  Updates vendor details while in draft or returned for clarification
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Vendor ID"
// @Param        payload  body      service.UpdateVendorRequest  true  "Update Vendor Payload"
// @Success      200      {object}  response.Response{data=model.Vendor}
// @Failure      422      {object}  response.Response
// @Router       /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	var req service.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, vendor))
}

// Delete handles DELETE /vendors/:id
// @Summary      Delete vendor
// @Description  Deletes a draft vendor
// @Tags         vendors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vendor ID"
// @Success      200  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	if err := h.vendorService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Vendor deleted successfully"))
}
