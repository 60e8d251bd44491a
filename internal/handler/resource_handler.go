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

type ResourceHandler struct {
	resourceService service.ResourceService
	workflow        WorkflowRoutes
}

// NewResourceHandler sets up the routing dependencies for Resource endpoints
func NewResourceHandler(resourceService service.ResourceService, workflowService service.WorkflowService) *ResourceHandler {
	h := &ResourceHandler{resourceService: resourceService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "resources", EntityType: model.EntityResource},
		Module:  permission.ModuleResources,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ResourceHandler) RegisterRoutes(router *gin.RouterGroup) {
	resources := router.Group("/resources")
	{
		resources.GET("", middleware.RequirePermission(permission.ModuleResources, permission.Viewer), h.List)
		resources.GET("/:id", middleware.RequirePermission(permission.ModuleResources, permission.Viewer), h.GetByID)
		resources.POST("", middleware.RequirePermission(permission.ModuleResources, permission.Requester), h.Create)
		resources.PUT("/:id", middleware.RequirePermission(permission.ModuleResources, permission.Requester), h.Update)
		resources.DELETE("/:id", middleware.RequirePermission(permission.ModuleResources, permission.Approver), h.Delete)

		h.workflow.Register(resources)
	}
}

// Create handles POST /resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req service.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	resource, err := h.resourceService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, resource))
}

// List handles GET /resources
func (h *ResourceHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ResourceFilter{
		Status:     c.Query("status"),
		VendorID:   c.Query("vendor_id"),
		Department: c.Query("department"),
		Search:     c.Query("search"),
		Page:       p.Page,
		Limit:      p.Limit,
	}

	resources, total, err := h.resourceService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "resources", resources, total, p.Page, p.Limit))
}

// GetByID handles GET /resources/:id
func (h *ResourceHandler) GetByID(c *gin.Context) {
	resource, err := h.resourceService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, resource))
}

// Update handles PUT /resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	var req service.UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	resource, err := h.resourceService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, resource))
}

// Delete handles DELETE /resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.resourceService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Resource deleted successfully"))
}
