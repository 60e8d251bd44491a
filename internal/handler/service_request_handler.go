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

type ServiceRequestHandler struct {
	srService service.ServiceRequestService
	workflow  WorkflowRoutes
}

// NewServiceRequestHandler sets up the routing dependencies for OSR endpoints
func NewServiceRequestHandler(srService service.ServiceRequestService, workflowService service.WorkflowService) *ServiceRequestHandler {
	h := &ServiceRequestHandler{srService: srService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "service_requests", EntityType: model.EntityServiceRequest},
		Module:  permission.ModuleServiceRequests,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ServiceRequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/service-requests")
	{
		requests.GET("", middleware.RequirePermission(permission.ModuleServiceRequests, permission.Viewer), h.List)
		requests.GET("/:id", middleware.RequirePermission(permission.ModuleServiceRequests, permission.Viewer), h.GetByID)
		requests.POST("", middleware.RequirePermission(permission.ModuleServiceRequests, permission.Requester), h.Create)
		requests.PUT("/:id", middleware.RequirePermission(permission.ModuleServiceRequests, permission.Requester), h.Update)
		requests.DELETE("/:id", middleware.RequirePermission(permission.ModuleServiceRequests, permission.Approver), h.Delete)

		h.workflow.Register(requests)
	}
}

// Create handles POST /service-requests
func (h *ServiceRequestHandler) Create(c *gin.Context) {
	var req service.CreateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sr, err := h.srService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sr))
}

// List handles GET /service-requests
func (h *ServiceRequestHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ServiceRequestFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Page:     p.Page,
		Limit:    p.Limit,
	}

	requests, total, err := h.srService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "service_requests", requests, total, p.Page, p.Limit))
}

// GetByID handles GET /service-requests/:id
func (h *ServiceRequestHandler) GetByID(c *gin.Context) {
	sr, err := h.srService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sr))
}

// Update handles PUT /service-requests/:id
func (h *ServiceRequestHandler) Update(c *gin.Context) {
	var req service.UpdateServiceRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sr, err := h.srService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sr))
}

// Delete handles DELETE /service-requests/:id
func (h *ServiceRequestHandler) Delete(c *gin.Context) {
	if err := h.srService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Service request deleted successfully"))
}
