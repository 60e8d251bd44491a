package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/permission"
	"backend/internal/service"

	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type DDHandler struct {
	ddService service.DDService
	workflow  WorkflowRoutes
}

// NewDDHandler sets up the routing dependencies for vendor due-diligence endpoints
func NewDDHandler(ddService service.DDService, workflowService service.WorkflowService) *DDHandler {
	h := &DDHandler{ddService: ddService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "vendor_dds", EntityType: model.EntityVendorDD},
		Module:  permission.ModuleVendorDD,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *DDHandler) RegisterRoutes(router *gin.RouterGroup) {
	dd := router.Group("/vendor-dd")
	{
		dd.POST("", middleware.RequirePermission(permission.ModuleVendorDD, permission.Requester), h.Create)
		dd.GET("/:id", middleware.RequirePermission(permission.ModuleVendorDD, permission.Viewer), h.GetByID)
		dd.GET("/by-vendor/:vendorId", middleware.RequirePermission(permission.ModuleVendorDD, permission.Viewer), h.GetByVendor)
		dd.PUT("/:id", middleware.RequirePermission(permission.ModuleVendorDD, permission.Requester), h.Update)
		dd.POST("/:id/assess", middleware.RequirePermission(permission.ModuleVendorDD, permission.Verifier), h.RunAssessment)
		dd.POST("/:id/accept-risk", middleware.RequireRoles(permission.RoleProcurementManager, permission.RoleAdmin), h.AcceptRisk)

		h.workflow.Register(dd)
	}
}

// Create handles POST /vendor-dd
// @Summary      Create due-diligence file
// @Description  Opens a due-diligence file for a vendor and flags the vendor as DD-required
// @Tags         vendor-dd
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDDRequest  true  "Create DD Payload"
// @Success      201      {object}  response.Response{data=model.VendorDD}
// @Failure      409      {object}  response.Response
// @Router       /vendor-dd [post]
func (h *DDHandler) Create(c *gin.Context) {
	var req service.CreateDDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dd, err := h.ddService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, dd))
}

// GetByID handles GET /vendor-dd/:id
func (h *DDHandler) GetByID(c *gin.Context) {
	dd, err := h.ddService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dd))
}

// GetByVendor handles GET /vendor-dd/by-vendor/:vendorId
func (h *DDHandler) GetByVendor(c *gin.Context) {
	dd, err := h.ddService.GetByVendor(c.Request.Context(), c.Param("vendorId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dd))
}

// Update handles PUT /vendor-dd/:id
func (h *DDHandler) Update(c *gin.Context) {
	var req service.UpdateDDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dd, err := h.ddService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dd))
}

// RunAssessment handles POST /vendor-dd/:id/assess
// @Summary      Run AI risk assessment
// @Description  Scores the vendor's risk and propagates the score onto the vendor record
// @Tags         vendor-dd
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "DD File ID"
// @Success      200  {object}  response.Response{data=model.VendorDD}
// @Failure      422  {object}  response.Response
// @Router       /vendor-dd/{id}/assess [post]
func (h *DDHandler) RunAssessment(c *gin.Context) {
	dd, err := h.ddService.RunAssessment(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dd))
}

// AcceptRisk handles POST /vendor-dd/:id/accept-risk
// @Summary      Record risk acceptance
// @Description  Records the formal risk acceptance unlocking final approval of a high-risk vendor
// @Tags         vendor-dd
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "DD File ID"
// @Param        payload  body      service.RiskAcceptanceRequest  true  "Risk Acceptance Payload"
// @Success      200      {object}  response.Response{data=model.VendorDD}
// @Failure      409      {object}  response.Response
// @Router       /vendor-dd/{id}/accept-risk [post]
func (h *DDHandler) AcceptRisk(c *gin.Context) {
	var req service.RiskAcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	dd, err := h.ddService.AcceptRisk(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dd))
}
