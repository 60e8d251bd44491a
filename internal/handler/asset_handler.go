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

type AssetHandler struct {
	assetService service.AssetService
	workflow     WorkflowRoutes
}

// NewAssetHandler sets up the routing dependencies for Asset endpoints
func NewAssetHandler(assetService service.AssetService, workflowService service.WorkflowService) *AssetHandler {
	h := &AssetHandler{assetService: assetService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "assets", EntityType: model.EntityAsset},
		Module:  permission.ModuleAssets,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets")
	{
		assets.GET("", middleware.RequirePermission(permission.ModuleAssets, permission.Viewer), h.List)
		assets.GET("/:id", middleware.RequirePermission(permission.ModuleAssets, permission.Viewer), h.GetByID)
		assets.POST("", middleware.RequirePermission(permission.ModuleAssets, permission.Requester), h.Create)
		assets.PUT("/:id", middleware.RequirePermission(permission.ModuleAssets, permission.Requester), h.Update)
		assets.DELETE("/:id", middleware.RequirePermission(permission.ModuleAssets, permission.Approver), h.Delete)

		h.workflow.Register(assets)
	}

	// Location and category lookups share the assets module gate.
	buildings := router.Group("/buildings")
	{
		buildings.GET("", middleware.RequirePermission(permission.ModuleAssets, permission.Viewer), h.ListBuildings)
		buildings.POST("", middleware.RequirePermission(permission.ModuleAssets, permission.Verifier), h.CreateBuilding)
		buildings.GET("/:id/floors", middleware.RequirePermission(permission.ModuleAssets, permission.Viewer), h.ListFloors)
	}
	router.POST("/floors", middleware.RequirePermission(permission.ModuleAssets, permission.Verifier), h.CreateFloor)

	categories := router.Group("/asset-categories")
	{
		categories.GET("", middleware.RequirePermission(permission.ModuleAssets, permission.Viewer), h.ListCategories)
		categories.POST("", middleware.RequirePermission(permission.ModuleAssets, permission.Verifier), h.CreateCategory)
	}
}

// Create handles POST /assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, asset))
}

// List handles GET /assets
func (h *AssetHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.AssetFilter{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		BuildingID: c.Query("building_id"),
		Search:     c.Query("search"),
		Page:       p.Page,
		Limit:      p.Limit,
	}

	assets, total, err := h.assetService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "assets", assets, total, p.Page, p.Limit))
}

// GetByID handles GET /assets/:id
func (h *AssetHandler) GetByID(c *gin.Context) {
	asset, err := h.assetService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// Update handles PUT /assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	asset, err := h.assetService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, asset))
}

// Delete handles DELETE /assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.assetService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Asset deleted successfully"))
}

// CreateBuilding handles POST /buildings
func (h *AssetHandler) CreateBuilding(c *gin.Context) {
	var req service.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	building, err := h.assetService.CreateBuilding(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, building))
}

// ListBuildings handles GET /buildings
func (h *AssetHandler) ListBuildings(c *gin.Context) {
	buildings, err := h.assetService.ListBuildings(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, buildings))
}

// CreateFloor handles POST /floors
func (h *AssetHandler) CreateFloor(c *gin.Context) {
	var req service.CreateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	floor, err := h.assetService.CreateFloor(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, floor))
}

// ListFloors handles GET /buildings/:id/floors
func (h *AssetHandler) ListFloors(c *gin.Context) {
	floors, err := h.assetService.ListFloors(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, floors))
}

// CreateCategory handles POST /asset-categories
func (h *AssetHandler) CreateCategory(c *gin.Context) {
	var req service.CreateAssetCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.assetService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// ListCategories handles GET /asset-categories
func (h *AssetHandler) ListCategories(c *gin.Context) {
	categories, err := h.assetService.ListCategories(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}
