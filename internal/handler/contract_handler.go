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

type ContractHandler struct {
	contractService service.ContractService
	workflow        WorkflowRoutes
}

// NewContractHandler sets up the routing dependencies for Contract endpoints
func NewContractHandler(contractService service.ContractService, workflowService service.WorkflowService) *ContractHandler {
	h := &ContractHandler{contractService: contractService}
	h.workflow = WorkflowRoutes{
		Service: workflowService,
		Target:  service.Target{Table: "contracts", EntityType: model.EntityContract},
		Module:  permission.ModuleContracts,
		Gate:    contractService.FinalApprovalGate,
	}
	return h
}

// RegisterRoutes binds the endpoints to the gin RouterGroup
func (h *ContractHandler) RegisterRoutes(router *gin.RouterGroup) {
	contracts := router.Group("/contracts")
	{
		contracts.GET("", middleware.RequirePermission(permission.ModuleContracts, permission.Viewer), h.List)
		contracts.GET("/:id", middleware.RequirePermission(permission.ModuleContracts, permission.Viewer), h.GetByID)
		contracts.POST("", middleware.RequirePermission(permission.ModuleContracts, permission.Requester), h.Create)
		contracts.PUT("/:id", middleware.RequirePermission(permission.ModuleContracts, permission.Requester), h.Update)
		contracts.DELETE("/:id", middleware.RequirePermission(permission.ModuleContracts, permission.Approver), h.Delete)
		contracts.POST("/:id/terminate", middleware.RequireRoles(permission.RoleProcurementManager, permission.RoleAdmin), h.Terminate)

		h.workflow.Register(contracts)
	}
}

// Create handles POST /contracts
// @Summary      Create contract
// @Description  Creates a contract in draft, deriving the outsourcing classification and NOC flag from the questionnaire
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateContractRequest  true  "Create Contract Payload"
// @Success      201      {object}  response.Response{data=model.Contract}
// @Failure      422      {object}  response.Response
// @Router       /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contract, err := h.contractService.Create(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contract))
}

// List handles GET /contracts
func (h *ContractHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	filter := service.ContractFilter{
		Status:         c.Query("status"),
		VendorID:       c.Query("vendor_id"),
		Classification: c.Query("classification"),
		Search:         c.Query("search"),
		Page:           p.Page,
		Limit:          p.Limit,
	}

	contracts, total, err := h.contractService.List(c.Request.Context(), filter, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "contracts", contracts, total, p.Page, p.Limit))
}

// GetByID handles GET /contracts/:id
func (h *ContractHandler) GetByID(c *gin.Context) {
	contract, err := h.contractService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}

// Update handles PUT /contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	var req service.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}

// Delete handles DELETE /contracts/:id
func (h *ContractHandler) Delete(c *gin.Context) {
	if err := h.contractService.Delete(c.Request.Context(), c.Param("id"), actorFrom(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Contract deleted successfully"))
}

// Terminate handles POST /contracts/:id/terminate
// @Summary      Terminate contract
// @Description  Marks an active contract as terminated with a reason
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                            true  "Contract ID"
// @Param        payload  body      service.TerminateContractRequest  true  "Termination Payload"
// @Success      200      {object}  response.Response{data=model.Contract}
// @Failure      422      {object}  response.Response
// @Router       /contracts/{id}/terminate [post]
func (h *ContractHandler) Terminate(c *gin.Context) {
	var req service.TerminateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "A termination reason is required"))
		return
	}

	contract, err := h.contractService.Terminate(c.Request.Context(), c.Param("id"), req, actorFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, contract))
}
