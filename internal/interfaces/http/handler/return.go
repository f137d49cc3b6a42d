package handler

import (
	appreturns "github.com/IdrisInc/smartbz/internal/application/returns"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReturnHandler handles return-related API endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *appreturns.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *appreturns.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Create godoc
//
//	@ID				createReturn
//	@Summary		File a new return
//	@Description	File a sale or purchase return against an originating transaction
//	@Tags			returns
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string							true	"Tenant ID"
//	@Param			request		body		appreturns.CreateReturnRequest	true	"Return creation request"
//	@Success		201			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Failure		500			{object}	dto.Response
//	@Router			/returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appreturns.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if actorID, err := getActorID(c); err == nil {
		req.CreatedBy = &actorID
	}

	resp, err := h.returnService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID godoc
//
//	@ID				getReturnById
//	@Summary		Get return by ID
//	@Tags			returns
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Return ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Router			/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	resp, err := h.returnService.GetByID(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByNumber godoc
//
//	@ID				getReturnByNumber
//	@Summary		Get return by return number
//	@Tags			returns
//	@Produce		json
//	@Param			X-Tenant-ID		header		string	true	"Tenant ID"
//	@Param			return_number	path		string	true	"Return Number"	example:"SR-1f2e3d4c-2026-00001"
//	@Success		200				{object}	dto.Response
//	@Failure		404				{object}	dto.Response
//	@Router			/returns/number/{return_number} [get]
func (h *ReturnHandler) GetByNumber(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnNumber := c.Param("return_number")
	if returnNumber == "" {
		h.BadRequest(c, "Return number is required")
		return
	}

	resp, err := h.returnService.GetByNumber(c.Request.Context(), tenantID, returnNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
//
//	@ID				listReturns
//	@Summary		List returns
//	@Description	Retrieve a paginated list of returns with optional filtering
//	@Tags			returns
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			search		query		string	false	"Search term (return number, counterparty, origin number)"
//	@Param			kind		query		string	false	"Return kind"	Enums(SALE, PURCHASE)
//	@Param			status		query		string	false	"Return status"	Enums(PENDING, APPROVED, REJECTED)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Router			/returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter appreturns.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := h.returnService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Summary godoc
//
//	@ID				getReturnSummary
//	@Summary		Get per-status return counts
//	@Description	Retrieve how many of the tenant's returns are pending, approved and rejected
//	@Tags			returns
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Router			/returns/summary [get]
func (h *ReturnHandler) Summary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.returnService.Summary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Approve godoc
//
//	@ID				approveReturn
//	@Summary		Approve a pending return
//	@Description	Approve a return: adjust stock, append ledger entries and issue the financial note in one transaction
//	@Tags			returns
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			X-Actor-ID	header		string	true	"Acting user ID"
//	@Param			id			path		string	true	"Return ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Failure		409			{object}	dto.Response
//	@Router			/returns/{id}/approve [post]
func (h *ReturnHandler) Approve(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}

	resp, err := h.returnService.Approve(c.Request.Context(), tenantID, returnID, actorID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Reject godoc
//
//	@ID				rejectReturn
//	@Summary		Reject a pending return
//	@Tags			returns
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string							true	"Tenant ID"
//	@Param			X-Actor-ID	header		string							true	"Acting user ID"
//	@Param			id			path		string							true	"Return ID"	format(uuid)
//	@Param			request		body		appreturns.RejectReturnRequest	true	"Rejection reason"
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Failure		409			{object}	dto.Response
//	@Router			/returns/{id}/reject [post]
func (h *ReturnHandler) Reject(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, "Invalid actor ID")
		return
	}

	var req appreturns.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.returnService.Reject(c.Request.Context(), tenantID, returnID, actorID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
//
//	@ID				deleteReturn
//	@Summary		Delete a pending return
//	@Description	Delete a return that has not been decided yet
//	@Tags			returns
//	@Param			X-Tenant-ID	header	string	true	"Tenant ID"
//	@Param			id			path	string	true	"Return ID"	format(uuid)
//	@Success		204
//	@Failure		404	{object}	dto.Response
//	@Failure		409	{object}	dto.Response
//	@Router			/returns/{id} [delete]
func (h *ReturnHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), tenantID, returnID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Movements godoc
//
//	@ID				listReturnMovements
//	@Summary		List the stock movements a return produced
//	@Tags			returns
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Return ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Router			/returns/{id}/movements [get]
func (h *ReturnHandler) Movements(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	movements, err := h.returnService.ListMovementsByReturn(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// MovementsByProduct godoc
//
//	@ID				listProductMovements
//	@Summary		List a product's stock movement history
//	@Tags			movements
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			product_id	query		string	true	"Product ID"	format(uuid)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Success		200			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Router			/movements [get]
func (h *ReturnHandler) MovementsByProduct(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter appreturns.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	movements, err := h.returnService.ListMovementsByProduct(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}
