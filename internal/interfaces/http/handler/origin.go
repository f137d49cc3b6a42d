package handler

import (
	appreturns "github.com/IdrisInc/smartbz/internal/application/returns"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OriginHandler handles originating transaction API endpoints
type OriginHandler struct {
	BaseHandler
	originService *appreturns.OriginService
}

// NewOriginHandler creates a new OriginHandler
func NewOriginHandler(originService *appreturns.OriginService) *OriginHandler {
	return &OriginHandler{
		originService: originService,
	}
}

// Create godoc
//
//	@ID				createOrigin
//	@Summary		Register an originating transaction
//	@Description	Register the immutable snapshot of a sale or purchase that returns will be filed against
//	@Tags			origins
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string							true	"Tenant ID"
//	@Param			request		body		appreturns.CreateOriginRequest	true	"Origin registration request"
//	@Success		201			{object}	dto.Response
//	@Failure		400			{object}	dto.Response
//	@Router			/origins [post]
func (h *OriginHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req appreturns.CreateOriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.originService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID godoc
//
//	@ID				getOriginById
//	@Summary		Get originating transaction by ID
//	@Tags			origins
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Origin ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Router			/origins/{id} [get]
func (h *OriginHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	originID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid origin ID format")
		return
	}

	resp, err := h.originService.GetByID(c.Request.Context(), tenantID, originID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
