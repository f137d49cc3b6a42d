package handler

import (
	appreturns "github.com/IdrisInc/smartbz/internal/application/returns"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NoteHandler handles financial note API endpoints
type NoteHandler struct {
	BaseHandler
	noteService *appreturns.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(noteService *appreturns.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// GetByID godoc
//
//	@ID				getNoteById
//	@Summary		Get financial note by ID
//	@Tags			notes
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Note ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Router			/notes/{id} [get]
func (h *NoteHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid note ID format")
		return
	}

	resp, err := h.noteService.GetByID(c.Request.Context(), tenantID, noteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByReturn godoc
//
//	@ID				getNoteByReturn
//	@Summary		Get the note issued for a return
//	@Tags			notes
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			return_id	path		string	true	"Return ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Router			/notes/return/{return_id} [get]
func (h *NoteHandler) GetByReturn(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	returnID, err := uuid.Parse(c.Param("return_id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	resp, err := h.noteService.GetByReturn(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
//
//	@ID				listNotes
//	@Summary		List financial notes
//	@Tags			notes
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)
//	@Success		200			{object}	dto.Response
//	@Router			/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req struct {
		Page     int `form:"page,default=1"`
		PageSize int `form:"page_size,default=20"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.noteService.List(c.Request.Context(), tenantID, req.Page, req.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Apply godoc
//
//	@ID				applyNote
//	@Summary		Apply an issued note against the counterparty's balance
//	@Tags			notes
//	@Produce		json
//	@Param			X-Tenant-ID	header		string	true	"Tenant ID"
//	@Param			id			path		string	true	"Note ID"	format(uuid)
//	@Success		200			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Failure		422			{object}	dto.Response
//	@Router			/notes/{id}/apply [post]
func (h *NoteHandler) Apply(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid note ID format")
		return
	}

	resp, err := h.noteService.Apply(c.Request.Context(), tenantID, noteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel godoc
//
//	@ID				cancelNote
//	@Summary		Cancel an issued note
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string							true	"Tenant ID"
//	@Param			id			path		string							true	"Note ID"	format(uuid)
//	@Param			request		body		appreturns.CancelNoteRequest	true	"Cancellation reason"
//	@Success		200			{object}	dto.Response
//	@Failure		404			{object}	dto.Response
//	@Failure		422			{object}	dto.Response
//	@Router			/notes/{id}/cancel [post]
func (h *NoteHandler) Cancel(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid note ID format")
		return
	}

	var req appreturns.CancelNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.noteService.Cancel(c.Request.Context(), tenantID, noteID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
