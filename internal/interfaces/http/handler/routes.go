package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers all return routes
func (h *ReturnHandler) RegisterRoutes(rg *gin.RouterGroup) {
	returns := rg.Group("/returns")
	{
		returns.POST("", h.Create)
		returns.GET("", h.List)
		returns.GET("/summary", h.Summary)
		returns.GET("/:id", h.GetByID)
		returns.DELETE("/:id", h.Delete)
		returns.GET("/number/:return_number", h.GetByNumber)
		returns.POST("/:id/approve", h.Approve)
		returns.POST("/:id/reject", h.Reject)
		returns.GET("/:id/movements", h.Movements)
	}

	rg.GET("/movements", h.MovementsByProduct)
}

// RegisterRoutes registers all financial note routes
func (h *NoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notes := rg.Group("/notes")
	{
		notes.GET("", h.List)
		notes.GET("/:id", h.GetByID)
		notes.GET("/return/:return_id", h.GetByReturn)
		notes.POST("/:id/apply", h.Apply)
		notes.POST("/:id/cancel", h.Cancel)
	}
}

// RegisterRoutes registers all origin routes
func (h *OriginHandler) RegisterRoutes(rg *gin.RouterGroup) {
	origins := rg.Group("/origins")
	{
		origins.POST("", h.Create)
		origins.GET("/:id", h.GetByID)
	}
}
