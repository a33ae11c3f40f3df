package http

import "github.com/gin-gonic/gin"

// Register registers the brief routes. createMiddleware runs only in front of
// the create route.
func (h *Handler) Register(rg *gin.RouterGroup, createMiddleware ...gin.HandlerFunc) {
	rg.POST("", append(createMiddleware, h.CreateBrief)...)
	rg.GET("", h.ListBriefs)
}
