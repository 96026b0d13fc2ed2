package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with the session API under /api/v1.
func NewRouter(h *SessionHandler) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "ok"})
	})

	apiV1 := r.Group("/api/v1")
	{
		sessions := apiV1.Group("/sessions")
		sessions.POST("", h.Create)
		sessions.GET("", h.List)
		sessions.GET("/:id", h.Get)
		sessions.PUT("/:id", h.Replace)
		sessions.DELETE("/:id", h.Delete)
		sessions.POST("/:id/query", h.Query)
	}
	return r
}
