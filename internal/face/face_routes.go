package face

import (
	"rollcall/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	samples := r.Group("/face-samples")
	samples.Use(middleware.AuthMiddleware())
	samples.Use(middleware.RateLimitByUser(rate.Limit(1), 5))
	{
		samples.POST("", h.Enroll)
		samples.GET("", h.List)
		samples.DELETE("/:id", h.Delete)
	}
}
