package routes

import (
	"clinicsite/config"
	"clinicsite/handlers"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterTimetableRoutes registers the public read and the admin write of the
// weekly time table.
func RegisterTimetableRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/time-table", hb.GetTimetableHandler)

	admin := r.Group("")
	if hb.AdminAuth != nil {
		admin.Use(hb.AdminAuth)
	}
	admin.POST("/time-table", hb.ReplaceTimetableHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterMetricsRoute exposes Prometheus metrics.
func RegisterMetricsRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.MetricsHandler != nil {
		r.GET("/metrics", hb.MetricsHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := config.AllowedOrigins()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "If-Match", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "ETag", "X-Request-ID"},
		AllowCredentials: !(len(origins) == 1 && origins[0] == "*"),
		MaxAge:           12 * time.Hour,
	}))

	RegisterTimetableRoutes(r, hb)
	RegisterHealthRoute(r, hb)
	RegisterMetricsRoute(r, hb)
}
