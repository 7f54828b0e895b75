// File: clinicsite/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the middleware routes need.
type HandlerBundle struct {
	// Time table endpoints
	GetTimetableHandler     gin.HandlerFunc
	ReplaceTimetableHandler gin.HandlerFunc

	// Perimeter guarding admin writes.
	AdminAuth gin.HandlerFunc

	// Operational endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc
}
