package handlers

import (
	"net/http"

	"clinicsite/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness plus the last dependency health snapshot.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Hi, this is the clinic time table service",
		"deps":    utils.GetHealthStatus(),
	})
}
