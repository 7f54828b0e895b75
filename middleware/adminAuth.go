package middleware

import (
	"context"
	"net/http"
	"strings"

	"clinicsite/models"
	"clinicsite/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminVerifier checks a bearer token issued by the external identity provider
// and returns the admin's subject.
type AdminVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// AdminAuthMiddleware guards admin-only routes. A nil verifier lets every
// request through (ADMIN_AUTH_MODE=none, for perimeters enforced upstream).
func AdminAuthMiddleware(verifier AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Missing or invalid Authorization header", Code: models.CodeUnauthorized})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			zap.L().Warn("Admin token rejected", zap.Error(err), zap.String("ip", getClientIP(c)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{Error: "Unauthorized admin access", Code: models.CodeUnauthorized})
			return
		}

		c.Set(utils.AdminSubjectKey, subject)
		c.Set("isAdmin", true)
		c.Next()
	}
}
