package middleware

import (
	"net/http"

	"document_manager/internal/model"

	"github.com/gin-gonic/gin"
)

// MinPermissionMiddleware rejects requests whose actor is below the given
// permission level. Fine-grained checks (ownership exceptions) stay in the
// services; this only gates whole route groups.
func MinPermissionMiddleware(minLevel int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetAuthUser(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Actor not resolved, ensure JWT middleware runs first"})
			return
		}

		if user.Permissions < minLevel {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}

		c.Next()
	}
}

// EditorMiddleware allows editors and above
func EditorMiddleware() gin.HandlerFunc {
	return MinPermissionMiddleware(model.PermissionEditor)
}
