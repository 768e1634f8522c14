package middleware

import (
	"errors"
	"net/http"
	"strings"

	"document_manager/internal/model"
	"document_manager/internal/service"
	"document_manager/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthUserKey is the gin context key holding the authenticated *model.User
const AuthUserKey = "authUser"

// extractToken pulls the bearer token from the Authorization header, falling
// back to the access_token cookie set at login
func extractToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		cookie, err := c.Cookie("access_token")
		if err != nil {
			return "", false
		}
		header = cookie
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}

// JWTAuthMiddleware validates the session token and resolves the actor from
// the credential store, so tokens of deleted accounts stop working immediately
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		subject, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		user, err := authService.GetByEmail(c.Request.Context(), subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// GetAuthUser returns the authenticated user placed in the context by
// JWTAuthMiddleware
func GetAuthUser(c *gin.Context) (*model.User, error) {
	userVal, exists := c.Get(AuthUserKey)
	if !exists {
		return nil, errors.New("user not found in context")
	}
	user, ok := userVal.(*model.User)
	if !ok {
		return nil, errors.New("invalid user type in context")
	}
	return user, nil
}
