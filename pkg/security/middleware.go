package security

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/AsonyaGh/Bina/pkg/models"
	"github.com/AsonyaGh/Bina/pkg/roles"
)

// JWTMiddleware validates the bearer token and loads its claims into the
// request context.
func JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims := token.Claims.(jwt.MapClaims)
		c.Set("userID", claims["userID"])
		c.Set("role", claims["role"])
		c.Set("locationID", claims["locationID"])
		c.Next()
	}
}

// RequireRole rejects the request unless the token's role is one of the
// allowed roles. List filtering in a client is not authorization; every
// mutating route carries one of these.
func RequireRole(allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := ActorFromContext(c)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			c.Abort()
			return
		}

		for _, role := range allowed {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		c.Abort()
	}
}

// ActorFromContext rebuilds the authenticated actor from the claims set by
// JWTMiddleware.
func ActorFromContext(c *gin.Context) (models.Actor, error) {
	rawUserID, exists := c.Get("userID")
	if !exists {
		return models.Actor{}, fmt.Errorf("no authenticated user in context")
	}
	userID, ok := rawUserID.(string)
	if !ok || userID == "" {
		return models.Actor{}, fmt.Errorf("userID claim is not a string")
	}

	rawRole, _ := c.Get("role")
	roleString, ok := rawRole.(string)
	if !ok {
		return models.Actor{}, fmt.Errorf("role claim is not a string")
	}
	role := roles.Role(roleString)
	if !role.IsValid() {
		return models.Actor{}, fmt.Errorf("unknown role: %s", roleString)
	}

	locationID := ""
	if rawLocationID, exists := c.Get("locationID"); exists {
		locationID, _ = rawLocationID.(string)
	}

	return models.Actor{
		UserID:     userID,
		Role:       role,
		LocationID: locationID,
	}, nil
}
