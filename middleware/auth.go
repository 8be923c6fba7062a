package middleware

import (
	"net/http"

	"github.com/suraj371k/trello/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the bearer token issued by the external auth
// service and stores the acting user id in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied."})
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid."})
			return
		}

		c.Set("uid", claims.UserID)
		c.Next()
	}
}
