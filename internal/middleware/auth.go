package middleware

import (
	"net/http"
	"strings"

	"fashigram/internal/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CheckUserKey holds the caller's user id in the gin context.
const CheckUserKey = "user_id"

// LoadUser verifies an upstream-issued HS256 bearer token and stores its subject.
// Requests without a valid token continue anonymously.
func LoadUser(secret []byte) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.Next()
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || claims.Subject == "" {
			log.Log.WithError(err).Debug("ignoring invalid bearer token")
			c.Next()
			return
		}

		c.Set(CheckUserKey, claims.Subject)
		c.Next()
	}
}

// AuthRequired rejects requests LoadUser could not identify.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the caller's id, or "" for anonymous requests.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(CheckUserKey)
}
