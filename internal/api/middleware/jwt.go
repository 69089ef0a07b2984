package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/devgrill/devgrill/internal/utils"
)

type authError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func abortAuth(c *gin.Context, status int, code utils.Code, msg string) {
	c.AbortWithStatusJSON(status, authError{Code: code, Message: msg})
}

// JWTAuth validates the HS256 bearer token minted by the identity provider
// and exposes the subject as user_id. Issuer and audience checks are
// enforced only when configured.
func JWTAuth() gin.HandlerFunc {
	secret := os.Getenv("JWT_SECRET")
	issuer := os.Getenv("JWT_ISSUER")
	audience := os.Getenv("JWT_AUDIENCE")

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	return func(c *gin.Context) {
		if secret == "" {
			abortAuth(c, http.StatusInternalServerError, utils.CodeInternal, "JWT_SECRET is not set")
			return
		}

		auth := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			abortAuth(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing bearer token")
			return
		}

		claims := &jwt.RegisteredClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, opts...)
		if err != nil || !tok.Valid {
			abortAuth(c, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
			return
		}

		if claims.Subject == "" {
			abortAuth(c, http.StatusUnauthorized, utils.CodeUnauthorized, "missing subject")
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}
