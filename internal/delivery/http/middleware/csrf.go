package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"koryob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	// CSRFTokenCookieName is the name of the cookie that stores the CSRF token
	CSRFTokenCookieName = "csrf_token"
	// CSRFTokenHeaderName is the name of the header that must contain the CSRF token
	CSRFTokenHeaderName = "X-CSRF-Token"
	// CSRFTokenLength is the length of the generated token in bytes
	CSRFTokenLength = 32
	// CSRFTokenExpiry is how long the token is valid
	CSRFTokenExpiry = 24 * time.Hour
)

func generateCSRFToken() (string, error) {
	bytes := make([]byte, CSRFTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CSRFMiddleware implements the double-submit cookie pattern. Every response
// carries a readable csrf_token cookie; state-changing requests must echo it
// in X-CSRF-Token. Requests authenticated by a bearer header are exempt since
// browsers never attach that header on their own.
func CSRFMiddleware(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		csrfCookie, err := c.Cookie(CSRFTokenCookieName)
		if err != nil || csrfCookie == "" {
			newToken, err := generateCSRFToken()
			if err != nil {
				_ = c.Error(apperror.Internal(err))
				c.Abort()
				return
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFTokenCookieName, newToken, int(CSRFTokenExpiry.Seconds()), "/", "", secureCookie, false)
			csrfCookie = newToken
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.GetHeader("Authorization") != "" {
			c.Next()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeaderName)
		if headerToken == "" {
			_ = c.Error(apperror.Forbidden("Missing CSRF token"))
			c.Abort()
			return
		}
		if subtle.ConstantTimeCompare([]byte(headerToken), []byte(csrfCookie)) != 1 {
			_ = c.Error(apperror.Forbidden("Invalid CSRF token"))
			c.Abort()
			return
		}

		c.Next()
	}
}
