package middleware

import (
	"net/http"
	"strings"

	"koryob-backend/internal/domain"
	"koryob-backend/pkg/apperror"
	"koryob-backend/pkg/auth"
	"koryob-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	ClientTokenCookie = "client_token"
	ClientTokenHeader = "X-Client-Token"

	ctxUser = "User"
)

// ClientIdentity resolves the browser's client id from a bearer token or the
// client_token cookie. A missing or invalid token gets a fresh client id, so
// callers always end up scoped to some client.
func ClientIdentity(tokens *auth.ClientTokens, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString, _ = c.Cookie(ClientTokenCookie)
		}

		clientID, err := tokens.Parse(tokenString)
		if err != nil {
			var token string
			clientID, token, err = tokens.Issue()
			if err != nil {
				logger.Log.Error("Failed to issue client token", "error", err)
				_ = c.Error(apperror.Internal(err))
				c.Abort()
				return
			}

			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientTokenCookie, token, int(tokens.TTL().Seconds()), "/", "", secureCookie, true)
			c.Header(ClientTokenHeader, token)
		}

		c.Set(string(domain.KeyClientID), clientID)
		c.Request = c.Request.WithContext(domain.WithClientID(c.Request.Context(), clientID))
		c.Next()
	}
}

// RequireAuth rejects clients without an authenticated session and stores the
// session user for handlers.
func RequireAuth(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := authUC.CurrentSession(c.Request.Context())
		switch session.Status {
		case domain.SessionUnknown:
			_ = c.Error(apperror.New(http.StatusServiceUnavailable, "Session storage is unavailable. Please try again.", nil))
			c.Abort()
			return
		case domain.SessionAnonymous:
			_ = c.Error(apperror.Unauthorized("You need to sign in first."))
			c.Abort()
			return
		}

		c.Set(ctxUser, session.User)
		c.Set(string(domain.KeyUserID), session.User.ID)
		c.Set(string(domain.KeyUserRole), string(session.User.AccountType))
		c.Next()
	}
}

// RequireEmployer must run after RequireAuth.
func RequireEmployer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserRole)) != string(domain.AccountEmployer) {
			_ = c.Error(apperror.Forbidden("Only employers can do this."))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	user, _ := c.Get(ctxUser)
	u, _ := user.(*domain.User)
	return u
}
