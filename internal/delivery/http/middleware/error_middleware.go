package middleware

import (
	"errors"
	"net/http"

	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/domain"
	"koryob-backend/pkg/apperror"
	"koryob-backend/pkg/logger"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		appErr := toAppError(err)

		if appErr.Code >= http.StatusInternalServerError {
			// Never expose internal details; log and report them instead.
			requestID, _ := c.Get("RequestID")
			logger.Log.Error("Internal server error",
				"error", err,
				"path", c.FullPath(),
				"request_id", requestID,
			)
			if hub := sentrygin.GetHubFromContext(c); hub != nil {
				hub.CaptureException(err)
			}
		}

		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}

func toAppError(err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code != http.StatusInternalServerError {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return apperror.Conflict("A user with this email already exists.")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperror.NotFound("User not found.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperror.Unauthorized("Incorrect password.")
	case errors.Is(err, domain.ErrNotAuthenticated):
		return apperror.Unauthorized("You need to sign in first.")
	case errors.Is(err, domain.ErrJobNotFound):
		return apperror.NotFound("Job not found.")
	case errors.Is(err, domain.ErrSessionUnavailable):
		return apperror.New(http.StatusServiceUnavailable, "Your session could not be saved. Please try again.", err)
	}
	return apperror.New(http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", err)
}
