package v1

import (
	"net/http"

	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// validationFailed answers a bind error with one message per failed field.
func validationFailed(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "Validation failed", validation.FormatValidationErrors(err))
}
