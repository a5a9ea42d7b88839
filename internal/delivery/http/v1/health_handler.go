package v1

import (
	"net/http"

	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

// HealthCheck godoc
// @Summary      Health check
// @Description  Reports the storage driver and whether it answers.
// @Tags         system
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func healthCheck(healthUC usecase.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := healthUC.Check(c.Request.Context())
		if result["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "Storage unavailable", result)
			return
		}
		response.Success(c, http.StatusOK, "System operational", result)
	}
}
