package v1

import (
	"net/http"

	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type SavedJobHandler struct {
	savedUC domain.SavedJobUsecase
	jobUC   domain.JobUsecase
}

// NewSavedJobHandler registers bookmark routes. Bookmarks belong to the
// client, so no session is needed.
func NewSavedJobHandler(client *gin.RouterGroup, savedUC domain.SavedJobUsecase, jobUC domain.JobUsecase) {
	handler := &SavedJobHandler{savedUC: savedUC, jobUC: jobUC}

	saved := client.Group("/saved-jobs")
	{
		saved.GET("", handler.List)
		saved.POST("/:id/toggle", handler.Toggle)
		saved.PUT("/:id", handler.Save)
		saved.DELETE("/:id", handler.Remove)
	}
}

type SavedJobsResponse struct {
	IDs  []string     `json:"ids"`
	Jobs []domain.Job `json:"jobs"`
}

// ListSavedJobs godoc
// @Summary      Saved jobs
// @Description  Bookmarked job ids and the jobs that still exist, in bookmark order.
// @Tags         saved-jobs
// @Produce      json
// @Success      200  {object}  response.Response{data=SavedJobsResponse}
// @Router       /saved-jobs [get]
func (h *SavedJobHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	ids := h.savedUC.SavedJobs(ctx)
	if ids == nil {
		ids = []string{}
	}
	jobs := make([]domain.Job, 0, len(ids))
	for _, id := range ids {
		if job, err := h.jobUC.GetJob(ctx, id); err == nil {
			jobs = append(jobs, *job)
		}
	}

	response.Success(c, http.StatusOK, "Saved jobs", SavedJobsResponse{IDs: ids, Jobs: jobs})
}

// ToggleSavedJob godoc
// @Summary      Toggle bookmark
// @Tags         saved-jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /saved-jobs/{id}/toggle [post]
func (h *SavedJobHandler) Toggle(c *gin.Context) {
	saved, err := h.savedUC.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Bookmark toggled", gin.H{"saved": saved})
}

// SaveJob godoc
// @Summary      Bookmark a job
// @Tags         saved-jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /saved-jobs/{id} [put]
func (h *SavedJobHandler) Save(c *gin.Context) {
	if err := h.savedUC.Save(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job saved", gin.H{"saved": true})
}

// RemoveSavedJob godoc
// @Summary      Remove a bookmark
// @Tags         saved-jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Router       /saved-jobs/{id} [delete]
func (h *SavedJobHandler) Remove(c *gin.Context) {
	if err := h.savedUC.Remove(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Job removed from saved", gin.H{"saved": false})
}
