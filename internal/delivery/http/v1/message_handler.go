package v1

import (
	"net/http"

	"koryob-backend/internal/delivery/http/middleware"
	"koryob-backend/internal/delivery/http/response"
	"koryob-backend/internal/domain"
	"koryob-backend/pkg/apperror"
	"koryob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
	jobUC     domain.JobUsecase
	convoUC   domain.ConversationUsecase
	sanitizer *security.TextSanitizer
}

func NewMessageHandler(protected *gin.RouterGroup, messageUC domain.MessageUsecase, jobUC domain.JobUsecase, convoUC domain.ConversationUsecase, sanitizer *security.TextSanitizer) {
	handler := &MessageHandler{messageUC: messageUC, jobUC: jobUC, convoUC: convoUC, sanitizer: sanitizer}

	thread := protected.Group("/jobs/:id/messages")
	{
		thread.GET("", handler.List)
		thread.POST("", handler.Send)
		thread.POST("/read", handler.MarkRead)
	}

	protected.GET("/conversations", handler.Conversations)
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// ListMessages godoc
// @Summary      Job thread
// @Description  Messages on a job, oldest first.
// @Tags         messages
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response{data=[]domain.Message}
// @Failure      401  {object}  response.Response
// @Router       /jobs/{id}/messages [get]
// @Security     ClientToken
func (h *MessageHandler) List(c *gin.Context) {
	messages := h.messageUC.MessagesForJob(c.Request.Context(), c.Param("id"))
	response.Success(c, http.StatusOK, "Messages", messages)
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Append a message to the job thread. The sender is the signed-in user's account type.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Job ID"
// @Param        message  body      SendMessageRequest  true  "Message"
// @Success      201      {object}  response.Response{data=domain.Message}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /jobs/{id}/messages [post]
// @Security     ClientToken
func (h *MessageHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationFailed(c, err)
		return
	}
	text := h.sanitizer.Sanitize(req.Text)
	if text == "" {
		_ = c.Error(apperror.BadRequest("Message must contain text"))
		return
	}

	if _, err := h.jobUC.GetJob(ctx, jobID); err != nil {
		_ = c.Error(err)
		return
	}

	msg, err := h.messageUC.AddMessage(ctx, jobID, middleware.CurrentUser(c).AccountType, text)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// MarkMessagesRead godoc
// @Summary      Mark thread as read
// @Description  Flags the other side's messages on the job as read.
// @Tags         messages
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /jobs/{id}/messages/read [post]
// @Security     ClientToken
func (h *MessageHandler) MarkRead(c *gin.Context) {
	marked, err := h.messageUC.MarkMessagesAsRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Messages marked as read", gin.H{"marked": marked})
}

// ListConversations godoc
// @Summary      Conversations
// @Description  One row per job thread visible to the signed-in user, most recent first.
// @Tags         messages
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Conversation}
// @Failure      401  {object}  response.Response
// @Router       /conversations [get]
// @Security     ClientToken
func (h *MessageHandler) Conversations(c *gin.Context) {
	response.Success(c, http.StatusOK, "Conversations", h.convoUC.Conversations(c.Request.Context()))
}
