package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/ai-tutor-be/service"
	"github.com/tieubaoca/ai-tutor-be/types"
)

type ChatHandler struct {
	chatService service.ChatService
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	sessionID := c.Query("session_id")
	message := c.Query("message")
	documentPath := c.Query("document_path")

	if sessionID == "" || message == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Missing session_id or message parameter",
		})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), sessionID, message, documentPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   resp,
	})
}
