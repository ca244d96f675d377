package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	chatapp "github.com/oceanerp/backend/internal/application/chat"
	"github.com/oceanerp/backend/internal/interfaces/http/middleware"
)

// ChatHandler handles marketplace chat endpoints. Only storefronts on
// platforms with a chat API participate; the rest answer 422.
type ChatHandler struct {
	BaseHandler
	service *chatapp.Service
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *chatapp.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chat := rg.Group("/chat")
	{
		chat.GET("/unread", h.GetUnreadMessages)
		chat.POST("/storefronts/:storefrontId/conversations/:conversationId/reply", h.SendReply)
		chat.POST("/storefronts/:storefrontId/conversations/:conversationId/read", h.MarkAsRead)
	}
}

// SendReplyRequest is the request body for replying to a buyer
type SendReplyRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) storefrontID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("storefrontId"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid storefront ID")
		return 0, false
	}
	return id, true
}

// GetUnreadMessages returns fresh buyer messages across every chat-capable
// storefront. Messages already relayed by an earlier poll are filtered out.
func (h *ChatHandler) GetUnreadMessages(c *gin.Context) {
	threads, err := h.service.FetchUnreadMessages(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, threads)
}

// SendReply sends a text reply into a conversation.
func (h *ChatHandler) SendReply(c *gin.Context) {
	storefrontID, ok := h.storefrontID(c)
	if !ok {
		return
	}

	var req SendReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	message, err := h.service.SendReply(c.Request.Context(), storefrontID, c.Param("conversationId"), req.Message)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, message)
}

// MarkAsRead marks a conversation read on the platform.
func (h *ChatHandler) MarkAsRead(c *gin.Context) {
	storefrontID, ok := h.storefrontID(c)
	if !ok {
		return
	}

	if err := h.service.MarkAsRead(c.Request.Context(), storefrontID, c.Param("conversationId")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"conversationId": c.Param("conversationId"), "read": true})
}
