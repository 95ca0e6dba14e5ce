package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/campusmarket/internal/server/http/dto"
)

// ConversationHandler manages conversations and their messages.
type ConversationHandler struct {
	facade MessagingFacade
}

func NewConversationHandler(facade MessagingFacade) *ConversationHandler {
	return &ConversationHandler{facade: facade}
}

// Start handles POST /api/conversations. An existing conversation for the
// same pair and listing is returned with 200.
func (h *ConversationHandler) Start(c *gin.Context) {
	var req dto.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	conv, created, err := h.facade.StartConversation(c.Request.Context(), req.UserUID, req.OtherUID, req.ListingID)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.ConversationDetailResponse{
		Envelope:     dto.OK(""),
		Created:      created,
		Conversation: dto.NewConversationResponse(*conv),
	})
}

// List handles GET /api/conversations?user_uid=.
func (h *ConversationHandler) List(c *gin.Context) {
	var q dto.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	convs, err := h.facade.Conversations(c.Request.Context(), q.UserUID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		out = append(out, dto.NewConversationResponse(conv))
	}
	c.JSON(http.StatusOK, dto.ConversationListResponse{Envelope: dto.OK(""), Conversations: out, Count: len(out)})
}

// Messages handles GET /api/conversations/:id/messages?user_uid=.
func (h *ConversationHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q dto.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, err)
		return
	}
	msgs, err := h.facade.Messages(c.Request.Context(), id, q.UserUID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.NewMessageResponse(m))
	}
	c.JSON(http.StatusOK, dto.MessageListResponse{Envelope: dto.OK(""), Messages: out, Count: len(out)})
}

// Send handles POST /api/conversations/:id/messages.
func (h *ConversationHandler) Send(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	msg, err := h.facade.SendMessage(c.Request.Context(), id, req.UserUID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MessageDetailResponse{Envelope: dto.OK("Message sent"), Data: dto.NewMessageResponse(*msg)})
}
