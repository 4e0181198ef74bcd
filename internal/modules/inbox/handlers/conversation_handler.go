package handlers

import (
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/models"
	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/services"
	"github.com/gofiber/fiber/v2"
)

type ConversationHandler struct {
	agentService *services.AgentService
}

func NewConversationHandler(agentService *services.AgentService) *ConversationHandler {
	return &ConversationHandler{agentService: agentService}
}

// Register mounts the agent API on router.
func (h *ConversationHandler) Register(router fiber.Router) {
	conv := router.Group("/conversations")
	conv.Get("/", h.ListConversations)
	conv.Get("/:id", h.GetConversation)
	conv.Get("/:id/messages", h.ListMessages)
	conv.Post("/:id/messages", h.SendMessage)
	conv.Delete("/:id/messages/:messageId", h.DeleteMessage)
	conv.Post("/:id/assume", h.Assume)
	conv.Post("/:id/return-to-ai", h.ReturnToAI)
	conv.Post("/:id/resolve", h.Resolve)
	conv.Post("/:id/read", h.MarkRead)
}

// ListConversations godoc
// @Summary List conversations
// @Description List conversations, most recent activity first
// @Tags Conversations
// @Produce json
// @Param status query string false "Filter by status (waiting, ai_active, agent_assigned, resolved)"
// @Param limit query int false "Max results" default(50)
// @Success 200 {object} models.ConversationListResponse
// @Failure 400 {object} map[string]interface{}
// @Router /conversations [get]
func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	list, err := h.agentService.ListConversations(c.UserContext(), c.Query("status"), c.QueryInt("limit", services.DefaultListLimit))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(models.ConversationListResponse{Conversations: list, Total: len(list)})
}

// GetConversation godoc
// @Summary Get conversation
// @Description Retrieve a conversation by customer phone
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Success 200 {object} models.Conversation
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id} [get]
func (h *ConversationHandler) GetConversation(c *fiber.Ctx) error {
	conv, err := h.agentService.GetConversation(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(conv)
}

// ListMessages godoc
// @Summary Conversation history
// @Description All messages of a conversation ordered by timestamp
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Success 200 {object} models.MessageListResponse
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id}/messages [get]
func (h *ConversationHandler) ListMessages(c *fiber.Ctx) error {
	id := c.Params("id")
	msgs, err := h.agentService.History(c.UserContext(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(models.MessageListResponse{ConversationID: id, Messages: msgs, Total: len(msgs)})
}

// SendMessage godoc
// @Summary Send agent message
// @Description Send a message to the customer as a human agent (no delay)
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Param message body models.SendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /conversations/{id}/messages [post]
func (h *ConversationHandler) SendMessage(c *fiber.Ctx) error {
	var req models.SendMessageRequest
	if err := parseBody(c, &req); err != nil {
		return errorResponse(c, err)
	}

	msg, err := h.agentService.SendMessage(c.UserContext(), c.Params("id"), req.AgentID, req.Text)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// DeleteMessage godoc
// @Summary Delete message
// @Description Delete a message from the conversation history
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Param messageId path string true "Message ID"
// @Param agentId query string false "Agent performing the delete"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id}/messages/{messageId} [delete]
func (h *ConversationHandler) DeleteMessage(c *fiber.Ctx) error {
	if err := h.agentService.DeleteMessage(c.UserContext(), c.Params("id"), c.Params("messageId"), c.Query("agentId")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

// Assume godoc
// @Summary Assume conversation
// @Description Hand the conversation to a human agent; the AI stops replying
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Param request body models.AssumeRequest true "Agent"
// @Success 200 {object} models.Conversation
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id}/assume [post]
func (h *ConversationHandler) Assume(c *fiber.Ctx) error {
	var req models.AssumeRequest
	if err := parseBody(c, &req); err != nil {
		return errorResponse(c, err)
	}

	conv, err := h.agentService.Assume(c.UserContext(), c.Params("id"), req.AgentID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(conv)
}

// ReturnToAI godoc
// @Summary Return conversation to AI
// @Description Give the conversation back to the AI responder
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Param request body models.ReturnToAIRequest false "Agent"
// @Success 200 {object} models.Conversation
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /conversations/{id}/return-to-ai [post]
func (h *ConversationHandler) ReturnToAI(c *fiber.Ctx) error {
	var req models.ReturnToAIRequest
	if err := parseBody(c, &req); err != nil {
		return errorResponse(c, err)
	}

	conv, err := h.agentService.ReturnToAI(c.UserContext(), c.Params("id"), req.AgentID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(conv)
}

// Resolve godoc
// @Summary Resolve conversation
// @Description Mark an agent-assigned conversation as resolved
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Param request body models.ResolveRequest true "Agent"
// @Success 200 {object} models.Conversation
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /conversations/{id}/resolve [post]
func (h *ConversationHandler) Resolve(c *fiber.Ctx) error {
	var req models.ResolveRequest
	if err := parseBody(c, &req); err != nil {
		return errorResponse(c, err)
	}

	conv, err := h.agentService.Resolve(c.UserContext(), c.Params("id"), req.AgentID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(conv)
}

// MarkRead godoc
// @Summary Mark conversation read
// @Description Reset the unread counter
// @Tags Conversations
// @Produce json
// @Param id path string true "Conversation ID (customer phone)"
// @Success 200 {object} models.Conversation
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id}/read [post]
func (h *ConversationHandler) MarkRead(c *fiber.Ctx) error {
	conv, err := h.agentService.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(conv)
}
