package handlers

import (
	"time"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type WebhookHandler struct {
	pipeline *services.PipelineService
}

func NewWebhookHandler(pipeline *services.PipelineService) *WebhookHandler {
	return &WebhookHandler{pipeline: pipeline}
}

// ReceiveWebhook godoc
// @Summary WhatsApp gateway webhook receiver
// @Description Receive inbound messages, reactions and delivery status callbacks from the gateway (Z-API/Green-API)
// @Tags Webhook
// @Accept json
// @Produce json
// @Param payload body services.GatewayPayload true "Gateway event"
// @Success 200 {object} services.AcceptResult
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /webhook [post]
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	payload, err := services.DecodeGatewayPayload(c.Body())
	if err != nil {
		log.Warn().Err(err).Msg("invalid webhook payload")
		return errorResponse(c, err)
	}

	evt := payload.ToEvent(time.Now())
	res, err := h.pipeline.Accept(c.UserContext(), evt)
	if err != nil {
		return errorResponse(c, err)
	}

	log.Debug().
		Str("phone", evt.Phone).
		Str("message_id", evt.MessageID).
		Str("status", res.Status).
		Str("reason", res.Reason).
		Msg("webhook handled")
	return c.JSON(res)
}
