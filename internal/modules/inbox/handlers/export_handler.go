package handlers

import (
	"fmt"

	"github.com/MuhamadAgungGumelar/omnichat-inbox-be/internal/modules/inbox/services"
	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	transcripts *services.TranscriptService
}

func NewExportHandler(transcripts *services.TranscriptService) *ExportHandler {
	return &ExportHandler{transcripts: transcripts}
}

// ExportConversation godoc
// @Summary Export conversation transcript
// @Description Download the full history of a conversation as PDF or Excel
// @Tags Conversations
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Conversation ID (customer phone)"
// @Param format query string false "pdf or xlsx" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{id}/export [get]
func (h *ExportHandler) ExportConversation(c *fiber.Ctx) error {
	t, err := h.transcripts.Export(c.UserContext(), c.Params("id"), c.Query("format"))
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, t.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", t.Filename))
	return c.Send(t.Body)
}
