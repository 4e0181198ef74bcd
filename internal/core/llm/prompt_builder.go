package llm

import (
	"fmt"
	"strings"
)

// Persona describes how the assistant should present itself.
type Persona struct {
	BusinessName string
	Tone         string
	Instructions string
}

// BuildSystemPrompt membuat system prompt dari persona
func BuildSystemPrompt(p Persona) string {
	var sb strings.Builder

	name := p.BusinessName
	if name == "" {
		name = "nossa empresa"
	}
	tone := p.Tone
	if tone == "" {
		tone = "amigável e profissional"
	}

	sb.WriteString(fmt.Sprintf("Você é o assistente virtual de %s no WhatsApp.\n", name))
	sb.WriteString(fmt.Sprintf("Tom de comunicação: %s.\n\n", tone))

	sb.WriteString("Instruções:\n")
	sb.WriteString("- Responda no idioma do cliente, com mensagens curtas\n")
	sb.WriteString("- Use o histórico da conversa para manter o contexto\n")
	sb.WriteString("- Se não souber a resposta, diga com honestidade e ofereça falar com um atendente\n")
	sb.WriteString("- Não invente preços, prazos ou políticas\n")

	if extra := strings.TrimSpace(p.Instructions); extra != "" {
		sb.WriteString("\n")
		sb.WriteString(extra)
		sb.WriteString("\n")
	}

	return sb.String()
}
