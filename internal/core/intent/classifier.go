// Package intent detects business intents in customer text and notifies
// the configured webhooks.
package intent

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Kind string

const (
	KindLeadCapture        Kind = "lead_capture"
	KindAppointmentBooking Kind = "appointment_booking"
	KindHumanHandoff       Kind = "human_handoff"
	KindSupportTicket      Kind = "support_ticket"
)

// Kinds lists every intent in evaluation order.
var Kinds = []Kind{KindLeadCapture, KindAppointmentBooking, KindHumanHandoff, KindSupportTicket}

// Keywords are matched against normalized text, so they are written without
// accents and in lower case.
var Keywords = map[Kind][]string{
	KindLeadCapture: {
		"preco", "precos", "valor", "valores", "quanto custa", "quanto e", "orcamento",
		"comprar", "plano", "planos", "price", "pricing", "cost", "quote", "buy",
	},
	KindAppointmentBooking: {
		"agendar", "agendamento", "marcar", "horario", "consulta", "reserva", "reservar",
		"schedule", "appointment", "booking", "book",
	},
	KindHumanHandoff: {
		"atendente", "humano", "pessoa", "falar com alguem", "human", "agent",
		"representative", "real person",
	},
	KindSupportTicket: {
		"problema", "reclamacao", "defeito", "erro", "nao funciona", "suporte",
		"complaint", "problem", "broken", "issue", "support", "not working",
	},
}

// Match is one detected intent with the phrases that triggered it.
type Match struct {
	Kind     Kind
	Keywords []string
}

// Classify returns the intents found in text, in Kinds order.
func Classify(text string) []Match {
	padded := " " + Normalize(text) + " "
	if strings.TrimSpace(padded) == "" {
		return nil
	}

	var out []Match
	for _, kind := range Kinds {
		var hit []string
		for _, kw := range Keywords[kind] {
			if strings.Contains(padded, " "+kw+" ") {
				hit = append(hit, kw)
			}
		}
		if len(hit) > 0 {
			out = append(out, Match{Kind: kind, Keywords: hit})
		}
	}
	return out
}

// Normalize lower-cases text, strips accents and turns everything that is not
// a letter or digit into single spaces.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	space := true
	for _, r := range strings.ToLower(stripped) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}
