package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func kinds(ms []Match) []Kind {
	out := make([]Kind, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Kind)
	}
	return out
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "quero saber o preco do pacote", Normalize("Quero saber o PREÇO do pacote!!"))
	assert.Equal(t, "nao funciona", Normalize("  Não   funciona... "))
	assert.Equal(t, "", Normalize("?! ..."))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []Kind
	}{
		{"Quero saber o preço do pacote", []Kind{KindLeadCapture}},
		{"Gostaria de agendar um horário", []Kind{KindAppointmentBooking}},
		{"quero falar com alguém, um atendente por favor", []Kind{KindHumanHandoff}},
		{"O produto chegou com defeito e não funciona", []Kind{KindSupportTicket}},
		{"How much is the pricing? I'd like to book a demo", []Kind{KindLeadCapture, KindAppointmentBooking}},
		{"Bom dia!", []Kind{}},
		{"", []Kind{}},
		// word boundaries: "buyer" is not "buy", "errors" is not "erro"
		{"the buyer reported errors", []Kind{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, kinds(Classify(tt.text)), tt.text)
	}
}

func TestClassifyReportsKeywords(t *testing.T) {
	t.Parallel()

	ms := Classify("Qual o valor e o preço?")
	if assert.Len(t, ms, 1) {
		assert.Equal(t, []string{"preco", "valor"}, ms[0].Keywords)
	}
}
