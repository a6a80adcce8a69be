package sales_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/atelier-api/internal/application/sales"
)

func TestReceiptMessage(t *testing.T) {
	msg := sales.ReceiptMessage("Ana", "Bolsa de Linho", d("106"), "BRL")
	assert.Contains(t, msg, "Olá Ana! Segue o recibo da sua compra: Bolsa de Linho. Valor: ")
	assert.Contains(t, msg, "106,00")

	assert.Contains(t, sales.ReceiptMessage("  ", "Bolsa", d("1"), "BRL"), "Olá! Segue")
}

func TestWhatsAppLink(t *testing.T) {
	cases := []struct {
		name, phone, want string
	}{
		{"celular con DDD recibe código de país", "(51) 99999-9999", "https://wa.me/5551999999999?text=Oi%20voc%C3%AA"},
		{"fijo con DDD", "51 3333-4444", "https://wa.me/555133334444?text=Oi%20voc%C3%AA"},
		{"ya trae código de país", "+55 51 99999-9999", "https://wa.me/5551999999999?text=Oi%20voc%C3%AA"},
		{"sin teléfono", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sales.WhatsAppLink("55", tc.phone, "Oi você"))
		})
	}
}
