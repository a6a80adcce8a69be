package sales

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/atelier-api/pkg/format"
)

// ReceiptMessage texto del recibo enviado al cliente por WhatsApp.
func ReceiptMessage(clientName, productName string, amount decimal.Decimal, currency string) string {
	greeting := "Olá!"
	if name := strings.TrimSpace(clientName); name != "" {
		greeting = fmt.Sprintf("Olá %s!", name)
	}
	return fmt.Sprintf("%s Segue o recibo da sua compra: %s. Valor: %s",
		greeting, productName, format.Currency(amount, currency))
}

// WhatsAppLink enlace wa.me con el mensaje precargado. Teléfonos con DDD (10 u 11 dígitos)
// reciben el código de país. Sin teléfono → "".
func WhatsAppLink(countryCode, phone, message string) string {
	digits := format.Digits(phone)
	if digits == "" {
		return ""
	}
	if len(digits) == 10 || len(digits) == 11 {
		digits = format.Digits(countryCode) + digits
	}
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits + "?text=" + text
}
