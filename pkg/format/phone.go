package format

import "strings"

// Digits elimina todo lo que no sea dígito.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone formatea un teléfono brasileño con DDD: 11 dígitos → (XX) XXXXX-XXXX,
// 10 dígitos → (XX) XXXX-XXXX. Otros largos se devuelven sin cambios.
func Phone(s string) string {
	d := Digits(s)
	switch len(d) {
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	}
	return s
}
