package utils

import (
	"fmt"
	"strings"
)

// FormatBRL renders centavos in pt-BR currency style: 123456 -> "R$ 1.234,56".
// Display only; nothing computes on the formatted value.
func FormatBRL(centavos int64) string {
	sign := ""
	if centavos < 0 {
		sign = "-"
		centavos = -centavos
	}

	reais := centavos / 100
	cents := centavos % 100

	digits := fmt.Sprintf("%d", reais)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("%sR$ %s,%02d", sign, strings.Join(groups, "."), cents)
}
