package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCurrency formats an amount with two decimals, thousands separators
// and a leading dollar sign.
func FormatCurrency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	str := strconv.FormatFloat(amount, 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(str, ".")
	return fmt.Sprintf("%s$%s.%s", sign, groupThousands(intPart), decPart)
}

// FormatCount formats a whole-number table cell
func FormatCount(v float64) string {
	return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
}

// FormatAmount formats a cost cell with two decimals and no currency sign
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
