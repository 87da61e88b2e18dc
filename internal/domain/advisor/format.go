package advisor

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount the way the en-IN locale does: at most three
// fraction digits with trailing zeros dropped, the last three integer digits
// grouped together and every pair before them comma separated
// (1234567.5 -> "12,34,567.5").
func FormatINR(d decimal.Decimal) string {
	s := d.Round(3).String()

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(intPart))
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}
