package shop

import (
	"strconv"
	"strings"
)

// Money renders an amount with the currency symbol and Indian digit
// grouping: the last three digits group together, then pairs. 1234567.5
// becomes "12,34,567.50".
func Money(symbol string, v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	fixed := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	return sign + symbol + groupIndian(intPart) + "." + fracPart
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	tail := digits[len(digits)-3:]
	head := digits[:len(digits)-3]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)
	return strings.Join(groups, ",")
}
