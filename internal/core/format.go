package core

import (
	"math"
	"strconv"
)

// FormatCurrency renders an amount as the symbol followed by the value
// rounded to a whole unit with Indian-style digit grouping (12,34,567):
// the last three digits form one group, every two digits above that form
// another.
func FormatCurrency(amount float64, symbol string) string {
	neg := amount < 0
	rounded := int64(math.Round(math.Abs(amount)))
	s := groupIndian(strconv.FormatInt(rounded, 10))
	if neg {
		return "-" + symbol + s
	}
	return symbol + s
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	out := ""
	for _, g := range groups {
		out += g + ","
	}
	return out + tail
}
