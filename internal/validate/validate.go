package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Price checks a decimal-as-text price. The raw string is what gets
// stored; the parse only guards against garbage.
func Price(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return "", false
	}
	return s, true
}

// Qty floors at 1. No upper bound: cart quantities are deliberately
// unbounded.
func Qty(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Sizes splits a comma separated size list, trimming blanks.
func Sizes(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
