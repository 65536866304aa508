package checkout

import (
	"strings"
	"unicode"
)

const (
	// CardNumberMaxLen is the formatted length including group separators.
	CardNumberMaxLen = 19
	// ExpiryMaxLen covers MM/YY.
	ExpiryMaxLen = 5
	CVVMaxLen    = 4
)

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCardNumber keeps the digits of the input and groups them in fours separated by spaces,
// truncated to CardNumberMaxLen characters.
func FormatCardNumber(value string) string {
	digits := digitsOnly(value)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	formatted := b.String()
	if len(formatted) > CardNumberMaxLen {
		formatted = strings.TrimRightFunc(formatted[:CardNumberMaxLen], unicode.IsSpace)
	}
	return formatted
}

// FormatExpiry strips non-digits and inserts a slash after the month, producing MM/YY.
func FormatExpiry(value string) string {
	digits := digitsOnly(value)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// TruncateCVV caps the security code at CVVMaxLen characters.
func TruncateCVV(value string) string {
	value = strings.TrimSpace(value)
	if len([]rune(value)) > CVVMaxLen {
		return string([]rune(value)[:CVVMaxLen])
	}
	return value
}

// CardLast4 returns the trailing four digits of a card number, or every digit when fewer exist.
func CardLast4(value string) string {
	digits := digitsOnly(value)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
