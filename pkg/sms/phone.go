package sms

import "strings"

// Normalize converts a phone number to the international Philippine format
// used by both gateways: digits only, 63 country code, no plus sign.
// "0917 123 4567" becomes "639171234567".
func Normalize(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if strings.HasPrefix(digits, "0") {
		digits = "63" + digits[1:]
	}
	if !strings.HasPrefix(digits, "63") {
		digits = "63" + digits
	}
	return digits
}

// Valid reports whether phone normalizes to a well-formed Philippine mobile
// number (12 digits starting with 63).
func Valid(phone string) bool {
	n := Normalize(phone)
	return len(n) == 12 && strings.HasPrefix(n, "63")
}
