package orders

import (
	"net/url"
	"strings"
)

// NormalizePhone rewrites a customer phone number from local Indonesian
// formats to the international form wa.me expects: "0812..." and "812..."
// both become "62812...". Numbers that end up shorter than nine digits
// are junk form input and reported invalid.
func NormalizePhone(raw string) (string, bool) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := digits.String()
	switch {
	case number == "":
		return "", false
	case strings.HasPrefix(number, "0"):
		number = "62" + number[1:]
	case strings.HasPrefix(number, "8"):
		number = "62" + number
	}

	if len(number) < 9 {
		return "", false
	}
	return number, true
}

// WhatsAppLink builds a wa.me deep link with a pre-filled message, or
// reports false when the phone number is unusable.
func WhatsAppLink(phone, message string) (string, bool) {
	number, ok := NormalizePhone(phone)
	if !ok {
		return "", false
	}
	link := "https://wa.me/" + number
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link, true
}
