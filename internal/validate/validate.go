package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// US ZIP: 5 digits or ZIP+4
	reZIP     = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	reEmail   = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePhone   = regexp.MustCompile(`^\+?[0-9 ()-]{7,20}$`)
	reID      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	rePayment = regexp.MustCompile(`^[a-z_]{1,32}$`)
	reKey     = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)
)

func PostalCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 10 {
		return "", false
	}
	return s, reZIP.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 80 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return ClampQty(n)
}

// ClampQty bounds a cart quantity to 1..50.
func ClampQty(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// ID validates a simple resource identifier (product/customer/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// PaymentMethod accepts short lower-case tokens such as "card" or "cash".
func PaymentMethod(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePayment.MatchString(s)
}

// IdempotencyKey validates a client-chosen retry key. Empty means none.
func IdempotencyKey(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s == "" || reKey.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Text bounds a free-form address line.
func Text(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= 120
}

// Password enforces a simple length window for login checks.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}
