// Package inputval validates user-supplied input for JSON request
// payloads: struct validation with humanized messages plus a few
// standalone checks used by handlers.
package inputval

import "strings"

// atext per RFC 5322, the characters allowed in an email local part
// besides letters and digits.
const localSymbols = "!#$%&'*+-/=?^_`{|}~"

// IsValidEmail reports whether s is a plausible email address.
// Stricter than a bare "@" check: dots may not lead, trail, or repeat,
// and display-name forms like "Name <a@b>" are rejected. Single-label
// domains are accepted so dev setups like user@localhost work.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return validDotAtom(s[:at], isLocalChar) && validDotAtom(s[at+1:], isDomainChar)
}

func validDotAtom(s string, allowed func(byte) bool) bool {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i := 0; i < len(part); i++ {
			if !allowed(part[i]) {
				return false
			}
		}
	}
	return true
}

func isLocalChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	default:
		return strings.IndexByte(localSymbols, c) >= 0
	}
}

func isDomainChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
		return true
	default:
		return false
	}
}
