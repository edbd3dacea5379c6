package util

import (
	"fmt"
	"strings"

	"github.com/zingerfi/zingerfi-server/types"
	"golang.org/x/net/idna"
)

// NormalizeEmail lowercases the address and converts an internationalized domain to its ASCII form
func NormalizeEmail(email string) (string, error) {
	e := strings.TrimSpace(email)
	at := strings.LastIndex(e, "@")
	if at <= 0 || at == len(e)-1 {
		return "", types.ErrInvalidEmail
	}
	domain, err := idna.Lookup.ToASCII(e[at+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrInvalidEmail, err.Error())
	}
	return strings.ToLower(e[:at] + "@" + domain), nil
}

// CanonicalEmail lowercases an address taken from an identity token and punycode-encodes its domain.
// Unlike NormalizeEmail it applies no IDNA compatibility mapping, so look-alike forms stay distinct.
func CanonicalEmail(email string) (string, error) {
	e := strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(e, "@")
	if at <= 0 || at == len(e)-1 {
		return "", types.ErrInvalidEmail
	}
	domain, err := idna.Punycode.ToASCII(e[at+1:])
	if err != nil {
		return "", fmt.Errorf("%w: %s", types.ErrInvalidEmail, err.Error())
	}
	return e[:at] + "@" + domain, nil
}

// SameEmail compares a caller's address with a stored (normalized) recipient, case-insensitively
func SameEmail(caller, recipient string) bool {
	ca, aErr := CanonicalEmail(caller)
	cb, bErr := CanonicalEmail(recipient)
	if aErr != nil || bErr != nil {
		return false
	}
	return strings.EqualFold(ca, cb)
}
