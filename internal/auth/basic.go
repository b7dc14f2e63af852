package auth

import (
	"encoding/base64"
	"strings"
)

const basicPrefix = "Basic "

// ParseBasicAuth extracts the email and password from an HTTP Basic
// Authorization header value (base64 of "email:password"). ok is false for a
// missing header, a non-Basic scheme, invalid base64, or a payload without a
// colon. The password may itself contain colons; only the first one splits.
func ParseBasicAuth(header string) (email, password string, ok bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, basicPrefix))
	if err != nil {
		return "", "", false
	}
	email, password, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	return email, password, true
}
