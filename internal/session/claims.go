package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// Claims are the identity attributes embedded in the access token payload.
// Permissions carry the fine-grained capabilities; Role is only a label.
type Claims struct {
	UID         int64    `json:"uid"`
	Username    string   `json:"username"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// HasPermission checks the granted set for a capability. Permission strings
// compare case-insensitively on trimmed forms.
func (c *Claims) HasPermission(perm string) bool {
	if c == nil {
		return false
	}
	want := NormalizePermission(perm)
	for _, granted := range c.Permissions {
		if NormalizePermission(granted) == want {
			return true
		}
	}
	return false
}

// NormalizePermission produces the canonical comparison form of a
// permission string: trimmed and upper-cased.
func NormalizePermission(perm string) string {
	return strings.ToUpper(strings.TrimSpace(perm))
}

// DecodeTokenClaims extracts the claims from a JWT-shaped access token
// without verifying its signature; the token is opaque to the client and
// verification is the backend's business.
func DecodeTokenClaims(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token is not a three-segment JWT")
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token payload: %w", err)
	}
	return &claims, nil
}
