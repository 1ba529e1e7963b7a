package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the acting user: user_id when present, otherwise the subject
// set by the identity provider.
func (c *CustomClaims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.Subject
}
