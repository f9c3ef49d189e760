package auth

import (
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID string
	Email  string
	Role   enums.Role
	JTI    string
}

// Metadata mirrors the public metadata block some identity providers nest the role in.
type Metadata struct {
	Role enums.Role `json:"role,omitempty"`
}

// AccessTokenClaims represents the JWT issued by the identity provider.
type AccessTokenClaims struct {
	Email    string     `json:"email,omitempty"`
	Role     enums.Role `json:"role,omitempty"`
	Metadata *Metadata  `json:"metadata,omitempty"`
	jwt.RegisteredClaims
}

// UserID is the token subject.
func (c *AccessTokenClaims) UserID() string {
	return c.Subject
}

// EffectiveRole prefers the top-level role claim and falls back to metadata.role.
func (c *AccessTokenClaims) EffectiveRole() enums.Role {
	if c.Role != "" {
		return c.Role
	}
	if c.Metadata != nil {
		return c.Metadata.Role
	}
	return ""
}
