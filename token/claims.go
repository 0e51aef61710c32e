// Package token implements the signed-credential scheme shared by the gateway
// and the identity service: short-lived access tokens cryptographically bound
// to longer-lived, rotating refresh tokens. Access and refresh tokens are
// signed with two independent HMAC-SHA256 secrets, so a token of one kind can
// never pass the other kind's signature check.
package token

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// AccessClaims is the claim set of a short-lived access token. BoundRefreshID,
// when present, must equal the jti of the refresh token it was issued with;
// verification enforces the pairing.
type AccessClaims struct {
	Kind           string `json:"kind"`
	BoundRefreshID string `json:"refresh_jti,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims is the claim set of a refresh token. Its jti (RegisteredClaims.ID)
// is a fresh random identifier on every issuance.
type RefreshClaims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a user identifier.
func (c *AccessClaims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

func (c *RefreshClaims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

// Pair is a freshly issued access+refresh token set. The access token is
// always bound to the refresh token's jti.
type Pair struct {
	AccessToken   string
	RefreshToken  string
	AccessClaims  *AccessClaims
	RefreshClaims *RefreshClaims
}
