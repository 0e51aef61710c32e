package token

import (
	"errors"
	"strings"
	"time"
)

// ErrBindingMismatch rejects an access token whose refresh binding cannot be
// proven: the paired refresh token is absent, or carries a different jti.
var ErrBindingMismatch = errors.New("access token is not bound to the presented refresh token")

// Verifier validates presented access tokens. Verification is a pure function
// of the tokens and the clock; no shared state is consulted.
type Verifier struct {
	accessKey  []byte
	refreshKey []byte
	codec      *Codec
}

func NewVerifier(accessSecret, refreshSecret string, now func() time.Time) (*Verifier, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, errors.New("access signing secret must be a non-empty string")
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("refresh signing secret must be a non-empty string")
	}
	return &Verifier{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		codec:      NewCodec(now),
	}, nil
}

// VerifyAccess runs the two checkpoints on a presented access token:
//
//  1. signature and expiry of the access token itself;
//  2. if the token carries a refresh binding, signature, expiry and jti match
//     of the refresh token presented alongside it (from the cookie).
//
// Holding a stolen access token is therefore not enough to impersonate a user
// whose token is bound: the paired refresh cookie is required too.
func (v *Verifier) VerifyAccess(accessToken, refreshToken string) (*AccessClaims, error) {
	claims, err := v.codec.DecodeAccess(accessToken, v.accessKey)
	if err != nil {
		return nil, err
	}

	if claims.BoundRefreshID != "" {
		if refreshToken == "" {
			return nil, ErrBindingMismatch
		}
		refreshClaims, err := v.codec.DecodeRefresh(refreshToken, v.refreshKey)
		if err != nil {
			return nil, err
		}
		if refreshClaims.ID != claims.BoundRefreshID {
			return nil, ErrBindingMismatch
		}
	}

	return claims, nil
}

// VerifyRefresh validates a stand-alone refresh token.
func (v *Verifier) VerifyRefresh(refreshToken string) (*RefreshClaims, error) {
	return v.codec.DecodeRefresh(refreshToken, v.refreshKey)
}
