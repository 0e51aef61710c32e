package token

import (
	"errors"

	"finflow/logger"
)

// ErrRefreshMissing rejects a rotation attempt that presented no refresh
// token at all.
var ErrRefreshMissing = errors.New("refresh token is required")

// Rotator implements the refresh protocol: redeem a valid refresh token for a
// brand-new pair, superseding the old one.
//
// Rotation is stateless. No record of issued jtis is kept, so a superseded
// refresh token stays cryptographically valid until its own expiry and can be
// redeemed again. Detecting that replay would require a shared store of
// issued jtis, which this design deliberately does not have.
type Rotator struct {
	issuer   *Issuer
	verifier *Verifier
}

func NewRotator(issuer *Issuer, verifier *Verifier) *Rotator {
	return &Rotator{issuer: issuer, verifier: verifier}
}

// Rotate validates the presented refresh token and mints a new pair for its
// subject. The caller replaces the refresh cookie with the new token.
func (r *Rotator) Rotate(refreshToken string) (*Pair, error) {
	if refreshToken == "" {
		return nil, ErrRefreshMissing
	}

	claims, err := r.verifier.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrMalformed
	}

	pair, err := r.issuer.IssuePair(userID)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("Refresh token rotated")
	return pair, nil
}
