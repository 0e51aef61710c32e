package token

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"finflow/logger"
)

// Issuer mints access and refresh tokens. Keys and lifetimes are fixed at
// construction; there is no mutable state, so a single Issuer is safe for
// concurrent use.
type Issuer struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	codec      *Codec
	now        func() time.Time
}

// NewIssuer fails on an empty secret so the caller can refuse to serve
// instead of silently signing with an empty key.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, now func() time.Time) (*Issuer, error) {
	if strings.TrimSpace(accessSecret) == "" {
		return nil, errors.New("access signing secret must be a non-empty string")
	}
	if strings.TrimSpace(refreshSecret) == "" {
		return nil, errors.New("refresh signing secret must be a non-empty string")
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{
		accessKey:  []byte(accessSecret),
		refreshKey: []byte(refreshSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		codec:      NewCodec(now),
		now:        now,
	}, nil
}

// IssueAccess mints an access token for the user, optionally bound to a
// refresh token's jti. An empty boundRefreshID produces an unbound token.
func (i *Issuer) IssueAccess(userID int, boundRefreshID string) (string, *AccessClaims, error) {
	if userID <= 0 {
		return "", nil, errors.New("subject must be a positive user id")
	}

	issuedAt := i.now()
	claims := &AccessClaims{
		Kind:           KindAccess,
		BoundRefreshID: boundRefreshID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.accessTTL)),
		},
	}

	signed, err := i.codec.Encode(claims, i.accessKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign access token")
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, claims, nil
}

// IssueRefresh mints a refresh token with a fresh random jti.
func (i *Issuer) IssueRefresh(userID int) (string, *RefreshClaims, error) {
	if userID <= 0 {
		return "", nil, errors.New("subject must be a positive user id")
	}

	issuedAt := i.now()
	claims := &RefreshClaims{
		Kind: KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(i.refreshTTL)),
		},
	}

	signed, err := i.codec.Encode(claims, i.refreshKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign refresh token")
		return "", nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, claims, nil
}

// IssuePair mints a refresh token and an access token bound to it. This is
// the only way pairs are created, at login and at every rotation.
func (i *Issuer) IssuePair(userID int) (*Pair, error) {
	refreshToken, refreshClaims, err := i.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}

	accessToken, accessClaims, err := i.IssueAccess(userID, refreshClaims.ID)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessClaims:  accessClaims,
		RefreshClaims: refreshClaims,
	}, nil
}

// RefreshTTL reports the configured refresh lifetime, used for cookie max-age.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}
