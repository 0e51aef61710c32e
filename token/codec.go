package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Rejection reasons. Handlers map all of them to 401; the distinction matters
// for logging and for tests.
var (
	ErrMalformed    = errors.New("token is malformed")
	ErrBadSignature = errors.New("token signature is invalid")
	ErrExpired      = errors.New("token has expired")
)

// Codec encodes and decodes signed claim sets. It holds no keys: the caller
// supplies the key per operation, which keeps the access/refresh key split
// explicit at every call site. The clock is injectable and read once per
// decode.
type Codec struct {
	now func() time.Time
}

func NewCodec(now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{now: now}
}

// Encode signs the claim set with HMAC-SHA256 under the given key.
func (c *Codec) Encode(claims jwt.Claims, key []byte) (string, error) {
	if len(key) == 0 {
		return "", errors.New("signing key must not be empty")
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// DecodeAccess parses and verifies an access token. A token whose kind claim
// is not "access" or whose subject is missing is rejected as malformed even
// when the signature checks out.
func (c *Codec) DecodeAccess(tokenString string, key []byte) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(tokenString, claims, key); err != nil {
		return nil, err
	}
	if claims.Kind != KindAccess || claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

// DecodeRefresh parses and verifies a refresh token. A refresh token without
// a jti has no identity to bind against and is itself malformed.
func (c *Codec) DecodeRefresh(tokenString string, key []byte) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(tokenString, claims, key); err != nil {
		return nil, err
	}
	if claims.Kind != KindRefresh || claims.Subject == "" || claims.ID == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

func (c *Codec) parse(tokenString string, claims jwt.Claims, key []byte) error {
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return translateParseError(err)
	}
	if !parsed.Valid {
		return ErrBadSignature
	}
	return nil
}

func translateParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
