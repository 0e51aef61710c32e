// file: model/token.go

package model

// TokenPair is the identity service's response to a successful login or
// rotation. The gateway moves the refresh token into an HTTP-only cookie and
// only the access token reaches the client body.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}
