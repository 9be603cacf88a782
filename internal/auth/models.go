package auth

import "time"

// TokenTypeRefresh is the type claim carried by refresh tokens. Access
// tokens carry no type claim.
const TokenTypeRefresh = "refresh"

// Claims is the validated content of a decoded token.
type Claims struct {
	Subject   string
	TokenType string
	ExpiresAt time.Time
}

// IsRefresh reports whether the token is a refresh token.
func (c Claims) IsRefresh() bool {
	return c.TokenType == TokenTypeRefresh
}

// TokenPair bundles the tokens returned by login and refresh. RefreshToken
// is omitted from the payload when only an access token was issued.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

// Identity represents the authenticated principal yielded by the
// authorization gate.
type Identity struct {
	Subject   string
	TokenType string
}
