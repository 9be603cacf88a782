package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nursan/golistings/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	// AccessTokenTTL bounds the lifetime of access tokens.
	AccessTokenTTL = 60 * time.Minute
	// RefreshTokenTTL bounds the lifetime of refresh tokens.
	RefreshTokenTTL = 7 * 24 * time.Hour

	bearerTokenType = "bearer"

	demoEmail    = "demo@example.com"
	demoPassword = "changeme"

	maxPasswordLength      = 72 // bcrypt limit
	defaultProviderTimeout = 5 * time.Second
)

// identityProvider is consulted first during login. Any error it returns is
// treated as "no match", never propagated.
type identityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (string, error)
}

// Service encapsulates credential verification, token issuance and token
// validation. It holds no mutable state after construction.
type Service struct {
	provider        identityProvider
	secret          []byte
	demoHash        string
	providerTimeout time.Duration
	nowFunc         func() time.Time
	parser          *jwt.Parser
}

// NewService creates a Service with dependencies. The demo account hash is
// computed once here.
func NewService(provider identityProvider, cfg config.AuthConfig) (*Service, error) {
	demoHash, err := HashPassword(demoPassword, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}

	s := &Service{
		provider:        provider,
		secret:          []byte(cfg.JWTSecret),
		demoHash:        demoHash,
		providerTimeout: timeout,
		nowFunc:         time.Now,
	}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time { return s.nowFunc() }),
	)

	return s, nil
}

// HashPassword produces a salted one-way hash of the password.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > maxPasswordLength {
		return "", fmt.Errorf("password exceeds maximum length of %d characters", maxPasswordLength)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword reports whether the password matches the stored hash.
// Malformed hashes compare as false rather than failing.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate resolves an email/password pair to a stable user identifier.
// The identity provider is tried first with a bounded timeout; the built-in
// demo account is the fallback. Returning ok == false is the only failure
// signal.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, bool) {
	if s.provider != nil {
		providerCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
		userID, err := s.provider.SignInWithPassword(providerCtx, email, password)
		cancel()
		if err == nil && userID != "" {
			return userID, true
		}
	}

	if strings.EqualFold(email, demoEmail) && VerifyPassword(password, s.demoHash) {
		// The identifier is the email as the caller sent it, not the
		// canonical demo spelling.
		return email, true
	}

	return "", false
}

// IssueTokens produces a fresh access/refresh pair for an authenticated
// identifier.
func (s *Service) IssueTokens(userID string) (TokenPair, error) {
	accessToken, err := s.encode(jwt.MapClaims{"sub": userID}, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.encode(jwt.MapClaims{"sub": userID, "type": TokenTypeRefresh}, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    bearerTokenType,
	}, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair. The old
// refresh token is not invalidated; validity is signature plus expiry only.
func (s *Service) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := s.DecodeToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	if !claims.IsRefresh() || claims.Subject == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.IssueTokens(claims.Subject)
}

// Authorize validates a bearer token for resource access. Refresh tokens are
// rejected even though they decode.
func (s *Service) Authorize(tokenString string) (Identity, error) {
	claims, err := s.DecodeToken(tokenString)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	if claims.IsRefresh() {
		return Identity{}, ErrUnauthorized
	}
	if claims.Subject == "" {
		return Identity{}, ErrUnauthorized
	}

	return Identity{Subject: claims.Subject, TokenType: claims.TokenType}, nil
}

// DecodeToken verifies signature and expiry and extracts the claims. All
// failures collapse into ErrInvalidToken.
func (s *Service) DecodeToken(tokenString string) (Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrInvalidToken
	}

	parsed, err := s.parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	expFloat, ok := mapClaims["exp"].(float64)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	tokenType, _ := mapClaims["type"].(string)

	return Claims{
		Subject:   sub,
		TokenType: tokenType,
		ExpiresAt: time.Unix(int64(expFloat), 0),
	}, nil
}

// encode copies the claims, stamps the expiry and signs with the shared
// secret. The caller's map is never mutated.
func (s *Service) encode(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	payload := make(jwt.MapClaims, len(claims)+1)
	for key, value := range claims {
		payload[key] = value
	}
	payload["exp"] = s.nowFunc().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
