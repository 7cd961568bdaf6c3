package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the fields read from a provider-issued access token.
type Claims struct {
	jwt.RegisteredClaims
	Email       string                 `json:"email"`
	AppMetadata map[string]interface{} `json:"app_metadata,omitempty"`
}

type VerifierConfig struct {
	// JWTSecret verifies HS256 tokens. Empty disables HS256.
	JWTSecret string
	// JWKS verifies RS256 tokens. Nil disables RS256.
	JWKS *Provider
	// Issuer and Audience are enforced when non-empty.
	Issuer   string
	Audience string
}

// Verifier validates access tokens locally: signature, expiry, issuer, audience and subject.
type Verifier struct {
	secret []byte
	jwks   *Provider
	parser *jwt.Parser
}

func NewVerifier(cfg VerifierConfig) *Verifier {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "RS256"})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	var secret []byte
	if cfg.JWTSecret != "" {
		secret = []byte(cfg.JWTSecret)
	}
	return &Verifier{
		secret: secret,
		jwks:   cfg.JWKS,
		parser: jwt.NewParser(opts...),
	}
}

// Verify returns the token's claims. Errors wrap ErrInvalidToken, or ErrKeySetUnavailable
// when the signing keys could not be fetched.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyFunc)
	if err != nil {
		if errors.Is(err, ErrKeySetUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.secret == nil {
			return nil, fmt.Errorf("HS256 token received but no JWT secret is configured")
		}
		return v.secret, nil
	case *jwt.SigningMethodRSA:
		if v.jwks == nil {
			return nil, fmt.Errorf("RS256 token received but no JWKS is configured")
		}
		return v.jwks.KeyFunc(token)
	}
	return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
}
