package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks ECDSA-signed bearer tokens issued by the identity provider.
type Verifier struct {
	key  *ecdsa.PublicKey
	opts []jwt.ParserOption
}

// NewVerifier parses a PEM encoded ECDSA public key.
func NewVerifier(publicKeyPEM []byte) (*Verifier, error) {
	key, err := jwt.ParseECPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verification key: %w", err)
	}
	return NewVerifierWithKey(key), nil
}

func NewVerifierWithKey(key *ecdsa.PublicKey) *Verifier {
	return &Verifier{
		key: key,
		opts: []jwt.ParserOption{
			jwt.WithValidMethods([]string{"ES256", "ES384", "ES512"}),
			jwt.WithExpirationRequired(),
		},
	}
}

// WithClock overrides the time source used for expiry checks.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	return &Verifier{
		key:  v.key,
		opts: append(append([]jwt.ParserOption{}, v.opts...), jwt.WithTimeFunc(now)),
	}
}

// Verify validates the token and extracts the principal.
func (v *Verifier) Verify(tokenString string) (Principal, error) {
	if tokenString == "" {
		return Principal{}, ErrMissingCredential
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil {
		return Principal{}, classify(err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Principal{}, fmt.Errorf("%w: missing subject claim", ErrMalformed)
	}

	return Principal{Subject: sub, Email: emailFromClaims(claims)}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}

// emailFromClaims prefers the top-level email claim and falls back to the
// provider's nested profile claim.
func emailFromClaims(claims jwt.MapClaims) string {
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if email, ok := meta["email"].(string); ok {
			return email
		}
	}
	return ""
}
