package core

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "netgrid-console"
	tokenType   = "session"

	// issueSpacing is the minimum gap between successive token
	// issuances process-wide. Blocking the caller here throttles
	// brute-force login loops and also guarantees distinct issued-at
	// claims for tokens of the same user.
	issueSpacing = time.Second
)

// tokenVerdict is the tagged outcome of decoding a stored token.
// Decode failures never escape as panics or raw jwt errors.
type tokenVerdict int

const (
	tokenValid tokenVerdict = iota
	tokenExpired
	tokenMalformed
)

type sessionClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenStore maps live opaque tokens to user ids and tracks which
// users changed their password since their last issuance. It carries
// no lock of its own: the owning Core serializes every call.
type TokenStore struct {
	secret          []byte
	tokens          map[string]int
	passwordChanged map[int]struct{}
	lastIssued      time.Time
}

func NewTokenStore(secret string) *TokenStore {
	return &TokenStore{
		secret:          []byte(secret),
		tokens:          make(map[string]int),
		passwordChanged: make(map[int]struct{}),
	}
}

// Issue signs a fresh session token for the user and records it as
// live. When the previous issuance happened under issueSpacing ago the
// call blocks for the full spacing before signing.
func (s *TokenStore) Issue(userID, hardTimeoutMinutes int) (string, error) {
	if time.Since(s.lastIssued) < issueSpacing {
		time.Sleep(issueSpacing)
	}

	now := time.Now()
	claims := sessionClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(hardTimeoutMinutes) * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", internal("sign token", err)
	}

	s.lastIssued = now
	s.tokens[signed] = userID
	return signed, nil
}

// Lookup resolves a live token to its user id.
func (s *TokenStore) Lookup(token string) (int, error) {
	userID, ok := s.tokens[token]
	if !ok {
		return 0, notFound("token", "")
	}
	return userID, nil
}

// Renew atomically replaces oldToken with a freshly issued token for
// the same user.
func (s *TokenStore) Renew(oldToken string, hardTimeoutMinutes int) (string, error) {
	userID, ok := s.tokens[oldToken]
	if !ok {
		return "", notFound("token", "")
	}
	newToken, err := s.Issue(userID, hardTimeoutMinutes)
	if err != nil {
		return "", err
	}
	delete(s.tokens, oldToken)
	return newToken, nil
}

// Revoke removes the token. Removing an absent token is not an error.
func (s *TokenStore) Revoke(token string) {
	delete(s.tokens, token)
}

// MarkPasswordChanged flags the user so the next sweep drops every
// token issued before the change.
func (s *TokenStore) MarkPasswordChanged(userID int) {
	s.passwordChanged[userID] = struct{}{}
}

// Sweep removes every entry whose signature no longer verifies
// (expired or tampered) and every entry owned by a user whose password
// changed since issuance. Consulted password markers are cleared, so
// a second sweep with no intervening issuance is a no-op.
func (s *TokenStore) Sweep() {
	for token, userID := range s.tokens {
		if s.decode(token) != tokenValid {
			delete(s.tokens, token)
			continue
		}
		if _, changed := s.passwordChanged[userID]; changed {
			delete(s.tokens, token)
		}
	}
	for userID := range s.passwordChanged {
		delete(s.passwordChanged, userID)
	}
}

// Len reports the number of live tokens.
func (s *TokenStore) Len() int {
	return len(s.tokens)
}

func (s *TokenStore) decode(token string) tokenVerdict {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	switch {
	case err == nil && parsed.Valid && claims.Type == tokenType:
		return tokenValid
	case errors.Is(err, jwt.ErrTokenExpired):
		return tokenExpired
	default:
		return tokenMalformed
	}
}
