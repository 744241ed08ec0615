package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// TokenClaims is the subset of the backend's JWT payload the client reads.
// The token is not verified locally; the backend rejects bad signatures.
type TokenClaims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

type rawClaims struct {
	ID    string `json:"id"`
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

// ParseTokenClaims decodes the payload segment of a JWT without verifying
// the signature. It is used at login time to derive the user id and the
// client-side expiry from a pasted token.
func ParseTokenClaims(token string) (TokenClaims, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return TokenClaims{}, errors.New("token is not a JWT")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return TokenClaims{}, fmt.Errorf("decode token payload: %w", err)
	}

	var raw rawClaims
	if err := json.Unmarshal(payload, &raw); err != nil {
		return TokenClaims{}, fmt.Errorf("parse token payload: %w", err)
	}

	userID := raw.ID
	if userID == "" {
		userID = raw.Sub
	}
	if userID == "" {
		return TokenClaims{}, errors.New("token payload has no user id")
	}

	claims := TokenClaims{UserID: userID, Email: raw.Email}
	if raw.Exp > 0 {
		claims.ExpiresAt = time.Unix(raw.Exp, 0)
	}
	return claims, nil
}
