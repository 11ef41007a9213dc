// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/bndylive/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// Token describes a hub token to mint. A zero ExpiresAt omits exp.
type Token struct {
	Subject   string
	Email     string
	Name      string
	Roles     []string
	ExpiresAt time.Time
}

// MintToken signs tok with a throwaway HMAC key. The client never checks
// signatures so any key will do.
func MintToken(t testing.TB, tok Token) string {
	t.Helper()

	claims := jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  tok.Subject,
			IssuedAt: jwt.NewNumericDate(time.Unix(0, 0)),
		},
		Email: tok.Email,
		Name:  tok.Name,
		Roles: tok.Roles,
	}
	if !tok.ExpiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(tok.ExpiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("testutil"))
	require.NoError(t, err)
	return signed
}
