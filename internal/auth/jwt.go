// Package auth reads the optional identity token a front-end may send.
//
// Nothing in the app is gated on it. The identity only decides which
// listings are "mine" when browsing and who owns a new listing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "skillswap"

var ErrNoSecret = errors.New("jwt secret not configured")

// Claims is the payload of an identity token.
//
// A front-end that knows who its user is sends this token so the service
// can tell "my" listings from everyone else's. Nothing is rejected
// without it; the token only names the caller.
//
// Why embed jwt.RegisteredClaims?
//   - ExpiresAt, IssuedAt and Issuer come for free and are checked by the
//     parser, so an old token simply stops naming anyone.
//   - Subject mirrors UserID, which is what generic JWT tooling shows.
//   - UserID stays a plain string: ids come from whatever system the
//     front-end uses, and this service never interprets them.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for userID.
//
// Why HS256?
//   - The same process issues (/v1/identity, `browse token`) and
//     verifies tokens, so one shared secret is all that is needed.
//   - There is no second service that verifies without issuing, which is
//     the case where an asymmetric key (RS256/EdDSA) would pay off.
func GenerateToken(userID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the signature and expiry and returns the claims.
//
// It checks:
//  1. The signing method is HMAC. A token claiming "none" or RS256 is
//     rejected before the key is used, which blocks algorithm switching.
//  2. The signature matches secret.
//  3. The token has not expired and was issued by this service.
//  4. The token names a user; an empty user id is not an identity.
func ParseToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
