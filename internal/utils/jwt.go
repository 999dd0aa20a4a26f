package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/iliyamo/storefront/internal/model"
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string. Exp stores the expiration
// timestamp. Access tokens are returned by the login and signup endpoints
// and sent back by clients in the Authorization header.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. The subject
// is the user's email, which is what storefront clients display and use
// as their customer id. The JWT carries sub, role, exp and iat.
func NewAccessToken(secret, email string, role model.Role, ttl time.Duration) (AccessToken, error) {
	// Calculate the expiration by adding the TTL to the current UTC time.
	exp := time.Now().UTC().Add(ttl).Truncate(time.Second)
	signed, err := SignClaims(secret, model.Claims{Subject: email, Role: role, ExpiresAt: exp})
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// SignClaims signs an arbitrary set of storefront claims. Tests use it
// to mint tokens with a chosen expiry, including ones already expired.
func SignClaims(secret string, c model.Claims) (string, error) {
	if secret == "" {
		return "", errors.New("empty signing secret")
	}
	claims := jwt.MapClaims{
		"sub":  c.Subject,
		"role": string(c.Role),
		"exp":  c.ExpiresAt.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	// Create a new token object specifying the signing method (HS256).
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseAccessToken validates an HS256 token signed with secret and
// returns its claims. Expired tokens and foreign algorithms are rejected
// by the parser.
func ParseAccessToken(secret, raw string) (model.Claims, error) {
	mc := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, mc, func(t *jwt.Token) (interface{}, error) {
		// Type assert the signing method to HMAC; reject others.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return model.Claims{}, err
	}
	sub, _ := mc.GetSubject()
	exp, _ := mc.GetExpirationTime()
	roleClaim, _ := mc["role"].(string)
	role, ok := model.ParseRole(roleClaim)
	if sub == "" || exp == nil || !ok {
		return model.Claims{}, errors.New("incomplete claims")
	}
	return model.Claims{Subject: sub, Role: role, ExpiresAt: exp.Time}, nil
}
