// Package token reads the claims of a storefront bearer token. It never
// verifies signatures: the client only mines claims for display and
// route gating, and the server stays the authority on every request.
// The package does no I/O.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/storefront/internal/model"
)

// ErrDecode is returned for a malformed token or a payload that lacks
// the sub/role/exp claims.
var ErrDecode = errors.New("token: cannot decode claims")

var parser = jwt.NewParser()

// Decode extracts the claims of a three-segment bearer token without
// checking its signature.
func Decode(raw string) (model.Claims, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return model.Claims{}, fmt.Errorf("%w: expected three segments", ErrDecode)
	}

	// Only the payload is read; the header may name any algorithm or none.
	payload, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: payload: %v", ErrDecode, err)
	}
	mc := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &mc); err != nil {
		return model.Claims{}, fmt.Errorf("%w: payload: %v", ErrDecode, err)
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return model.Claims{}, fmt.Errorf("%w: missing sub", ErrDecode)
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return model.Claims{}, fmt.Errorf("%w: missing exp", ErrDecode)
	}
	roleClaim, _ := mc["role"].(string)
	role, ok := model.ParseRole(roleClaim)
	if !ok {
		return model.Claims{}, fmt.Errorf("%w: unknown role %q", ErrDecode, roleClaim)
	}

	return model.Claims{
		Subject:   sub,
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}

// IsExpired reports whether the claims are no longer valid at now.
// Expiry is exclusive: a token whose exp equals now is expired.
func IsExpired(c model.Claims, now time.Time) bool {
	return !c.ExpiresAt.After(now)
}
