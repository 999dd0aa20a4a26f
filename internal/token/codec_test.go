package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront/internal/model"
	"github.com/iliyamo/storefront/internal/utils"
)

func mint(t *testing.T, c model.Claims) string {
	t.Helper()
	raw, err := utils.SignClaims("test-secret", c)
	require.NoError(t, err)
	return raw
}

// unsigned builds a token from a literal payload so malformed claims can be tested.
func unsigned(payload string) string {
	return withHeader(`{"alg":"HS256","typ":"JWT"}`, payload)
}

func withHeader(header, payload string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(payload)) + ".c2ln"
}

func TestDecodeValidToken(t *testing.T) {
	exp := time.Unix(1_900_000_000, 0)
	raw := mint(t, model.Claims{Subject: "ada@example.com", Role: model.RoleAdmin, ExpiresAt: exp})

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.True(t, claims.ExpiresAt.Equal(exp))
	assert.Equal(t, model.User{Email: "ada@example.com", Role: model.RoleAdmin}, claims.User())
}

func TestDecodeIgnoresSignature(t *testing.T) {
	raw := mint(t, model.Claims{Subject: "bob@example.com", Role: model.RoleCustomer, ExpiresAt: time.Unix(1_900_000_000, 0)})
	tampered := raw[:len(raw)-4] + "AAAA"

	claims, err := Decode(tampered)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, claims.Role)
}

func TestDecodeReadsPayloadWhateverTheHeader(t *testing.T) {
	payload := `{"sub":"ada@example.com","role":"ADMIN","exp":1900000000}`
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no alg", raw: withHeader(`{"typ":"JWT"}`, payload)},
		{name: "unregistered alg", raw: withHeader(`{"alg":"ES256K","typ":"JWT"}`, payload)},
		{name: "alg none", raw: withHeader(`{"alg":"none"}`, payload)},
		{name: "header not json", raw: withHeader(`garbage`, payload)},
		{name: "header not base64", raw: "%%%." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "ada@example.com", claims.Subject)
			assert.Equal(t, model.RoleAdmin, claims.Role)
			assert.True(t, claims.ExpiresAt.Equal(time.Unix(1_900_000_000, 0)))
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "two segments", raw: "abc.def"},
		{name: "four segments", raw: "a.b.c.d"},
		{name: "empty payload", raw: "eyJhbGciOiJIUzI1NiJ9..sig"},
		{name: "payload not base64", raw: "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
		{name: "payload not json", raw: unsigned("not json")},
		{name: "missing sub", raw: unsigned(`{"role":"ADMIN","exp":1900000000}`)},
		{name: "missing exp", raw: unsigned(`{"sub":"a@b.c","role":"ADMIN"}`)},
		{name: "string exp", raw: unsigned(`{"sub":"a@b.c","role":"ADMIN","exp":"soon"}`)},
		{name: "unknown role", raw: unsigned(`{"sub":"a@b.c","role":"ROOT","exp":1900000000}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestDecodeLowercaseRole(t *testing.T) {
	claims, err := Decode(unsigned(`{"sub":"a@b.c","role":"customer","exp":1900000000}`))
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, claims.Role)
}

func TestIsExpired(t *testing.T) {
	exp := time.Unix(1_800_000_000, 0)
	c := model.Claims{Subject: "a@b.c", Role: model.RoleCustomer, ExpiresAt: exp}

	assert.False(t, IsExpired(c, exp.Add(-time.Second)))
	assert.True(t, IsExpired(c, exp), "expiry is exclusive")
	assert.True(t, IsExpired(c, exp.Add(time.Millisecond)))
}
