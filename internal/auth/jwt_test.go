package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/trendfinder/internal/apperror"
)

const testSecret = "test-secret-at-least-16-chars!!"

// newTestVerifier creates a Verifier with a fixed, known secret so tests are deterministic.
func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, "")
	require.NoError(t, err)
	return v
}

// sign builds a token by hand so tests can break exactly one property at a time.
func sign(t *testing.T, method jwt.SigningMethod, key any, c jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, c).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	now := time.Now()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9b2f6c1e-6a57-4d43-b3f4-3c3a5a3d1f10",
			Audience:  jwt.ClaimStrings{DefaultAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "ada@example.com",
		Role:  "authenticated",
	}
}

// =========================================================================
// CONSTRUCTION
// =========================================================================

func TestNewVerifier_ShortSecret(t *testing.T) {
	_, err := NewVerifier("short", "")
	assert.Error(t, err, "NewVerifier() should reject secrets shorter than 16 chars")
}

func TestNewVerifier_DefaultAudience(t *testing.T) {
	v := newTestVerifier(t)
	assert.Equal(t, DefaultAudience, v.audience)
}

// =========================================================================
// VERIFY: HAPPY PATH
// =========================================================================

func TestVerify_ValidToken(t *testing.T) {
	v := newTestVerifier(t)
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	c, err := v.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "9b2f6c1e-6a57-4d43-b3f4-3c3a5a3d1f10", c.Subject)
	assert.Equal(t, "ada@example.com", c.Email)
	assert.NotEmpty(t, c.Subject)
	assert.NotEmpty(t, c.Email)
}

func TestIssue_RoundTrip(t *testing.T) {
	v := newTestVerifier(t)

	token, err := v.Issue("user-abc-123", "bob@example.com", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."), "token doesn't look like a JWT")

	c, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-abc-123", c.Subject)
	assert.Equal(t, "bob@example.com", c.Email)
}

func TestVerify_AudienceListContainingOurs(t *testing.T) {
	v := newTestVerifier(t)
	c := validClaims()
	c.Audience = jwt.ClaimStrings{"other", DefaultAudience}

	_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
	assert.NoError(t, err)
}

// =========================================================================
// VERIFY: REJECTIONS
// =========================================================================

func TestVerify_Rejections(t *testing.T) {
	v := newTestVerifier(t)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExp := validClaims()
	noExp.ExpiresAt = nil

	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"anon"}

	noAud := validClaims()
	noAud.Audience = nil

	noSub := validClaims()
	noSub.Subject = ""

	noEmail := validClaims()
	noEmail.Email = ""

	good := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims())

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage", "not.a.jwt.token"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("wrong-secret-32-chars-long!!!!!!"), validClaims())},
		{"wrong algorithm HS512", sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims())},
		{"wrong algorithm HS384", sign(t, jwt.SigningMethodHS384, []byte(testSecret), validClaims())},
		{"alg none", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims())},
		{"tampered signature", good[:len(good)-3] + "xxx"},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired)},
		{"no expiry", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noExp)},
		{"wrong audience", sign(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAud)},
		{"missing audience", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noAud)},
		{"missing subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noSub)},
		{"missing email", sign(t, jwt.SigningMethodHS256, []byte(testSecret), noEmail)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := v.Verify(tt.token)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, apperror.ErrUnauthorized), "error = %v, want ErrUnauthorized", err)
			assert.True(t, strings.HasPrefix(err.Error(), "Invalid token: "), "message = %q", err.Error())
		})
	}
}

func TestVerify_ExpiredMessage(t *testing.T) {
	v := newTestVerifier(t)

	token, err := v.Issue("user-123", "a@b.c", -1*time.Second)
	require.NoError(t, err)

	_, err = v.Verify(token)
	require.Error(t, err)
	assert.Equal(t, "Invalid token: token is expired", err.Error())
}

func TestVerify_CustomAudience(t *testing.T) {
	v, err := NewVerifier(testSecret, "service")
	require.NoError(t, err)

	// A default-audience token must not pass a verifier configured for "service".
	_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
	assert.Error(t, err)

	token, err := v.Issue("svc", "svc@example.com", time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(token)
	assert.NoError(t, err)
}
