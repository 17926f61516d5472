// Package auth verifies the bearer tokens our users bring from the identity
// provider and exposes the caller's identity to the rest of the API.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. The frontend signs the user in with Supabase Auth (email, OAuth, ...).
//  2. Supabase hands the browser an access token (a JWT) signed with the
//     project's JWT secret using HS256.
//  3. The browser calls this API with "Authorization: Bearer <jwt>".
//  4. RequireAuth (middleware.go) verifies the token and puts the caller's
//     Identity in the request context.
//  5. Handlers use Identity.UserID as the scoping filter for every bookmark
//     call and forward Identity.Token to the data store.
//
// We never issue tokens for real users; the identity provider does. Issue
// exists so local development and tests can mint tokens with the same secret.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: algorithm + token type → {"alg":"HS256","typ":"JWT"}
//	- Payload: claims → {"sub":"<uuid>","email":"a@b.c","aud":"authenticated","exp":...}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/trendfinder/internal/apperror"
)

// DefaultAudience is the "aud" value Supabase puts on access tokens of
// signed-in users. Anonymous and service tokens carry other audiences and
// must not reach the bookmark endpoints.
const DefaultAudience = "authenticated"

// signingAlg is the only algorithm we accept.
const signingAlg = "HS256"

// Claims is the verified JWT payload.
//
// It embeds jwt.RegisteredClaims for the standard fields (sub, aud, exp, iat, ...)
// and adds the Supabase-specific ones we read.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Verifier decodes and validates bearer tokens against one shared secret.
//
// It is immutable after construction, so one Verifier is shared by every
// request goroutine without locking.
type Verifier struct {
	secret   []byte
	audience string
	parser   *jwt.Parser
}

// NewVerifier creates a Verifier for the given HMAC secret and required audience.
// An empty audience falls back to DefaultAudience.
func NewVerifier(secret, audience string) (*Verifier, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if audience == "" {
		audience = DefaultAudience
	}

	// VALIDATION OPTIONS (enforced by the jwt library on every Parse):
	//   - WithValidMethods: only HS256. Blocks "none" and RS/HS confusion.
	//   - WithAudience: aud must contain our audience.
	//   - WithExpirationRequired: a token without exp is rejected outright.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingAlg}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)

	return &Verifier{
		secret:   []byte(secret),
		audience: audience,
		parser:   parser,
	}, nil
}

// Verify parses and verifies a JWT string.
//
// On success the returned Claims always has a non-empty Subject and Email.
// Every failure (malformed, bad signature, wrong algorithm, expired, wrong
// audience, missing sub/email) is returned as an apperror wrapping
// apperror.ErrUnauthorized with a message of the form "Invalid token: <reason>".
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, apperror.Unauthorized("Invalid token: token is empty")
	}

	c := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenStr, c, func(token *jwt.Token) (any, error) {
		// WithValidMethods already checks the alg name; the type check makes
		// sure we never hand an HMAC secret to a non-HMAC verifier.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperror.Unauthorized("Invalid token: token is expired")
		}
		if errors.Is(err, jwt.ErrTokenInvalidAudience) {
			return nil, apperror.Unauthorized("Invalid token: invalid audience")
		}
		return nil, apperror.Unauthorized("Invalid token: " + err.Error())
	}
	if !token.Valid {
		return nil, apperror.Unauthorized("Invalid token: invalid token claims")
	}

	if c.Subject == "" {
		return nil, apperror.Unauthorized("Invalid token: token has no subject")
	}
	if c.Email == "" {
		return nil, apperror.Unauthorized("Invalid token: token has no email")
	}

	return c, nil
}

// Issue signs a token the same way the identity provider does.
// Used by cmd/devtoken for local development and by tests.
func (v *Verifier) Issue(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{v.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  v.audience,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}
