package socialauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// UserInfo holds the identity carried by a verified token.
type UserInfo struct {
	Email   string
	Name    string
	Picture string
}

// tokenValidator checks signature, audience and expiry of an ID token.
type tokenValidator interface {
	Validate(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier validates Google ID tokens for one OAuth client id.
type GoogleVerifier struct {
	audience  string
	validator tokenValidator
}

// NewGoogleVerifier builds a verifier backed by Google's published certs.
// The certs are cached by the validator according to their Cache-Control.
func NewGoogleVerifier(ctx context.Context, audience string, opts ...option.ClientOption) (*GoogleVerifier, error) {
	if audience == "" {
		return nil, errors.New("google client id is required")
	}
	validator, err := idtoken.NewValidator(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google token validator: %w", err)
	}
	return &GoogleVerifier{audience: audience, validator: validator}, nil
}

// Verify checks signature, audience, issuer and expiry of a Google ID token
// and requires a verified email.
func (v *GoogleVerifier) Verify(ctx context.Context, tokenStr string) (*UserInfo, error) {
	payload, err := v.validator.Validate(ctx, tokenStr, v.audience)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !googleIssuers[payload.Issuer] {
		return nil, errors.New("invalid issuer in Google ID token")
	}

	email := stringClaim(payload.Claims, "email")
	if email == "" {
		return nil, errors.New("email claim not found in Google ID token")
	}
	if !emailVerified(payload.Claims) {
		return nil, errors.New("google account email is not verified")
	}

	return &UserInfo{
		Email:   strings.ToLower(email),
		Name:    stringClaim(payload.Claims, "name"),
		Picture: stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]interface{}, name string) string {
	s, _ := claims[name].(string)
	return s
}

// Older tokens carry email_verified as the string "true".
func emailVerified(claims map[string]interface{}) bool {
	switch v := claims["email_verified"].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}
