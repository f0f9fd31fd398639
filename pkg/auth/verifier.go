// Package auth verifies bearer identity tokens against an OpenID Connect issuer
// and carries the resulting claim through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// Verifier turns a raw identity token into a verified claim.
type Verifier interface {
	// Verify checks signature, issuer, audience, and expiry.
	// Failures wrap ErrInvalidCredential and carry a reason code (see CodeOf).
	Verify(ctx context.Context, raw string) (*Claim, error)
}

// VerifyError is returned for every rejected token.
type VerifyError struct {
	Code string
	Err  error
}

func (e *VerifyError) Error() string {
	return e.Err.Error()
}

func (e *VerifyError) Unwrap() []error {
	return []error{ErrInvalidCredential, e.Err}
}

// CodeOf returns the reason code for a verification failure, or "" if err
// did not come from a Verifier.
func CodeOf(err error) string {
	var ve *VerifyError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

type tokenClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type verifier struct {
	idv *oidc.IDTokenVerifier
}

// New builds a Verifier for cfg. When JWKSURL is set the signing keys are
// fetched from it directly; otherwise the issuer's discovery document is
// retrieved to locate them. ctx bounds discovery and background key refreshes.
func New(ctx context.Context, cfg *Config) (Verifier, error) {
	if cfg.JWKSURL != "" {
		return NewKeySetVerifier(cfg, oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)), nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer %s: %w", cfg.Issuer, err)
	}

	return &verifier{
		idv: provider.Verifier(&oidc.Config{ClientID: cfg.Audience}),
	}, nil
}

// NewKeySetVerifier builds a Verifier that checks signatures against keys.
func NewKeySetVerifier(cfg *Config, keys oidc.KeySet) Verifier {
	return &verifier{
		idv: oidc.NewVerifier(cfg.Issuer, keys, &oidc.Config{ClientID: cfg.Audience}),
	}
}

func (v *verifier) Verify(ctx context.Context, raw string) (*Claim, error) {
	token, err := v.idv.Verify(ctx, raw)
	if err != nil {
		return nil, &VerifyError{Code: classify(err), Err: err}
	}

	var tc tokenClaims
	if err := token.Claims(&tc); err != nil {
		return nil, &VerifyError{Code: CodeMalformedToken, Err: fmt.Errorf("decode claims: %w", err)}
	}

	uid := token.Subject
	if uid == "" {
		uid = tc.UserID
	}
	if uid == "" {
		return nil, &VerifyError{Code: CodeInvalidToken, Err: errors.New("token has no subject")}
	}

	claim := &Claim{
		UID:       uid,
		Email:     tc.Email,
		Name:      tc.Name,
		Picture:   tc.Picture,
		ExpiresAt: token.Expiry.Unix(),
	}
	if !token.IssuedAt.IsZero() {
		claim.IssuedAt = token.IssuedAt.Unix()
	}

	return claim, nil
}

func classify(err error) string {
	var expired *oidc.TokenExpiredError
	if errors.As(err, &expired) {
		return CodeTokenExpired
	}
	if strings.Contains(err.Error(), "malformed") {
		return CodeMalformedToken
	}
	return CodeInvalidToken
}
