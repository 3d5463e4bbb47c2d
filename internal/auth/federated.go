package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// ErrVerificationFailed is returned when a federated identity assertion has
// a bad signature, wrong audience, or is expired.
var ErrVerificationFailed = errors.New("federated identity verification failed")

// FederatedIdentity is the verified subject of a third-party assertion.
type FederatedIdentity struct {
	Subject string
	Email   string
	Name    string
}

// Verifier checks a third-party-signed identity assertion.
type Verifier interface {
	Verify(ctx context.Context, assertion string) (*FederatedIdentity, error)
}

// GoogleVerifier validates Google-issued ID tokens against a configured
// OAuth client audience.
type GoogleVerifier struct {
	audience string
}

func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{audience: audience}
}

func (v *GoogleVerifier) Verify(ctx context.Context, assertion string) (*FederatedIdentity, error) {
	payload, err := idtoken.Validate(ctx, assertion, v.audience)
	if err != nil {
		return nil, ErrVerificationFailed
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrVerificationFailed
	}
	name, _ := payload.Claims["name"].(string)

	return &FederatedIdentity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}
