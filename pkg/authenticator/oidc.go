package authenticator

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
)

// oidcVerifier accepts ID tokens issued by an OpenID Connect provider, such as
// Google or Firebase Authentication. The token subject is the user id.
type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*oidcVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}

	return &oidcVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (v *oidcVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, credential)
	if err != nil {
		return Identity{}, err
	}

	var profile struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&profile); err != nil {
		return Identity{}, errors.New("invalid id token claims")
	}

	if idToken.Subject == "" {
		return Identity{}, errors.New("id token has no subject")
	}

	return Identity{
		ID:      idToken.Subject,
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
	}, nil
}
