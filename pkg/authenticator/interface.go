package authenticator

import (
	"context"
)

// Identity is the caller behind a verified credential.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// Verifier turns an opaque credential into a stable user identity.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

type TokenEngine[T any] interface {
	Generate(sub string, obj T) (string, error)
	Verify(token string) (T, error)
}
