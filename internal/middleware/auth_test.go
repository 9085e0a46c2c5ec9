package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/questx-lab/focus/pkg/authenticator"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type mockVerifier struct{}

func (mockVerifier) Verify(ctx context.Context, credential string) (authenticator.Identity, error) {
	if credential != "good" {
		return authenticator.Identity{}, errors.New("bad credential")
	}

	return authenticator.Identity{ID: "user1", Email: "user1@example.com"}, nil
}

func TestAuthenticate(t *testing.T) {
	auth := Authenticate(mockVerifier{})

	tests := []struct {
		name   string
		header string
		userID string
		code   errorx.Code
	}{
		{name: "valid", header: "Bearer good", userID: "user1"},
		{name: "missing header", header: "", code: errorx.Unauthenticated},
		{name: "wrong scheme", header: "Basic good", code: errorx.Unauthenticated},
		{name: "empty token", header: "Bearer ", code: errorx.Unauthenticated},
		{name: "invalid token", header: "Bearer bad", code: errorx.Unauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/initUser", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			ctx, err := auth(xcontext.WithHTTPRequest(context.Background(), req))
			if tt.code != 0 {
				require.True(t, errorx.Is(err, tt.code))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.userID, xcontext.RequestUserID(ctx))
			require.Equal(t, "user1@example.com", xcontext.RequestIdentity(ctx).Email)
		})
	}
}

func TestAuthenticate_JWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[authenticator.Identity]("secret", time.Minute)

	token, err := engine.Generate("user2", authenticator.Identity{ID: "user2", Name: "Two"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/getUser", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	ctx, err := Authenticate(authenticator.NewJWTVerifier(engine))(xcontext.WithHTTPRequest(context.Background(), req))
	require.NoError(t, err)
	require.Equal(t, "user2", xcontext.RequestUserID(ctx))
	require.Equal(t, "Two", xcontext.RequestIdentity(ctx).Name)
}
