package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/focus/pkg/authenticator"
	"github.com/questx-lab/focus/pkg/errorx"
	"github.com/questx-lab/focus/pkg/router"
	"github.com/questx-lab/focus/pkg/xcontext"
)

const bearerPrefix = "Bearer "

// Authenticate verifies the bearer credential of the request and stores the
// caller identity in the context.
func Authenticate(verifier authenticator.Verifier) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		header := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			return nil, errorx.New(errorx.Unauthenticated, "Missing token")
		}

		credential := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if credential == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Missing token")
		}

		identity, err := verifier.Verify(ctx, credential)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify credential: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired token")
		}

		return xcontext.WithIdentity(ctx, xcontext.Identity{
			ID:      identity.ID,
			Email:   identity.Email,
			Name:    identity.Name,
			Picture: identity.Picture,
		}), nil
	}
}
