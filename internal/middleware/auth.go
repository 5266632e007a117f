package middleware

import (
	"context"
	"strings"

	"github.com/lifequest-lab/backend/internal/model"
	"github.com/lifequest-lab/backend/pkg/authenticator"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/router"
	"github.com/lifequest-lab/backend/pkg/xcontext"
)

// NewAuthVerifier verifies the bearer token (or the access-token cookie) and
// records the authenticated user id in the context.
func NewAuthVerifier(tokenEngine authenticator.TokenEngine[model.AccessToken]) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		accessToken, err := tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	authorization := req.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authorization, "Bearer "); found {
		return token
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
