package middleware

import (
	"context"

	"github.com/lifequest-lab/backend/pkg/router"
	"github.com/lifequest-lab/backend/pkg/xcontext"
)

// Logger reports the outcome of every request after it is answered.
func Logger() router.CloserFunc {
	return func(ctx context.Context, err error) {
		req := xcontext.HTTPRequest(ctx)
		if err != nil {
			xcontext.Logger(ctx).Debugf("%s %s failed: %v", req.Method, req.URL.Path, err)
			return
		}

		xcontext.Logger(ctx).Debugf("%s %s ok", req.Method, req.URL.Path)
	}
}
