package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/lifequest-lab/backend/pkg/errorx"
	"github.com/lifequest-lab/backend/pkg/xcontext"
)

var validate = validator.New()

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		ctx := xcontext.WithHTTPRequest(router.baseCtx, gctx.Request)

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gctx.ShouldBindQuery(&req)
		case http.MethodPost:
			err = gctx.ShouldBindJSON(&req)
			if errors.Is(err, io.EOF) {
				// An empty body is a valid empty request.
				err = nil
			}
		}

		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			writeResponse[Response](gctx, nil, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			return
		}

		if err := validate.Struct(&req); err != nil {
			xcontext.Logger(ctx).Debugf("Invalid request: %v", err)
			writeResponse[Response](gctx, nil, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := func() (*Response, error) {
			for _, middleware := range router.befores {
				var err error
				if ctx, err = middleware(ctx); err != nil {
					return nil, err
				}
			}

			return handler(ctx, &req)
		}()

		writeResponse(gctx, resp, err)
		for _, closer := range router.closers {
			closer(ctx, err)
		}
	}
}
