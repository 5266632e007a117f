package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifequest-lab/backend/pkg/errorx"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func writeResponse[Response any](gctx *gin.Context, resp *Response, err error) {
	if err != nil {
		errx := errorx.Error{}
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		gctx.JSON(http.StatusOK, response{Code: int64(errx.Code), Error: errx.Message})
		return
	}

	gctx.JSON(http.StatusOK, response{Code: 0, Data: resp})
}
