package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"

	"github.com/flarexio/ragblade"
)

func StatusCode(err error) int {
	switch {
	case errors.Is(err, ragblade.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ragblade.ErrEncoding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ragblade.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusExpectationFailed
	}
}

// QueryHandler answers a question grounded on the best matching passage.
func QueryHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return handler(endpoint)
}

// RetrieveHandler returns the ranked passages without generating an answer.
func RetrieveHandler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return handler(endpoint)
}

func handler(endpoint endpoint.Endpoint) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ragblade.QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			c.Error(err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		resp, err := endpoint(ctx, req)
		if err != nil {
			c.String(StatusCode(err), err.Error())
			c.Error(err)
			c.Abort()
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}
