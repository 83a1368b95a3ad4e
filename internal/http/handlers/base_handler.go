// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"freightquote/internal/modules/carrier"
	"freightquote/internal/modules/pricing"
	"freightquote/internal/modules/quote"
	"freightquote/internal/modules/tieup"
	"freightquote/internal/reqctx"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Success: false, Message: msg})
}

func writeInternal(c *gin.Context, err error) {
	reqctx.From(c.Request.Context()).Logf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeQuoteError(c *gin.Context, err error) {
	var verr *quote.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, quote.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, quote.ErrCustomerNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, quote.ErrServiceUnavailable):
		writeError(c, http.StatusServiceUnavailable, "quotation temporarily unavailable, please retry")
	default:
		writeInternal(c, err)
	}
}

func writeTieUpError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tieup.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, tieup.ErrNotFound), errors.Is(err, tieup.ErrUnknownCustomer):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, tieup.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writeCarrierError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, carrier.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, carrier.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeInternal(c, err)
	}
}
