package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devgrill/devgrill/internal/utils"
)

// APIError is the uniform error body. Internal detail (the wrapped cause)
// never leaves the process; only the safe message does.
type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		_ = c.Error(err)
		c.JSON(status, APIError{Code: ae.Code, Message: ae.Message})
		return
	}

	_ = c.Error(err)
	c.JSON(status, APIError{Code: utils.CodeInternal, Message: http.StatusText(status)})
}

// requireUserID reads the subject set by the JWT middleware. Requests that
// get this far without one are a wiring bug, answered as unauthorized.
func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}
