package handler

import (
	"strconv"

	"restaurant-pos/pkg/apperr"
	"restaurant-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

// fail writes the error envelope with the status mapped from the
// error's kind.
func fail(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), response.FromError(err))
}

// badRequest wraps a binding error into the validation kind.
func badRequest(c *gin.Context, err error) {
	fail(c, apperr.Wrap(apperr.ErrValidation, "invalid request payload: "+err.Error()))
}

// pathID parses the numeric :id path param.
func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apperr.Wrapf(apperr.ErrValidation, "invalid id '%s'", c.Param("id"))
	}
	return uint(id), nil
}
