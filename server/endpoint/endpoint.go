// Package endpoint contains the REST handlers for the flowstack API.
package endpoint

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/kbukum/flowstack/errors"
	"github.com/kbukum/flowstack/server"
)

var validate = validator.New()

// bindJSON decodes the request body and runs struct validation. On failure it
// writes the error response and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		server.RespondWithError(c, apperrors.Validation(err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		server.RespondWithError(c, apperrors.Validation(err.Error()))
		return false
	}
	return true
}
