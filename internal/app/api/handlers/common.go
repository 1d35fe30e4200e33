package handlers

import (
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/apperr"
	"github.com/Softvence-Omega-Cyber-Monk/cliniq-server-sub001/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondErr maps a service error onto the HTTP status and envelope code.
func respondErr(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	code := response.APIResponseCodeError
	if status < 500 {
		code = response.APIResponseCodeBadRequest
	}
	c.JSON(status, response.ErrorT[any](code, err.Error()))
}
