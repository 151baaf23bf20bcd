package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/gost-search/internal/pkg/errors"
)

// ErrorBody is the JSON shape of every error reply
type ErrorBody struct {
	Error string `json:"error"`
}

// Error 错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, ErrorBody{Error: message})
}

// BadRequest 400 错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// InternalError 500 错误
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// HandleError maps err to its HTTP status and writes prefix + details as the message
func HandleError(c *gin.Context, err error, prefix string) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	message := apperrors.GetDetails(err)
	if prefix != "" {
		message = prefix + ": " + message
	}
	Error(c, apperrors.HTTPStatus(err), message)
}

// Raw writes an upstream JSON body untouched
func Raw(c *gin.Context, status int, body []byte) {
	c.Data(status, "application/json; charset=utf-8", body)
}
