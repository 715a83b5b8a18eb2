package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errInternal = errors.New("something went wrong")

func SuccessResponse(data interface{}) gin.H {
	return gin.H{"success": true, "data": data}
}

func FailedResponse(err error) gin.H {
	return gin.H{"success": false, "error": err.Error()}
}

// Fail writes an error response, mapping AppError to its status and hiding
// everything else behind a generic 500. Stack traces never leak.
func Fail(c *gin.Context, err error) {
	if appErr, ok := AsAppError(err); ok {
		c.JSON(appErr.Status, gin.H{"success": false, "error": appErr.Message, "code": appErr.Code})
		return
	}
	c.JSON(http.StatusInternalServerError, FailedResponse(errInternal))
}
