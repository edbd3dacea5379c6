package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/zingerfi/zingerfi-server/types"
)

// ApiErrorf aborts the request with a tagged error body
func ApiErrorf(c *gin.Context, code int, kind types.ErrorKind, format string, args ...interface{}) types.OutputError {
	ar := types.OutputError{
		Error: fmt.Sprintf(format, args...),
		Kind:  kind,
	}
	c.AbortWithStatusJSON(code, ar)
	return ar
}

// ApiErrorFrom maps err to its kind and status and responds with the public message only
func ApiErrorFrom(c *gin.Context, err error, message string) types.OutputError {
	kind, code := types.KindOf(err)
	return ApiErrorf(c, code, kind, "%s", message)
}

func ValidatorErrorToUser(err validator.ValidationErrors) string {
	var errorMessages []string
	for _, err := range err {
		switch err.Tag() {
		case "required":
			errorMessages = append(errorMessages, fmt.Sprintf("%s is required", err.Field()))
		case "email":
			errorMessages = append(errorMessages, fmt.Sprintf("%s is not a valid email", err.Field()))
		default:
			errorMessages = append(errorMessages, fmt.Sprintf("validation failed on field %s", err.Field()))
		}
	}
	return strings.Join(errorMessages, ". ")
}
