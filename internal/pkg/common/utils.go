package common

import (
	"errors"

	"github.com/google/uuid"
)

// GenerateUUID returns a random UUID string.
func GenerateUUID() string {
	return uuid.New().String()
}

// NewErrorResponse builds the API error body for err.
func NewErrorResponse(err error, debug bool) ErrorResponse {
	resp := ErrorResponse{
		Code:    CodeOf(err),
		Message: err.Error(),
	}
	var ce *CustomError
	if debug && errors.As(err, &ce) && ce.Err != nil {
		resp.Details = ce.Err.Error()
	}
	return resp
}
