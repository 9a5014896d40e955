package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"` // only populated in debug mode
}

// CustomError carries an error code and HTTP status along with the cause.
type CustomError struct {
	Code    string
	Message string
	Err     error
	Status  int
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is matches any CustomError with the same code, so a wrapped
// NewError(ErrCodeNotFound, ...) satisfies errors.Is(err, ErrNotFound).
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new CustomError.
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Wrap returns a copy of the sentinel carrying err as its cause.
func Wrap(sentinel *CustomError, err error) *CustomError {
	return NewError(sentinel.Code, sentinel.Message, sentinel.Status, err)
}

// Wrapf is Wrap with a formatted cause.
func Wrapf(sentinel *CustomError, format string, args ...any) *CustomError {
	return Wrap(sentinel, fmt.Errorf(format, args...))
}

// MeasurementMismatchError reports an ingredient whose usage unit class
// differs from its food item's reference unit class.
type MeasurementMismatchError struct {
	FoodItemID     string
	FoodItemName   string
	ReferenceClass string
	UsageClass     string
}

func (e *MeasurementMismatchError) Error() string {
	return fmt.Sprintf("invalid measurement conversion for %q: reference amount is %s, recipe amount is %s",
		e.FoodItemName, e.ReferenceClass, e.UsageClass)
}

// Is lets callers test with errors.Is(err, ErrMeasurementMismatch).
func (e *MeasurementMismatchError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == ErrCodeMeasurementMismatch
}

// StatusOf maps an error to the HTTP status a handler should answer with.
func StatusOf(err error) int {
	var mm *MeasurementMismatchError
	if errors.As(err, &mm) {
		return http.StatusUnprocessableEntity
	}
	var ce *CustomError
	if errors.As(err, &ce) && ce.Status != 0 {
		return ce.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the error code for err, or INTERNAL_ERROR.
func CodeOf(err error) string {
	var mm *MeasurementMismatchError
	if errors.As(err, &mm) {
		return ErrCodeMeasurementMismatch
	}
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternalError
}

const (
	// 4xx
	ErrCodeInvalidRequest      = "INVALID_REQUEST"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeTooManyRequests     = "TOO_MANY_REQUESTS"
	ErrCodeInvalidDate         = "INVALID_DATE"
	ErrCodeInvalidAmount       = "INVALID_AMOUNT"
	ErrCodeInvalidRecipe       = "INVALID_RECIPE"
	ErrCodeMeasurementMismatch = "MEASUREMENT_MISMATCH"
	ErrCodeFoodItemInUse       = "FOOD_ITEM_IN_USE"

	// 5xx
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeHistoryIO          = "HISTORY_IO_ERROR"
	ErrCodeCatalogIO          = "CATALOG_IO_ERROR"
	ErrCodeQueueFull          = "QUEUE_FULL"
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"
)

var (
	ErrInvalidRequest      = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound            = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrTooManyRequests     = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)
	ErrInvalidDate         = NewError(ErrCodeInvalidDate, "invalid date", http.StatusBadRequest, nil)
	ErrInvalidAmount       = NewError(ErrCodeInvalidAmount, "invalid amount", http.StatusUnprocessableEntity, nil)
	ErrInvalidRecipe       = NewError(ErrCodeInvalidRecipe, "invalid recipe", http.StatusBadRequest, nil)
	ErrMeasurementMismatch = NewError(ErrCodeMeasurementMismatch, "measurement mismatch", http.StatusUnprocessableEntity, nil)
	ErrFoodItemInUse       = NewError(ErrCodeFoodItemInUse, "cannot delete food item; it exists in a recipe", http.StatusBadRequest, nil)

	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service unavailable", http.StatusServiceUnavailable, nil)
	ErrHistoryIO          = NewError(ErrCodeHistoryIO, "menu history unavailable", http.StatusServiceUnavailable, nil)
	ErrCatalogIO          = NewError(ErrCodeCatalogIO, "recipe catalog unavailable", http.StatusServiceUnavailable, nil)
	ErrQueueFull          = NewError(ErrCodeQueueFull, "planning queue is full", http.StatusServiceUnavailable, nil)
	ErrRequestTimeout     = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusGatewayTimeout, nil)
)
