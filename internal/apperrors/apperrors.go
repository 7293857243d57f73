package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidRequest = errors.New("invalid request body")

	ErrInvalidBloodType      = errors.New("invalid blood type")
	ErrDonorStoreUnavailable = errors.New("donor store unavailable")

	ErrInsightUnavailable = errors.New("insight service unavailable")
	ErrInsightRateLimited = errors.New("insight service rate limited")

	ErrValidation = errors.New("validation failed")
)

type InvalidBloodTypeError struct{ Value string }

func (e *InvalidBloodTypeError) Error() string {
	return fmt.Sprintf("blood type '%s' is not recognized", e.Value)
}
func (e *InvalidBloodTypeError) Is(target error) bool { return target == ErrInvalidBloodType }
