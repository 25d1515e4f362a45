package models

import (
	"errors"
	"fmt"
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

// NewNotOwnerError is returned when an owner-filtered delete matched zero
// rows, so the caller can distinguish "nothing to delete" from success.
func NewNotOwnerError(resource string) *AppError {
	return &AppError{
		Code:    "NOT_OWNER",
		Message: fmt.Sprintf("You can only delete your own %ss", resource),
	}
}

func NewUploadError(err error) *AppError {
	return &AppError{
		Code:    "UPLOAD_FAILED",
		Message: "Image upload failed",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Something went wrong",
		Err:     err,
	}
}

// UserMessage extracts a short, user-presentable message from an error.
// Upload failures include the underlying reason; everything else keeps
// the generic message so backend details never leak into notices.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Code == "UPLOAD_FAILED" && appErr.Err != nil {
			return fmt.Sprintf("%s: %v", appErr.Message, appErr.Err)
		}
		return appErr.Message
	}
	return "Something went wrong"
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
