package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidCategory  ErrorCode = "INVALID_CATEGORY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidPeriod    ErrorCode = "INVALID_PERIOD"
	ErrCodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidPayment   ErrorCode = "INVALID_PAYMENT_MODE"

	ErrCodeEmployeeNotFound        ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeAttendanceNotFound      ErrorCode = "ATTENDANCE_NOT_FOUND"
	ErrCodeInvalidAttendanceStatus ErrorCode = "INVALID_ATTENDANCE_STATUS"
	ErrCodePayrollNotFound         ErrorCode = "PAYROLL_NOT_FOUND"
	ErrCodePurchaseNotFound        ErrorCode = "PURCHASE_NOT_FOUND"
	ErrCodeExpenseNotFound         ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeIncomeNotFound          ErrorCode = "INCOME_NOT_FOUND"

	ErrCodeCategoryNotFound  ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeDuplicateCategory ErrorCode = "DUPLICATE_CATEGORY"
	ErrCodeUnknownCategory   ErrorCode = "UNKNOWN_CATEGORY_KIND"

	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateUsername  ErrorCode = "DUPLICATE_USERNAME"
	ErrCodeLastAdmin          ErrorCode = "LAST_ADMIN"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeInvalidBackup ErrorCode = "INVALID_BACKUP"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeInternal:     http.StatusInternalServerError,
}

// AppError is the only error type handlers translate into a JSON body;
// anything else becomes a 500 without detail.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func newAppError(t ErrorType, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: statusByType[t]}
}

func (e *AppError) Error() string {
	if fields := e.FieldErrors(); len(fields) > 0 {
		return fields[0].Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError with the same type and code, so sentinels still
// compare equal after WithDetails copies.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return e.Type == other.Type && e.Code == other.Code
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// FieldErrors returns the per-field problems of a validation error.
func (e *AppError) FieldErrors() []ValidationError {
	if v, ok := e.Details.(ValidationErrors); ok {
		return v.Errors
	}
	return nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message)
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, ErrCodeValidationFailed, "Validation failed").
		WithDetails(ValidationErrors{Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}}})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message)
}

// NewInternalError keeps cause for logs; clients only see message.
func NewInternalError(message string, cause error) *AppError {
	e := newAppError(ErrorTypeInternal, ErrCodeInternal, message)
	e.Cause = cause
	return e
}

var (
	ErrEmployeeNotFound        = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrAttendanceNotFound      = NewNotFoundError("Attendance record not found", ErrCodeAttendanceNotFound)
	ErrInvalidAttendanceStatus = NewValidationError("status must be one of 1, 0.5 or 0", ErrCodeInvalidAttendanceStatus)
	ErrPayrollNotFound         = NewNotFoundError("Payroll entry not found", ErrCodePayrollNotFound)
	ErrPurchaseNotFound        = NewNotFoundError("Purchase not found", ErrCodePurchaseNotFound)
	ErrExpenseNotFound         = NewNotFoundError("Expense not found", ErrCodeExpenseNotFound)
	ErrIncomeNotFound          = NewNotFoundError("Income entry not found", ErrCodeIncomeNotFound)

	ErrCategoryNotFound  = NewNotFoundError("Category not found", ErrCodeCategoryNotFound)
	ErrDuplicateCategory = NewConflictError("Category already exists", ErrCodeDuplicateCategory)
	ErrUnknownCategory   = NewValidationError("unknown category kind", ErrCodeUnknownCategory)

	ErrUserNotFound       = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrDuplicateUsername  = NewConflictError("Username already exists", ErrCodeDuplicateUsername)
	ErrLastAdmin          = NewConflictError("At least one active admin must remain", ErrCodeLastAdmin)
	ErrUnauthorizedAccess = NewForbiddenError("Insufficient permissions", ErrCodeUnauthorizedAccess)
	ErrInvalidCredentials = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return status, Response{Error: e}
}

// MarshalJSON leaves out the cause so internal details never reach clients.
func (e *AppError) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(wire{Type: e.Type, Code: e.Code, Message: e.Message, Details: e.Details})
}
