package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// AppError is the application error carried from services up to handlers.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is and As re-export the stdlib helpers so callers need one import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors.
var (
	// Authentication
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "You do not have permission to perform this action", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Users
	ErrUserNotFound      = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyInUse = New(CodeEmailAlreadyInUse, "Email already in use", http.StatusConflict)
	ErrWeakPassword      = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)

	// Projects, tasks, files
	ErrProjectNotFound    = New(CodeProjectNotFound, "Project not found", http.StatusNotFound)
	ErrTaskNotFound       = New(CodeTaskNotFound, "Task not found", http.StatusNotFound)
	ErrFileNotFound       = New(CodeFileNotFound, "File not found", http.StatusNotFound)
	ErrMemberNotFound     = New(CodeMemberNotFound, "Project member not found", http.StatusNotFound)
	ErrAssigneeNotMember  = New(CodeAssigneeNotMember, "Assignee must be a member of the project", http.StatusBadRequest)
	ErrCompletionNoteOnly = New(CodeCompletionNoteOnly, "A completion note can only be set on a completed task", http.StatusBadRequest)

	// Invitations
	ErrInvitationNotFound = New(CodeInvitationNotFound, "Invitation not found", http.StatusNotFound)
	ErrInvitationExpired  = New(CodeInvitationExpired, "Invitation has expired", http.StatusGone)
	ErrAlreadyInvited     = New(CodeAlreadyInvited, "An invitation for this email is already pending", http.StatusConflict)
	ErrAlreadyMember      = New(CodeAlreadyMember, "User is already a member of this project", http.StatusConflict)

	// Plan limits
	ErrProjectLimitReached = New(CodeProjectLimitReached, "Project limit for the current plan reached", http.StatusPaymentRequired)
	ErrMemberLimitReached  = New(CodeMemberLimitReached, "Team member limit for the current plan reached", http.StatusPaymentRequired)
	ErrStorageLimitReached = New(CodeStorageLimitReached, "Storage limit for the current plan reached", http.StatusPaymentRequired)

	// Billing
	ErrSubscriptionNotFound = New(CodeSubscriptionNotFound, "Subscription not found", http.StatusNotFound)
	ErrBillingGateway       = New(CodeBillingGateway, "Billing gateway request failed", http.StatusBadGateway)
	ErrWebhookSignature     = New(CodeWebhookSignature, "Webhook signature verification failed", http.StatusBadRequest)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
)

// Helpers for errors built at the call site.

func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeUserNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewConflictError(message string) *AppError {
	return New(CodeConflict, message, http.StatusConflict)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeUserNotFound, message, http.StatusNotFound)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}
