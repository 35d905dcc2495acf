package apperrors

import (
	"net/http"
)

// =========================================================================
// Фабрики
// =========================================================================

// ErrNotFound - объект мутации не найден (404)
func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict - нарушение уникальности (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные ошибки
// =========================================================================

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrUnauthenticated - токен отсутствует, неверен или истек
var ErrUnauthenticated = New(
	CodeUnauthorized,
	"auth",
	"Authentication required",
	http.StatusUnauthorized,
)

var ErrInvalidVerificationCode = New(
	CodeInvalidCode,
	"auth",
	"Verification code is invalid or expired",
	http.StatusBadRequest,
)

var ErrMailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Mail already registered",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// --- Task submissions ---

var ErrSubmissionNotFound = New(
	CodeNotFound,
	"submission",
	"Task submission not found",
	http.StatusNotFound,
)

// ErrUnknownRelatedUser - один из related_user_mail не существует в users
var ErrUnknownRelatedUser = New(
	CodeUnknownRelatedUser,
	"submission",
	"Related user does not exist",
	http.StatusBadRequest,
)

var ErrUnknownFollowUpStatus = New(
	CodeUnknownStatus,
	"submission",
	"Follow-up status does not exist",
	http.StatusBadRequest,
)

// --- Options ---

var ErrUnknownOptionType = New(
	CodeValidationFailed,
	"options",
	"Unknown option type",
	http.StatusBadRequest,
)

var ErrOptionAlreadyExists = New(
	CodeConflict,
	"options",
	"Name already exists",
	http.StatusConflict,
)

// --- Meeting records ---

var ErrMeetingRecordNotFound = New(
	CodeNotFound,
	"meeting",
	"Meeting record not found",
	http.StatusNotFound,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)
