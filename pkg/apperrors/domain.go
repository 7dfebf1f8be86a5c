package apperrors

import (
	"net/http"
)

// Factories and predefined errors for the vendor-spend domain.

// ErrNotFound converts a repository not-found (e.g. gorm.ErrRecordNotFound)
// into a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a repository uniqueness failure into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation is the 400 factory for operations the current state
// does not permit.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Subscriptions & payments ---

// ErrInvalidCadence rejects a billing cadence outside the closed enum. The
// cadence set is validated at every write boundary rather than silently
// falling back to a monthly interval.
var ErrInvalidCadence = New(
	CodeValidationFailed,
	"subscription",
	"Billing cadence must be one of: monthly, quarterly, yearly",
	http.StatusBadRequest,
)

// ErrSubscriptionCancelled rejects writes against a cancelled subscription.
var ErrSubscriptionCancelled = New(
	CodeInvalidStatus,
	"subscription",
	"Subscription is cancelled",
	http.StatusBadRequest,
)

// ErrNegativeAmount rejects negative monetary values.
var ErrNegativeAmount = New(
	CodeValidationFailed,
	"payment",
	"Amount must not be negative",
	http.StatusBadRequest,
)

// --- Attachments ---

// ErrFileTooLarge - the uploaded file exceeds the per-file cap.
var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"attachment",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

// ErrInvalidFileType - MIME type outside the allow-list.
var ErrInvalidFileType = New(
	CodeValidationFailed,
	"attachment",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// ErrDuplicateAttachment - same name and byte size already present on the
// subscription (duplicate-submission guard).
var ErrDuplicateAttachment = New(
	CodeConflict,
	"attachment",
	"An attachment with the same name and size already exists",
	http.StatusConflict,
)

// --- Auth ---

// ErrInvalidCredentials - wrong email or password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - malformed or expired session/SSO token.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrInsufficientPermissions - a non-admin hit an admin operation.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)
