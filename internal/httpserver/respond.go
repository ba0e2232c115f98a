package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aetherhq/control-plane/pkg/aethererr"
)

// Envelope is the success response shape: {"data": ...}.
type Envelope struct {
	Data any `json:"data"`
}

// Respond writes data wrapped in the standard {"data": ...} envelope.
func Respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(Envelope{Data: data}); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// ErrorCode is one of the fixed set spec §4.7/§7 define.
type ErrorCode string

const (
	ErrTokenNotFound       ErrorCode = "E_TOKEN_NOT_FOUND"
	ErrMissingAuthHeader   ErrorCode = "E_MISSING_AUTH_HEADER"
	ErrForbidden           ErrorCode = "E_FORBIDDEN"
	ErrBadRequest          ErrorCode = "E_BAD_REQUEST"
	ErrInternalServerError ErrorCode = "E_INTERNAL_SERVER_ERROR"
	ErrUnknown             ErrorCode = "E_UNKNOWN"
)

// statusForCode is the taxonomy → status-code mapping from spec §4.7.
var statusForCode = map[ErrorCode]int{
	ErrTokenNotFound:       http.StatusUnauthorized,
	ErrMissingAuthHeader:   http.StatusUnauthorized,
	ErrForbidden:           http.StatusForbidden,
	ErrBadRequest:          http.StatusBadRequest,
	ErrInternalServerError: http.StatusInternalServerError,
	ErrUnknown:             http.StatusBadRequest,
}

// ErrorBody is the JSON error envelope: {code, status, message}.
type ErrorBody struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
}

// RespondError writes a {code, status, message} error envelope, deriving the
// HTTP status from code.
func RespondError(w http.ResponseWriter, code ErrorCode, message string) {
	status, ok := statusForCode[code]
	if !ok {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Code: code, Status: status, Message: message})
}

// RespondDomainError translates a CoreError → ApiError at the HTTP edge,
// the single point of conversion spec §4.7/§7 mandate. Infrastructure
// errors are logged with full detail but surfaced with an opaque message.
func RespondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	domainErr, ok := aethererr.As(err)
	if !ok {
		logger.Error("unhandled error", "error", err)
		RespondError(w, ErrInternalServerError, "internal server error")
		return
	}

	switch domainErr.Kind {
	case aethererr.KindValidation, aethererr.KindNotFound, aethererr.KindConflict:
		RespondError(w, ErrBadRequest, domainErr.Message)
	case aethererr.KindAuthorization:
		RespondError(w, ErrForbidden, domainErr.Message)
	case aethererr.KindInfrastructure:
		logger.Error("infrastructure error", "error", domainErr.Err, "message", domainErr.Message)
		RespondError(w, ErrInternalServerError, "internal server error")
	default:
		RespondError(w, ErrUnknown, domainErr.Message)
	}
}
