package dto

import (
	"net/http"

	domaincatalog "github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeInvalidInput:  http.StatusBadRequest,
	shared.CodeAlreadyExists: http.StatusBadRequest,
	shared.CodeIntegrity:     http.StatusBadRequest,
	shared.CodeUpstream:      http.StatusBadRequest,
	shared.CodeInvalidState:  http.StatusBadRequest,

	shared.CodeInvalidURL:              http.StatusBadRequest,
	domaincatalog.CodeInvalidPriceList: http.StatusBadRequest,

	shared.CodeUnauthorized: http.StatusForbidden,
	shared.CodeForbidden:    http.StatusForbidden,

	shared.CodeNotFound: http.StatusNotFound,

	shared.CodeTooLarge:    http.StatusRequestEntityTooLarge,
	shared.CodeRateLimited: http.StatusTooManyRequests,
}

// singleErrorCodes are reported under the Error key. Everything else goes
// under Errors.
var singleErrorCodes = map[string]bool{
	shared.CodeUnauthorized:            true,
	shared.CodeForbidden:               true,
	shared.CodeUpstream:                true,
	shared.CodeInvalidURL:              true,
	shared.CodeTooLarge:                true,
	shared.CodeRateLimited:             true,
	domaincatalog.CodeInvalidPriceList: true,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Entity constructors raise their own codes (INVALID_QUANTITY and the like);
// those are rejected input too.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// UsesErrorKey reports whether failures with this code are reported
// under Error rather than Errors
func UsesErrorKey(code string) bool {
	return singleErrorCodes[code]
}

// FromDomainError renders a domain error as a response envelope
func FromDomainError(err *shared.DomainError) Response {
	if UsesErrorKey(err.Code) {
		return Fail(err.Message)
	}
	return FailErrors(err.Message)
}
