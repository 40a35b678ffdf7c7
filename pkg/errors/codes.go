package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeExternalService    ErrorCode = "COMMON_013"

	ErrCodeOK      ErrorCode = "OK"
	ErrCodeUnknown ErrorCode = "UNKNOWN"
)

// Attorney module error codes.
const (
	ErrCodeAttorneyNotFound    ErrorCode = "ATT_001"
	ErrCodeAttorneyEmailExists ErrorCode = "ATT_002"
	ErrCodeAttorneyInvalid     ErrorCode = "ATT_003"
)

// Public-source module error codes.
const (
	ErrCodeSourceNotFound       ErrorCode = "SRC_001"
	ErrCodeSourceInvalid        ErrorCode = "SRC_002"
	ErrCodeEnrichmentStateError ErrorCode = "SRC_003"
)

// Risk-analysis module error codes.
const (
	ErrCodeAnalysisFailed ErrorCode = "RISK_001"
	ErrCodePromptTooLarge ErrorCode = "RISK_002"
)

// Search infrastructure error codes.
const (
	ErrCodeSearchUnavailable ErrorCode = "SEARCH_001"
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_002"
)

// Generative-model error codes.
const (
	ErrCodeModelUnavailable ErrorCode = "AI_001"
	ErrCodeModelCallFailed  ErrorCode = "AI_002"
	ErrCodeModelBadResponse ErrorCode = "AI_003"
)

// Object-storage error codes.
const (
	ErrCodeObjectNotFound ErrorCode = "STORE_001"
	ErrCodeUploadFailed   ErrorCode = "STORE_002"
	ErrCodePresignFailed  ErrorCode = "STORE_003"
)

// Spreadsheet ingestion error codes.
const (
	ErrCodeIngestParseFailed ErrorCode = "INGEST_001"
	ErrCodeIngestNoRows      ErrorCode = "INGEST_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,

	ErrCodeAttorneyNotFound:    http.StatusNotFound,
	ErrCodeAttorneyEmailExists: http.StatusConflict,
	ErrCodeAttorneyInvalid:     http.StatusBadRequest,

	ErrCodeSourceNotFound:       http.StatusNotFound,
	ErrCodeSourceInvalid:        http.StatusBadRequest,
	ErrCodeEnrichmentStateError: http.StatusConflict,

	ErrCodeAnalysisFailed: http.StatusInternalServerError,
	ErrCodePromptTooLarge: http.StatusInternalServerError,

	ErrCodeSearchUnavailable: http.StatusServiceUnavailable,
	ErrCodeSearchQueryFailed: http.StatusInternalServerError,

	ErrCodeModelUnavailable: http.StatusServiceUnavailable,
	ErrCodeModelCallFailed:  http.StatusInternalServerError,
	ErrCodeModelBadResponse: http.StatusInternalServerError,

	ErrCodeObjectNotFound: http.StatusNotFound,
	ErrCodeUploadFailed:   http.StatusInternalServerError,
	ErrCodePresignFailed:  http.StatusInternalServerError,

	ErrCodeIngestParseFailed: http.StatusBadRequest,
	ErrCodeIngestNoRows:      http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeExternalService:    "external service error",

	ErrCodeAttorneyNotFound:    "attorney not found",
	ErrCodeAttorneyEmailExists: "attorney email already exists",
	ErrCodeAttorneyInvalid:     "invalid attorney profile",

	ErrCodeSourceNotFound:       "public source not found",
	ErrCodeSourceInvalid:        "invalid public source",
	ErrCodeEnrichmentStateError: "invalid enrichment state transition",

	ErrCodeAnalysisFailed: "risk analysis failed",
	ErrCodePromptTooLarge: "analysis prompt exceeds context budget",

	ErrCodeSearchUnavailable: "search cluster unavailable",
	ErrCodeSearchQueryFailed: "search query failed",

	ErrCodeModelUnavailable: "generative model not available",
	ErrCodeModelCallFailed:  "generative model call failed",
	ErrCodeModelBadResponse: "generative model returned an unparseable response",

	ErrCodeObjectNotFound: "object not found",
	ErrCodeUploadFailed:   "object upload failed",
	ErrCodePresignFailed:  "failed to generate presigned link",

	ErrCodeIngestParseFailed: "failed to parse spreadsheet",
	ErrCodeIngestNoRows:      "spreadsheet contains no data rows",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
