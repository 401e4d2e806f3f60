package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a typed string identifying a failure category.  Codes follow the
// pattern <MODULE>_<NNN> where MODULE names the originating subsystem and NNN
// is a zero-padded sequence number unique within that module.
type ErrorCode string

// String returns the raw code string.
func (c ErrorCode) String() string {
	return string(c)
}

// ─────────────────────────────────────────────────────────────────────────────
// Common platform codes (COMMON_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeInternal indicates an unexpected server-side failure.
	ErrCodeInternal ErrorCode = "COMMON_001"

	// ErrCodeBadRequest indicates a malformed or semantically invalid request.
	ErrCodeBadRequest ErrorCode = "COMMON_002"

	// ErrCodeUnauthorized indicates missing or invalid authentication.
	ErrCodeUnauthorized ErrorCode = "COMMON_003"

	// ErrCodeForbidden indicates the caller lacks permission for the operation.
	ErrCodeForbidden ErrorCode = "COMMON_004"

	// ErrCodeNotFound indicates the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "COMMON_005"

	// ErrCodeConflict indicates a state conflict (duplicate key, concurrent edit).
	ErrCodeConflict ErrorCode = "COMMON_006"

	// ErrCodeTooManyRequests indicates the caller exceeded a rate limit.
	ErrCodeTooManyRequests ErrorCode = "COMMON_007"

	// ErrCodeServiceUnavailable indicates a temporary inability to serve.
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"

	// ErrCodeTimeout indicates an operation exceeded its deadline.
	ErrCodeTimeout ErrorCode = "COMMON_009"

	// ErrCodeValidation indicates a request failed precondition validation.
	ErrCodeValidation ErrorCode = "COMMON_010"

	// ErrCodeSerialization indicates a marshal/unmarshal failure.
	ErrCodeSerialization ErrorCode = "COMMON_011"

	// ErrCodeDatabaseError indicates a relational-store operation failed.
	ErrCodeDatabaseError ErrorCode = "COMMON_012"

	// ErrCodeCacheError indicates a cache-layer operation failed.
	ErrCodeCacheError ErrorCode = "COMMON_013"

	// ErrCodeExternalService indicates an upstream dependency returned an error.
	ErrCodeExternalService ErrorCode = "COMMON_014"

	// ErrCodeFeatureDisabled indicates the requested capability is switched off
	// in the current deployment configuration.
	ErrCodeFeatureDisabled ErrorCode = "COMMON_015"

	// ErrCodeNotImplemented indicates the endpoint exists but has no behavior yet.
	ErrCodeNotImplemented ErrorCode = "COMMON_016"
)

// ─────────────────────────────────────────────────────────────────────────────
// Keyword scoring codes (KW_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeKeywordBlank indicates a keyword that is empty after trimming.
	ErrCodeKeywordBlank ErrorCode = "KW_001"

	// ErrCodeKeywordTooLong indicates a keyword exceeding the maximum length.
	ErrCodeKeywordTooLong ErrorCode = "KW_002"

	// ErrCodeScoringFailed indicates the scoring engine could not produce a record.
	ErrCodeScoringFailed ErrorCode = "KW_003"
)

// ─────────────────────────────────────────────────────────────────────────────
// Suggestion expansion codes (EXP_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeSeedBlank indicates an expansion seed that is empty after trimming.
	ErrCodeSeedBlank ErrorCode = "EXP_001"

	// ErrCodeLimitInvalid indicates a non-positive suggestion limit.
	ErrCodeLimitInvalid ErrorCode = "EXP_002"

	// ErrCodeExpansionFailed indicates candidate generation failed.
	ErrCodeExpansionFailed ErrorCode = "EXP_003"
)

// ─────────────────────────────────────────────────────────────────────────────
// Bulk orchestration codes (BULK_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeBatchEmpty indicates a bulk request with zero keywords.
	ErrCodeBatchEmpty ErrorCode = "BULK_001"

	// ErrCodeBatchTooLarge indicates a bulk request exceeding the batch cap.
	ErrCodeBatchTooLarge ErrorCode = "BULK_002"

	// ErrCodeBatchElementBlank indicates a bulk request containing a blank keyword.
	ErrCodeBatchElementBlank ErrorCode = "BULK_003"

	// ErrCodeJobNotFound indicates an async bulk job ID that does not exist.
	ErrCodeJobNotFound ErrorCode = "BULK_004"

	// ErrCodeJobPublishFailed indicates the async job could not be enqueued.
	ErrCodeJobPublishFailed ErrorCode = "BULK_005"
)

// ─────────────────────────────────────────────────────────────────────────────
// Competitor report codes (RPT_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeAnalysisNotFound indicates a stored analysis ID that does not exist.
	ErrCodeAnalysisNotFound ErrorCode = "RPT_001"

	// ErrCodeAggregationFailed indicates report summary computation failed.
	ErrCodeAggregationFailed ErrorCode = "RPT_002"

	// ErrCodeExportFailed indicates the report archive export failed.
	ErrCodeExportFailed ErrorCode = "RPT_003"
)

// ─────────────────────────────────────────────────────────────────────────────
// Raw feed ingestion codes (FEED_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeFeedNoTable indicates an HTML export with no recognizable result table.
	ErrCodeFeedNoTable ErrorCode = "FEED_001"

	// ErrCodeFeedParseFailed indicates the HTML export could not be parsed.
	ErrCodeFeedParseFailed ErrorCode = "FEED_002"
)

// ─────────────────────────────────────────────────────────────────────────────
// Suggestion source codes (SRC_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeSourceUnavailable indicates the autocomplete endpoint is unreachable.
	ErrCodeSourceUnavailable ErrorCode = "SRC_001"

	// ErrCodeSourceRateLimited indicates the autocomplete endpoint throttled us.
	ErrCodeSourceRateLimited ErrorCode = "SRC_002"

	// ErrCodeSourceBadStatus indicates a non-2xx autocomplete response.
	ErrCodeSourceBadStatus ErrorCode = "SRC_003"

	// ErrCodeSourceDecodeFailed indicates an unparseable autocomplete payload.
	ErrCodeSourceDecodeFailed ErrorCode = "SRC_004"
)

// ─────────────────────────────────────────────────────────────────────────────
// Marketplace codes (MKT_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeMarketplaceUnknown indicates an unsupported marketplace country code.
	ErrCodeMarketplaceUnknown ErrorCode = "MKT_001"
)

// ─────────────────────────────────────────────────────────────────────────────
// Messaging codes (MQ_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodePublishFailed indicates a message broker publish failure.
	ErrCodePublishFailed ErrorCode = "MQ_001"

	// ErrCodeConsumeFailed indicates a message broker fetch/commit failure.
	ErrCodeConsumeFailed ErrorCode = "MQ_002"
)

// ─────────────────────────────────────────────────────────────────────────────
// Object storage codes (STO_*)
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ErrCodeObjectPutFailed indicates an archive upload failure.
	ErrCodeObjectPutFailed ErrorCode = "STO_001"

	// ErrCodeObjectGetFailed indicates an archive download failure.
	ErrCodeObjectGetFailed ErrorCode = "STO_002"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel aliases
// ─────────────────────────────────────────────────────────────────────────────

const (
	// CodeOK is the zero-failure sentinel returned by GetCode for nil errors.
	CodeOK ErrorCode = "OK"

	// CodeUnknown marks errors that did not originate as an AppError, and acts
	// as the "preserve original code" sentinel accepted by Wrap.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// ─────────────────────────────────────────────────────────────────────────────
// HTTP status mapping
// ─────────────────────────────────────────────────────────────────────────────

// errorCodeHTTPStatus maps every error code to the HTTP status the API layer
// should respond with.  Codes absent from this map default to 500.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusBadRequest,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeKeywordBlank:   http.StatusBadRequest,
	ErrCodeKeywordTooLong: http.StatusBadRequest,
	ErrCodeScoringFailed:  http.StatusInternalServerError,

	ErrCodeSeedBlank:       http.StatusBadRequest,
	ErrCodeLimitInvalid:    http.StatusBadRequest,
	ErrCodeExpansionFailed: http.StatusInternalServerError,

	ErrCodeBatchEmpty:        http.StatusBadRequest,
	ErrCodeBatchTooLarge:     http.StatusBadRequest,
	ErrCodeBatchElementBlank: http.StatusBadRequest,
	ErrCodeJobNotFound:       http.StatusNotFound,
	ErrCodeJobPublishFailed:  http.StatusServiceUnavailable,

	ErrCodeAnalysisNotFound:  http.StatusNotFound,
	ErrCodeAggregationFailed: http.StatusInternalServerError,
	ErrCodeExportFailed:      http.StatusInternalServerError,

	ErrCodeFeedNoTable:     http.StatusBadRequest,
	ErrCodeFeedParseFailed: http.StatusUnprocessableEntity,

	ErrCodeSourceUnavailable:  http.StatusBadGateway,
	ErrCodeSourceRateLimited:  http.StatusTooManyRequests,
	ErrCodeSourceBadStatus:    http.StatusBadGateway,
	ErrCodeSourceDecodeFailed: http.StatusBadGateway,

	ErrCodeMarketplaceUnknown: http.StatusBadRequest,

	ErrCodePublishFailed: http.StatusServiceUnavailable,
	ErrCodeConsumeFailed: http.StatusServiceUnavailable,

	ErrCodeObjectPutFailed: http.StatusInternalServerError,
	ErrCodeObjectGetFailed: http.StatusInternalServerError,
}

// errorCodeMessage holds the default English message per code, used when a
// handler wants a canned response without constructing its own message.
var errorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "invalid request parameter",
	ErrCodeUnauthorized:       "authentication required",
	ErrCodeForbidden:          "permission denied",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "rate limit exceeded",
	ErrCodeServiceUnavailable: "service temporarily unavailable",
	ErrCodeTimeout:            "operation timed out",
	ErrCodeValidation:         "request validation failed",
	ErrCodeSerialization:      "serialization failure",
	ErrCodeDatabaseError:      "database operation failed",
	ErrCodeCacheError:         "cache operation failed",
	ErrCodeExternalService:    "upstream service error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeKeywordBlank:   "keyword must not be blank",
	ErrCodeKeywordTooLong: "keyword exceeds maximum length",
	ErrCodeScoringFailed:  "keyword scoring failed",

	ErrCodeSeedBlank:       "seed keyword must not be blank",
	ErrCodeLimitInvalid:    "suggestion limit must be positive",
	ErrCodeExpansionFailed: "suggestion expansion failed",

	ErrCodeBatchEmpty:        "keyword batch must not be empty",
	ErrCodeBatchTooLarge:     "keyword batch exceeds maximum size",
	ErrCodeBatchElementBlank: "keyword batch contains a blank entry",
	ErrCodeJobNotFound:       "bulk job not found",
	ErrCodeJobPublishFailed:  "bulk job could not be enqueued",

	ErrCodeAnalysisNotFound:  "analysis not found",
	ErrCodeAggregationFailed: "report aggregation failed",
	ErrCodeExportFailed:      "report export failed",

	ErrCodeFeedNoTable:     "no keyword table found in export",
	ErrCodeFeedParseFailed: "keyword export could not be parsed",

	ErrCodeSourceUnavailable:  "suggestion source unavailable",
	ErrCodeSourceRateLimited:  "suggestion source rate limited",
	ErrCodeSourceBadStatus:    "suggestion source returned an error",
	ErrCodeSourceDecodeFailed: "suggestion source response unreadable",

	ErrCodeMarketplaceUnknown: "unsupported marketplace",

	ErrCodePublishFailed: "message publish failed",
	ErrCodeConsumeFailed: "message consume failed",

	ErrCodeObjectPutFailed: "archive upload failed",
	ErrCodeObjectGetFailed: "archive download failed",
}

// HTTPStatusForCode returns the HTTP status the API layer should use for the
// given code.  Unknown codes map to 500 so that unclassified failures never
// masquerade as client errors.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the canned English message for the given code,
// or a generic fallback for unmapped codes.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := errorCodeMessage[code]; ok {
		return msg
	}
	return "unexpected error"
}

// IsClientError reports whether the code maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the code maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	return HTTPStatusForCode(code) >= 500
}

// ModuleForCode extracts the module prefix from a code, e.g. "BULK" from
// "BULK_002".  Codes without an underscore are returned unchanged; this keeps
// the function total over the sentinel codes OK and UNKNOWN.
func ModuleForCode(code ErrorCode) string {
	s := string(code)
	if i := strings.Index(s, "_"); i > 0 {
		return s[:i]
	}
	return s
}
