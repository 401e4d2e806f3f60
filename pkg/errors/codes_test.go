package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "COMMON_001", ErrCodeInternal.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeConflict, 409},
		{ErrCodeValidation, 400},
		{ErrCodeKeywordBlank, 400},
		{ErrCodeBatchTooLarge, 400},
		{ErrCodeJobNotFound, 404},
		{ErrCodeAnalysisNotFound, 404},
		{ErrCodeFeedParseFailed, 422},
		{ErrCodeSourceUnavailable, 502},
		{ErrCodeSourceRateLimited, 429},
		{ErrCodePublishFailed, 503},
		{ErrorCode("BOGUS_999"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code), "code %s", tt.code)
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "internal server error", DefaultMessageForCode(ErrCodeInternal))
	assert.Equal(t, "keyword must not be blank", DefaultMessageForCode(ErrCodeKeywordBlank))
	assert.Equal(t, "unexpected error", DefaultMessageForCode(ErrorCode("BOGUS_999")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeBatchEmpty))
	assert.True(t, IsClientError(ErrCodeSourceRateLimited))
	assert.False(t, IsClientError(ErrCodeInternal))
	assert.False(t, IsClientError(ErrCodeSourceUnavailable))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeScoringFailed))
	assert.True(t, IsServerError(ErrCodeSourceBadStatus))
	assert.False(t, IsServerError(ErrCodeBadRequest))
	assert.False(t, IsServerError(ErrCodeMarketplaceUnknown))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "KW", ModuleForCode(ErrCodeKeywordBlank))
	assert.Equal(t, "EXP", ModuleForCode(ErrCodeSeedBlank))
	assert.Equal(t, "BULK", ModuleForCode(ErrCodeBatchTooLarge))
	assert.Equal(t, "RPT", ModuleForCode(ErrCodeAnalysisNotFound))
	assert.Equal(t, "FEED", ModuleForCode(ErrCodeFeedNoTable))
	assert.Equal(t, "SRC", ModuleForCode(ErrCodeSourceUnavailable))
	assert.Equal(t, "MKT", ModuleForCode(ErrCodeMarketplaceUnknown))
	assert.Equal(t, "MQ", ModuleForCode(ErrCodePublishFailed))
	assert.Equal(t, "STO", ModuleForCode(ErrCodeObjectPutFailed))
	assert.Equal(t, "OK", ModuleForCode(CodeOK))
	assert.Equal(t, "UNKNOWN", ModuleForCode(CodeUnknown))
	assert.Equal(t, "", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeFormat_Convention(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range errorCodeHTTPStatus {
		assert.Regexp(t, re, string(code))
	}
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	// Every code with an HTTP status must also have a default message, and
	// vice versa, so handlers never fall back to the generic text for a code
	// the platform defines.
	for code := range errorCodeHTTPStatus {
		_, ok := errorCodeMessage[code]
		assert.True(t, ok, "missing message for %s", code)
	}
	for code := range errorCodeMessage {
		_, ok := errorCodeHTTPStatus[code]
		assert.True(t, ok, "missing status for %s", code)
	}
}
