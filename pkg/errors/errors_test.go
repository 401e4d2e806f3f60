// Package errors_test provides unit tests for the AppError type, factory
// functions, and error-chain helpers defined in pkg/errors/errors.go.
package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// TestNew
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"internal error", errors.ErrCodeInternal, "unexpected failure"},
		{"keyword blank", errors.ErrCodeKeywordBlank, "keyword must not be blank"},
		{"batch too large", errors.ErrCodeBatchTooLarge, "batch of 7 exceeds cap of 5"},
		{"rate limit", errors.ErrCodeTooManyRequests, "too many requests"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)

			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail, "Detail should be empty for bare New()")
			assert.Nil(t, ae.Cause, "Cause should be nil for bare New()")
		})
	}
}

func TestNew_StackIsPopulated(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeInternal, "test")
	require.NotNil(t, ae)
	assert.Contains(t, ae.Stack, "errors_test.go",
		"stack should contain the creating test file")
}

func TestNewf_FormatsMessage(t *testing.T) {
	t.Parallel()

	ae := errors.Newf(errors.ErrCodeBatchTooLarge, "batch of %d exceeds cap of %d", 9, 5)
	require.NotNil(t, ae)
	assert.Equal(t, "batch of 9 exceeds cap of 5", ae.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWrap
// ─────────────────────────────────────────────────────────────────────────────

func TestWrap_NilErrReturnsNil(t *testing.T) {
	t.Parallel()

	result := errors.Wrap(nil, errors.ErrCodeInternal, "should not matter")
	assert.Nil(t, result)
}

func TestWrap_CauseChainIsPreserved(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	wrapped := errors.Wrap(root, errors.ErrCodeDatabaseError, "connection failed")

	require.NotNil(t, wrapped)
	assert.Equal(t, errors.ErrCodeDatabaseError, wrapped.Code)
	assert.Equal(t, "connection failed", wrapped.Message)
	assert.Equal(t, root, wrapped.Cause)
}

func TestWrap_UnwrapReturnsCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("original")
	ae := errors.Wrap(cause, errors.ErrCodeCacheError, "cache miss")

	unwrapped := stderrors.Unwrap(ae)
	assert.Equal(t, cause, unwrapped)
}

func TestWrap_PreservesOriginalCodeWhenCodeUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeAnalysisNotFound, "not found")
	outer := errors.Wrap(inner, errors.CodeUnknown, "adding context")

	require.NotNil(t, outer)
	assert.Equal(t, errors.ErrCodeAnalysisNotFound, outer.Code,
		"Wrap with CodeUnknown should inherit the inner AppError's code")
}

func TestWrap_OverridesCodeWhenExplicit(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeAnalysisNotFound, "not found")
	outer := errors.Wrap(inner, errors.ErrCodeInternal, "unexpected state")

	assert.Equal(t, errors.ErrCodeInternal, outer.Code,
		"explicit non-Unknown code must override the inner code")
}

func TestWrap_MultiLevel(t *testing.T) {
	t.Parallel()

	root := stderrors.New("dial tcp: connection refused")
	level1 := errors.Wrap(root, errors.ErrCodeDatabaseError, "postgres unreachable")
	level2 := errors.Wrap(level1, errors.ErrCodeInternal, "failed to load analysis")

	// Unwrap chain: level2 → level1 → root
	assert.Equal(t, level1, stderrors.Unwrap(level2))
	assert.Equal(t, root, stderrors.Unwrap(level1))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestError_Method
// ─────────────────────────────────────────────────────────────────────────────

func TestError_FormatWithoutDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeAnalysisNotFound, "analysis not found")
	s := ae.Error()

	assert.Equal(t, "[RPT_001] analysis not found", s)
	assert.False(t, strings.Contains(s, ":"),
		"Error() without detail should not contain a detail segment")
}

func TestError_FormatWithDetail(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeKeywordBlank, "keyword must not be blank").
		WithDetail("index=3")
	s := ae.Error()

	assert.Equal(t, "[KW_001] keyword must not be blank: index=3", s)
}

func TestError_ImplementsErrorInterface(t *testing.T) {
	t.Parallel()

	var err error = errors.New(errors.ErrCodeInternal, "boom")
	assert.NotEmpty(t, err.Error())
}

func TestError_EmptyMessageDoesNotPanic(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.CodeOK, "")
	assert.NotPanics(t, func() { _ = ae.Error() })
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWithDetail
// ─────────────────────────────────────────────────────────────────────────────

func TestWithDetail_SetsDetailOnCopy(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.ErrCodeNotFound, "resource missing")
	detailed := original.WithDetail("id=42")

	// Original must be unchanged (shallow copy semantics).
	assert.Empty(t, original.Detail, "WithDetail must not mutate the original")
	assert.Equal(t, "id=42", detailed.Detail)
	assert.Equal(t, original.Code, detailed.Code)
	assert.Equal(t, original.Message, detailed.Message)
}

func TestWithDetail_ChainedCalls(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeSourceBadStatus, "source failed").
		WithDetail("status=500").
		WithDetail("status=500, marketplace=in") // second call replaces first

	assert.Equal(t, "status=500, marketplace=in", ae.Detail)
}

func TestWithDetail_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	result := ae.WithDetail("x")
	assert.Nil(t, result)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestWithCause
// ─────────────────────────────────────────────────────────────────────────────

func TestWithCause_AttachesCause(t *testing.T) {
	t.Parallel()

	root := stderrors.New("driver: bad connection")
	ae := errors.New(errors.ErrCodeDatabaseError, "database error").WithCause(root)

	assert.Equal(t, root, ae.Cause)
	assert.Equal(t, root, stderrors.Unwrap(ae))
}

func TestWithCause_DoesNotMutateOriginal(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.ErrCodeInternal, "failure")
	cause := stderrors.New("cause")
	withCause := original.WithCause(cause)

	assert.Nil(t, original.Cause, "WithCause must not mutate the original")
	assert.Equal(t, cause, withCause.Cause)
}

func TestWithCause_NilReceiverReturnsNil(t *testing.T) {
	t.Parallel()

	var ae *errors.AppError
	result := ae.WithCause(stderrors.New("x"))
	assert.Nil(t, result)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestIsCode
// ─────────────────────────────────────────────────────────────────────────────

func TestIsCode_DirectMatch(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeJobNotFound, "not found")
	assert.True(t, errors.IsCode(ae, errors.ErrCodeJobNotFound))
}

func TestIsCode_NoMatch(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeJobNotFound, "not found")
	assert.False(t, errors.IsCode(ae, errors.ErrCodeInternal))
}

func TestIsCode_NestedChain(t *testing.T) {
	t.Parallel()

	root := errors.New(errors.ErrCodeDatabaseError, "db down")
	wrapped := errors.Wrap(root, errors.ErrCodeInternal, "service error")

	// The outer code is ErrCodeInternal but the chain contains ErrCodeDatabaseError.
	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeDatabaseError),
		"IsCode must find the code anywhere in the error chain")
	assert.True(t, errors.IsCode(wrapped, errors.ErrCodeInternal))
}

func TestIsCode_NilErrorReturnsFalse(t *testing.T) {
	t.Parallel()

	assert.False(t, errors.IsCode(nil, errors.ErrCodeInternal))
}

func TestIsCode_StdlibErrorReturnsFalse(t *testing.T) {
	t.Parallel()

	err := stderrors.New("plain error")
	assert.False(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestIsCode_ThreeLevelChain(t *testing.T) {
	t.Parallel()

	level0 := errors.New(errors.ErrCodeSeedBlank, "blank seed")
	level1 := errors.Wrap(level0, errors.ErrCodeValidation, "validation failed")
	level2 := errors.Wrap(level1, errors.ErrCodeInternal, "handler error")

	assert.True(t, errors.IsCode(level2, errors.ErrCodeSeedBlank))
	assert.True(t, errors.IsCode(level2, errors.ErrCodeValidation))
	assert.True(t, errors.IsCode(level2, errors.ErrCodeInternal))
	assert.False(t, errors.IsCode(level2, errors.ErrCodeForbidden))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestIsValidation
// ─────────────────────────────────────────────────────────────────────────────

func TestIsValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"generic validation", errors.Validation("bad input"), true},
		{"bad request", errors.InvalidParam("bad param"), true},
		{"keyword blank", errors.New(errors.ErrCodeKeywordBlank, "blank"), true},
		{"seed blank", errors.New(errors.ErrCodeSeedBlank, "blank"), true},
		{"limit invalid", errors.New(errors.ErrCodeLimitInvalid, "zero"), true},
		{"batch empty", errors.New(errors.ErrCodeBatchEmpty, "empty"), true},
		{"batch too large", errors.New(errors.ErrCodeBatchTooLarge, "too big"), true},
		{"batch element blank", errors.New(errors.ErrCodeBatchElementBlank, "blank entry"), true},
		{"wrapped validation", errors.Wrap(errors.Validation("inner"), errors.ErrCodeInternal, "outer"), true},
		{"internal", errors.Internal("boom"), false},
		{"plain error", stderrors.New("plain"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, errors.IsValidation(tc.err))
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// TestGetCode
// ─────────────────────────────────────────────────────────────────────────────

func TestGetCode_DirectAppError(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeAnalysisNotFound, "analysis missing")
	assert.Equal(t, errors.ErrCodeAnalysisNotFound, errors.GetCode(ae))
}

func TestGetCode_NestedAppError(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSourceUnavailable, "source down")
	outer := errors.Wrap(inner, errors.ErrCodeInternal, "expansion failed")

	// GetCode returns the outermost AppError's code.
	assert.Equal(t, errors.ErrCodeInternal, errors.GetCode(outer))
}

func TestGetCode_NilReturnsCodeOK(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
}

func TestGetCode_StdlibErrorReturnsCodeUnknown(t *testing.T) {
	t.Parallel()

	err := stderrors.New("some stdlib error")
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(err))
}

func TestGetCode_FmtWrappedStdlibReturnsCodeUnknown(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("context: %w", stderrors.New("cause"))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestConvenienceFactories
// ─────────────────────────────────────────────────────────────────────────────

func TestConvenienceFactories_ReturnCorrectCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      *errors.AppError
		wantCode errors.ErrorCode
	}{
		{"NotFound", errors.NotFound("not found"), errors.ErrCodeNotFound},
		{"InvalidParam", errors.InvalidParam("bad input"), errors.ErrCodeBadRequest},
		{"Validation", errors.Validation("precondition failed"), errors.ErrCodeValidation},
		{"Unauthorized", errors.Unauthorized("missing token"), errors.ErrCodeUnauthorized},
		{"Forbidden", errors.Forbidden("access denied"), errors.ErrCodeForbidden},
		{"Internal", errors.Internal("server error"), errors.ErrCodeInternal},
		{"Conflict", errors.Conflict("duplicate resource"), errors.ErrCodeConflict},
		{"RateLimit", errors.RateLimit("slow down"), errors.ErrCodeTooManyRequests},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.NotNil(t, tc.err)
			assert.Equal(t, tc.wantCode, tc.err.Code)
			assert.NotEmpty(t, tc.err.Message)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}

func TestConvenienceFactories_MessageIsPreserved(t *testing.T) {
	t.Parallel()

	msg := "analysis 9f1b4c not found"
	ae := errors.NotFound(msg)
	assert.Equal(t, msg, ae.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// TestStdlibCompatibility
// ─────────────────────────────────────────────────────────────────────────────

func TestStdlib_ErrorsIs_DirectComparison(t *testing.T) {
	t.Parallel()

	sentinel := errors.New(errors.ErrCodeForbidden, "forbidden")
	wrapped := fmt.Errorf("handler: %w", sentinel)

	// errors.Is traverses the chain and finds the *AppError pointer.
	assert.True(t, stderrors.Is(wrapped, sentinel))
}

func TestStdlib_ErrorsAs_ExtractsAppError(t *testing.T) {
	t.Parallel()

	original := errors.New(errors.ErrCodeSourceRateLimited, "throttled upstream")
	wrapped := fmt.Errorf("expansion: %w", original)

	var ae *errors.AppError
	require.True(t, stderrors.As(wrapped, &ae),
		"errors.As must be able to extract *AppError from a wrapped chain")
	assert.Equal(t, errors.ErrCodeSourceRateLimited, ae.Code)
	assert.Equal(t, "throttled upstream", ae.Message)
}

func TestStdlib_ErrorsAs_DeepChain(t *testing.T) {
	t.Parallel()

	root := errors.New(errors.ErrCodeObjectPutFailed, "minio unavailable")
	l1 := errors.Wrap(root, errors.ErrCodeInternal, "export failed")
	l2 := fmt.Errorf("report service: %w", l1)
	l3 := fmt.Errorf("http handler: %w", l2)

	var ae *errors.AppError
	require.True(t, stderrors.As(l3, &ae))
	// errors.As returns the first match in the chain, which is l1.
	assert.Equal(t, errors.ErrCodeInternal, ae.Code)
}

func TestStdlib_Unwrap_Chain(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("root cause")
	ae := errors.New(errors.ErrCodeCacheError, "cache failure").WithCause(cause)

	// Standard library traversal must reach the root cause.
	assert.True(t, stderrors.Is(ae, cause))
}

func TestStdlib_ErrorsIs_FalseForUnrelatedError(t *testing.T) {
	t.Parallel()

	a := errors.New(errors.ErrCodeInternal, "error A")
	b := errors.New(errors.ErrCodeInternal, "error B")

	// Two distinct *AppError pointers are not equal even if codes match.
	assert.False(t, stderrors.Is(a, b))
}

// ─────────────────────────────────────────────────────────────────────────────
// TestFluentChain — combined WithDetail + WithCause + factory
// ─────────────────────────────────────────────────────────────────────────────

func TestFluentChain_CombinedUsage(t *testing.T) {
	t.Parallel()

	root := stderrors.New("pgx: connection reset")
	ae := errors.New(errors.ErrCodeDatabaseError, "analysis history query failed").
		WithDetail("analysis_id=9f1b4c").
		WithCause(root)

	assert.Equal(t, errors.ErrCodeDatabaseError, ae.Code)
	assert.Equal(t, "analysis history query failed", ae.Message)
	assert.Contains(t, ae.Detail, "9f1b4c")
	assert.Equal(t, root, ae.Cause)

	// Error() must include the detail segment.
	s := ae.Error()
	assert.Contains(t, s, "COMMON_012")
	assert.Contains(t, s, "analysis history query failed")
	assert.Contains(t, s, "analysis_id=9f1b4c")

	// Standard library chain traversal must find the root.
	assert.True(t, stderrors.Is(ae, root))
}
