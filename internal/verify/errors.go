package verify

import (
	"errors"
	"fmt"
)

// Code categorizes rejections. Every failing invariant has exactly one
// code; a verifier reports the first failing check and reads no
// further state after it.
type Code string

// Shared codes (asset preamble and operation shape).
const (
	// CodeNoTicker indicates the first global fact is missing or is not
	// the ticker (or details) fact.
	CodeNoTicker Code = "NO_TICKER"

	// CodeNoName indicates the second global fact is missing or is not
	// the asset name.
	CodeNoName Code = "NO_NAME"

	// CodeNoPrecision indicates the third global fact is missing or is
	// not the precision.
	CodeNoPrecision Code = "NO_PRECISION"

	// CodeInvalidPrecision indicates the precision fact is malformed:
	// primary slot absent, or extra slots populated.
	CodeInvalidPrecision Code = "INVALID_PRECISION"

	// CodeUnexpectedGlobalIn indicates global input state on an
	// operation that must not have any (genesis, or a transfer for an
	// asset kind that forbids it).
	CodeUnexpectedGlobalIn Code = "UNEXPECTED_GLOBAL_IN"

	// CodeUnexpectedGlobalOut indicates declared global facts on a
	// non-genesis operation.
	CodeUnexpectedGlobalOut Code = "UNEXPECTED_GLOBAL_OUT"

	// CodeUnexpectedOwnedIn indicates consumed cells on a genesis
	// operation; genesis must be origin-only.
	CodeUnexpectedOwnedIn Code = "UNEXPECTED_OWNED_IN"

	// CodeUnknownEntry indicates the operation selected an entry point
	// the asset kind does not wire.
	CodeUnknownEntry Code = "UNKNOWN_ENTRY"
)

// Fungible-family codes (also used by the divisible verifier, which
// reuses the conservation machinery).
const (
	// CodePrecisionOverflow indicates the declared precision does not
	// fit the asset kind's precision bit width.
	CodePrecisionOverflow Code = "PRECISION_OVERFLOW"

	// CodeNoIssued indicates the circulating-supply fact is missing or
	// malformed at genesis.
	CodeNoIssued Code = "NO_ISSUED"

	// CodeSumIssueMismatch indicates genesis outputs do not sum to the
	// declared supply (or, per token, to the fractions cap).
	CodeSumIssueMismatch Code = "SUM_ISSUE_MISMATCH"

	// CodeUnexpectedGlobal indicates trailing global facts after the
	// facts a genesis is allowed to declare.
	CodeUnexpectedGlobal Code = "UNEXPECTED_GLOBAL"

	// CodeSumMismatch indicates a transfer's inputs and outputs do not
	// balance (in aggregate, or per token id).
	CodeSumMismatch Code = "SUM_MISMATCH"

	// CodeUnexpectedOwnedTypeIn / ...Out indicate a consumed/created
	// cell whose tag is not the expected owned-state tag.
	CodeUnexpectedOwnedTypeIn  Code = "UNEXPECTED_OWNED_TYPE_IN"
	CodeUnexpectedOwnedTypeOut Code = "UNEXPECTED_OWNED_TYPE_OUT"

	// CodeInvalidBalanceIn / ...Out indicate a malformed balance
	// payload: unexpected populated slots, a value outside the sum bit
	// width, or an accumulator overflow.
	CodeInvalidBalanceIn  Code = "INVALID_BALANCE_IN"
	CodeInvalidBalanceOut Code = "INVALID_BALANCE_OUT"
)

// Token-family codes (unique, divisible and collection verifiers).
const (
	// CodeFractionality indicates a fractions value other than exactly
	// 1 where non-fractionality is required.
	CodeFractionality Code = "FRACTIONALITY"

	// CodeNoTokenID indicates a token spec or allocation without a
	// token id.
	CodeNoTokenID Code = "NO_TOKEN_ID"

	// CodeInvalidTokenID indicates a malformed token payload or a
	// token-id mismatch between input and output.
	CodeInvalidTokenID Code = "INVALID_TOKEN_ID"

	// CodeTokenExcess indicates more declared token facts than the
	// asset kind permits, or a duplicated declaration.
	CodeTokenExcess Code = "TOKEN_EXCESS"

	// CodeNoInput / CodeTokenExcessIn bound the consumed-cell count.
	CodeNoInput       Code = "NO_INPUT"
	CodeTokenExcessIn Code = "TOKEN_EXCESS_IN"

	// CodeNoOutput / CodeTokenExcessOut bound the created-cell count.
	CodeNoOutput       Code = "NO_OUTPUT"
	CodeTokenExcessOut Code = "TOKEN_EXCESS_OUT"

	// CodeOrphanAllocation indicates an allocation referencing a token
	// id absent from the declared token set.
	CodeOrphanAllocation Code = "ORPHAN_ALLOCATION"
)

// errnos assigns each code its stable numeric form: family in the high
// 16 bits, index within the family in the low 16. The fungible and
// token families keep the original script numbering; shared codes are
// family 0 and later additions extend their family's index space.
var errnos = map[Code]uint32{
	CodeNoTicker:            0<<16 | 1,
	CodeNoName:              0<<16 | 2,
	CodeNoPrecision:         0<<16 | 3,
	CodeInvalidPrecision:    0<<16 | 4,
	CodeUnexpectedGlobalIn:  0<<16 | 5,
	CodeUnexpectedGlobalOut: 0<<16 | 6,
	CodeUnexpectedOwnedIn:   0<<16 | 7,
	CodeUnknownEntry:        0<<16 | 8,

	CodePrecisionOverflow:      1<<16 | 1,
	CodeNoIssued:               1<<16 | 2,
	CodeSumIssueMismatch:       1<<16 | 3,
	CodeUnexpectedGlobal:       1<<16 | 4,
	CodeSumMismatch:            1<<16 | 5,
	CodeUnexpectedOwnedTypeIn:  1<<16 | 6,
	CodeInvalidBalanceIn:       1<<16 | 7,
	CodeUnexpectedOwnedTypeOut: 1<<16 | 8,
	CodeInvalidBalanceOut:      1<<16 | 9,

	CodeFractionality:    2<<16 | 1,
	CodeNoTokenID:        2<<16 | 2,
	CodeInvalidTokenID:   2<<16 | 3,
	CodeTokenExcess:      2<<16 | 4,
	CodeNoInput:          2<<16 | 5,
	CodeTokenExcessIn:    2<<16 | 6,
	CodeNoOutput:         2<<16 | 7,
	CodeTokenExcessOut:   2<<16 | 8,
	CodeOrphanAllocation: 2<<16 | 9,
}

// Errno returns the code's stable numeric form, or 0 for a code this
// package does not define.
func (c Code) Errno() uint32 { return errnos[c] }

// Error is a rejection verdict. It is local and non-recoverable: the
// verifier never retries, and the caller decides whether to discard or
// hold the offending operation.
type Error struct {
	// Code identifies the failing invariant.
	Code Code

	// Detail is optional human-readable context. It never participates
	// in verdict equality; two rejections with the same Code are the
	// same verdict.
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Detail)
	}
	return string(e.Code)
}

// Errno returns the rejection's numeric error code.
func (e *Error) Errno() uint32 { return e.Code.Errno() }

// reject builds a rejection with formatted detail.
func reject(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Detail: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is (or wraps) a rejection with the given
// code.
func IsCode(err error, code Code) bool {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}

// CodeOf extracts the rejection code from err, or "" if err is not a
// verification rejection.
func CodeOf(err error) Code {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
