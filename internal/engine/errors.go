package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeDoctrineUnset indicates doctrine orders were given before a
	// doctrine was chosen.
	ErrCodeDoctrineUnset ErrorCode = "DOCTRINE_UNSET"

	// ErrCodeCampaignOver indicates the campaign already has an ending.
	ErrCodeCampaignOver ErrorCode = "CAMPAIGN_OVER"

	// ErrCodeInvalidOrder indicates a malformed order, an order for another
	// doctrine, or too many orders in one turn.
	ErrCodeInvalidOrder ErrorCode = "INVALID_ORDER"

	// ErrCodeApplyFailed indicates the ledger rejected the turn's changes.
	ErrCodeApplyFailed ErrorCode = "APPLY_FAILED"
)

// EngineError is a structural failure of the turn pipeline. Domain
// failures, such as a failed ritual, are never EngineErrors.
type EngineError struct {
	Code    ErrorCode
	Message string
	Turn    int

	// Order is the index of the offending order, or -1.
	Order int

	Err error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	msg := fmt.Sprintf("%s: %s (turn %d", e.Code, e.Message, e.Turn)
	if e.Order >= 0 {
		msg += fmt.Sprintf(", order %d", e.Order)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, turn, order int, err error, format string, args ...any) *EngineError {
	return &EngineError{Code: code, Message: fmt.Sprintf(format, args...), Turn: turn, Order: order, Err: err}
}

// HasCode reports whether err is an EngineError with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsCampaignOver reports whether err was caused by a finished campaign.
func IsCampaignOver(err error) bool {
	return HasCode(err, ErrCodeCampaignOver)
}

// IsInvalidOrder reports whether err was caused by a bad order.
func IsInvalidOrder(err error) bool {
	return HasCode(err, ErrCodeInvalidOrder)
}
