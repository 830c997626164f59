package forecast

import (
	"errors"
	"fmt"
)

var (
	ErrWindowInvalid  = errors.New("the averaging window must be at least 1 month")
	ErrHorizonInvalid = errors.New("the projection horizon must be at least 1 month")
	ErrRangeInvalid   = errors.New("the end of the range must be after its start")
)

// ValidationError reports a malformed field on a raw ledger record.
//
// It is returned by the normalizer instead of silently coercing bad input
// into a misleading zero or default.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
