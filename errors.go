package glcaps

import (
	"errors"
	"fmt"
)

// ErrUnknownVersion is returned when a driver's version string cannot be
// mapped to any known generation.
var ErrUnknownVersion = errors.New("unrecognized driver version string")

// CapabilityError reports an unmet capability requirement: a version floor
// the context doesn't reach, or an extension that is unavailable or disabled.
type CapabilityError struct {
	Name   string
	Reason string
	Err    error
}

func (e *CapabilityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capability %s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("capability %s: %s", e.Name, e.Reason)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}
