package hostapp

import (
	"errors"
	"fmt"
)

var (
	ErrNoHost               = errors.New("hostapp: no host app installed")
	ErrInvalidInstallation  = errors.New("hostapp: invalid installation")
	ErrUnknownOperation     = errors.New("hostapp: unknown operation")
	ErrOperationNotProvider = errors.New("hostapp: operation has no provider address")
)

// CapabilityError reports an operation the discovered host cannot serve.
// RequiredVersion is the minimum version code for the host's flavor, or the
// free/pro minimum when no usable host was found.
type CapabilityError struct {
	Operation       Operation
	RequiredVersion int32
	Reason          string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("hostapp: %s requires version %d: %s", e.Operation, e.RequiredVersion, e.Reason)
}
