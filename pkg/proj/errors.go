package proj

import (
	"errors"
	"fmt"
)

// ErrLatitudeRange is returned when a latitude cannot be projected,
// such as the poles under Mercator.
var ErrLatitudeRange = errors.New("proj: latitude out of range")

// UnknownProjectionError indicates an identifier missing from the registry.
type UnknownProjectionError struct {
	ID string
}

func (e *UnknownProjectionError) Error() string {
	return fmt.Sprintf("proj: unknown projection %q", e.ID)
}

// DefinitionError indicates a definition that cannot be parsed or is unsupported.
type DefinitionError struct {
	Definition string
	Reason     string
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("proj: invalid definition %q: %s", e.Definition, e.Reason)
}
