package geocrs

import "errors"

// ErrDetection matches any *DetectionError with errors.Is.
var ErrDetection = errors.New("can't detect projection for GeoJSON")

// DetectionError is returned by Normalize when the CRS member cannot be
// resolved to a projection: linked descriptors, or names that are not
// EPSG URNs.
type DetectionError struct {
	Type string
	Name string
}

func (e *DetectionError) Error() string {
	return ErrDetection.Error()
}

// Is reports whether target is ErrDetection.
func (e *DetectionError) Is(target error) bool {
	return target == ErrDetection
}
