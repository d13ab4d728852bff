package geo

import "fmt"

// MissingCoordinatesError indicates a coordinate bearing geometry without coordinates.
type MissingCoordinatesError struct {
	Type string
}

func (e *MissingCoordinatesError) Error() string {
	if e.Type == "" {
		return "geometry has no type and no coordinates"
	}
	return fmt.Sprintf("%s geometry has no coordinates", e.Type)
}
