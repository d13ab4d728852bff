package geo

// ProjectFunc reprojects a single position between two projection identifiers.
// It must return a position with the same ordinate count.
type ProjectFunc func(from, to string, p Position) (Position, error)

// Transform rewrites every leaf of the tree through project and returns a new tree.
// The shape of the tree (nesting and lengths at every level) is preserved.
// Errors from project are returned as is.
func Transform(c Coordinates, from, to string, project ProjectFunc) (Coordinates, error) {
	if c.IsPosition() {
		p, err := project(from, to, c.Position)
		if err != nil {
			return Coordinates{}, err
		}
		return Coordinates{Position: p}, nil
	}

	children := make([]Coordinates, len(c.Children))
	for i, child := range c.Children {
		out, err := Transform(child, from, to, project)
		if err != nil {
			return Coordinates{}, err
		}
		children[i] = out
	}

	return Coordinates{Children: children}, nil
}
