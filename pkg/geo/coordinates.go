package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Position is the smallest coordinate unit: [lon, lat] or [lon, lat, alt].
type Position []float64

// Coordinates is a node of a coordinate tree. A node is either a leaf
// holding a Position or a sequence of child trees one level shallower.
//
// Point trees are a single leaf, LineString and MultiPoint trees are one
// level deep, Polygon and MultiLineString two and MultiPolygon three.
type Coordinates struct {
	Position Position
	Children []Coordinates
}

var (
	// ErrShortPosition is returned when a numeric sequence has a single ordinate.
	ErrShortPosition = errors.New("position must have at least two ordinates")

	// ErrNotSequence is returned when a coordinate tree node is not an array.
	ErrNotSequence = errors.New("coordinates must be an array")
)

// Leaf builds a single position node.
func Leaf(ordinates ...float64) Coordinates {
	return Coordinates{Position: Position(ordinates)}
}

// Nest builds a non-leaf node from its children.
func Nest(children ...Coordinates) Coordinates {
	if children == nil {
		children = []Coordinates{}
	}
	return Coordinates{Children: children}
}

// IsPosition reports whether the node is a leaf.
func (c Coordinates) IsPosition() bool {
	return len(c.Position) >= 2
}

// Depth returns the nesting depth of the first branch of the tree.
// A leaf has depth 0; an empty sequence has depth 1.
func (c Coordinates) Depth() int {
	if c.IsPosition() {
		return 0
	}
	if len(c.Children) == 0 {
		return 1
	}
	return c.Children[0].Depth() + 1
}

// Positions returns every leaf of the tree in document order.
func (c Coordinates) Positions() []Position {
	if c.IsPosition() {
		return []Position{c.Position}
	}

	var out []Position
	for _, child := range c.Children {
		out = append(out, child.Positions()...)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	if c.IsPosition() {
		return json.Marshal([]float64(c.Position))
	}
	if c.Children == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Children)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNotSequence
	}

	var pos []float64
	if err := json.Unmarshal(data, &pos); err == nil {
		return c.setNumeric(pos)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrNotSequence, truncate(data))
	}

	children := make([]Coordinates, len(raw))
	for i := range raw {
		if err := children[i].UnmarshalJSON(raw[i]); err != nil {
			return err
		}
	}

	*c = Coordinates{Children: children}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Coordinates) MarshalYAML() (any, error) {
	if c.IsPosition() {
		return []float64(c.Position), nil
	}
	if c.Children == nil {
		return []Coordinates{}, nil
	}
	return c.Children, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Coordinates) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("%w: line %d", ErrNotSequence, value.Line)
	}

	numeric := 0
	for _, item := range value.Content {
		if item.Kind == yaml.ScalarNode && isYAMLNumber(item) {
			numeric++
		}
	}

	if numeric == len(value.Content) {
		pos := make([]float64, len(value.Content))
		for i, item := range value.Content {
			if err := item.Decode(&pos[i]); err != nil {
				return err
			}
		}
		return c.setNumeric(pos)
	}

	children := make([]Coordinates, len(value.Content))
	for i, item := range value.Content {
		if err := children[i].UnmarshalYAML(item); err != nil {
			return err
		}
	}

	*c = Coordinates{Children: children}
	return nil
}

func (c *Coordinates) setNumeric(pos []float64) error {
	switch len(pos) {
	case 0:
		*c = Coordinates{Children: []Coordinates{}}
	case 1:
		return ErrShortPosition
	default:
		*c = Coordinates{Position: pos}
	}
	return nil
}

func isYAMLNumber(n *yaml.Node) bool {
	tag := n.ShortTag()
	return tag == "!!int" || tag == "!!float"
}

func truncate(data []byte) string {
	const limit = 32
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
