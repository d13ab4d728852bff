package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCoordinatesJSON_Depths(t *testing.T) {
	tests := []struct {
		input string
		depth int
		count int
	}{
		{`[30, 10]`, 0, 1},
		{`[30, 10, 5]`, 0, 1},
		{`[[30, 10], [10, 30], [40, 40]]`, 1, 3},
		{`[[[35, 10], [45, 45], [15, 40], [35, 10]]]`, 2, 4},
		{`[[[[30, 20], [45, 40], [10, 40], [30, 20]]], [[[15, 5], [40, 10], [15, 5]]]]`, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var c Coordinates
			require.NoError(t, json.Unmarshal([]byte(tt.input), &c))

			assert.Equal(t, tt.depth, c.Depth())
			assert.Len(t, c.Positions(), tt.count)

			out, err := json.Marshal(c)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestCoordinatesJSON_Empty(t *testing.T) {
	var c Coordinates
	require.NoError(t, json.Unmarshal([]byte(`[]`), &c))
	assert.False(t, c.IsPosition())
	assert.Empty(t, c.Children)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestCoordinatesJSON_Malformed(t *testing.T) {
	for _, input := range []string{
		`[5]`,
		`null`,
		`"text"`,
		`[[1, 2], 3]`,
		`[1, [2, 3]]`,
		`[[1, 2], [null]]`,
	} {
		t.Run(input, func(t *testing.T) {
			var c Coordinates
			assert.Error(t, json.Unmarshal([]byte(input), &c))
		})
	}
}

func TestCoordinatesJSON_ShortPosition(t *testing.T) {
	var c Coordinates
	err := json.Unmarshal([]byte(`[[1, 2], [3]]`), &c)
	assert.ErrorIs(t, err, ErrShortPosition)
}

func TestCoordinatesYAML(t *testing.T) {
	src := "type: Polygon\ncoordinates:\n  - - [0, 0]\n    - [1.5, 0]\n    - [0, 1]\n    - [0, 0]\n"

	var g Geometry
	require.NoError(t, yaml.Unmarshal([]byte(src), &g))
	require.NotNil(t, g.Coordinates)
	assert.Equal(t, 2, g.Coordinates.Depth())
	assert.Equal(t, Position{1.5, 0}, g.Coordinates.Positions()[1])

	out, err := yaml.Marshal(g)
	require.NoError(t, err)

	var back Geometry
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, g.Coordinates.Positions(), back.Coordinates.Positions())
}

func TestCoordinatesYAML_Malformed(t *testing.T) {
	for _, src := range []string{
		"coordinates: 5\n",
		"coordinates: [1]\n",
		"coordinates: [[1, 2], abc]\n",
	} {
		var g Geometry
		assert.Error(t, yaml.Unmarshal([]byte(src), &g), src)
	}
}

func TestDocumentJSON_GeometryCollectionHasNoCoordinates(t *testing.T) {
	doc := Document{
		Type: TypeGeometryCollection,
		Geometries: []*Geometry{
			{Type: TypePoint, Coordinates: &Coordinates{Position: Position{1, 2}}},
		},
	}

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[1,2]}]}`, string(out))
}

func TestDocumentJSON_CRS(t *testing.T) {
	src := `{"type":"FeatureCollection","crs":{"type":"link","properties":{"href":"http://example.com/crs/42","type":"proj4"}},"features":[]}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(src), &doc))
	require.NotNil(t, doc.CRS)
	assert.Equal(t, CRSTypeLink, doc.CRS.Type)
	assert.Equal(t, CRSLinkProj4, doc.CRS.Properties.Type)
	assert.Equal(t, "http://example.com/crs/42", doc.CRS.Properties.Href)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"Point","coordinates":[1,2],"crs":null}`), &doc))
	assert.Nil(t, doc.CRS)
}
