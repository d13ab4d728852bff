package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const namedLayer = `{
	"type": "FeatureCollection",
	"name": "layer",
	"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:OGC:1.3:CRS84"}},
	"features": [
		{"type": "Feature", "title": "x", "properties": {}, "geometry": {"type": "Point", "coordinates": [30, 10], "style": {"color": "red"}}}
	]
}`

func TestMembers_JSON(t *testing.T) {
	doc := decode(t, namedLayer)

	assert.Equal(t, Members{"name": "layer"}, doc.Members)
	assert.Equal(t, Members{"title": "x"}, doc.Features[0].Members)
	assert.Equal(t, Members{"style": map[string]any{"color": "red"}}, doc.Features[0].Geometry.Members)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "layer", raw["name"])
	feature := raw["features"].([]any)[0].(map[string]any)
	assert.Equal(t, "x", feature["title"])
	assert.Equal(t, map[string]any{"color": "red"}, feature["geometry"].(map[string]any)["style"])

	back := decode(t, string(data))
	assert.Equal(t, doc, back)
}

func TestMembers_YAML(t *testing.T) {
	src := `
type: FeatureCollection
name: layer
features:
  - type: Feature
    title: x
    properties: {}
    geometry:
      type: Point
      coordinates: [30, 10]
`
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	assert.Equal(t, Members{"name": "layer"}, doc.Members)
	assert.Equal(t, Members{"title": "x"}, doc.Features[0].Members)

	data, err := yaml.Marshal(&doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: layer")
	assert.Contains(t, string(data), "title: x")

	var back Document
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, doc.Members, back.Members)
	assert.Equal(t, doc.Features[0].Members, back.Features[0].Members)
}

func TestMembers_SurviveCopies(t *testing.T) {
	doc := decode(t, namedLayer)

	assert.Equal(t, Members{"name": "layer"}, doc.WithoutCRS().Members)

	calls := 0
	out, err := Walk(doc, "a", "b", shift(&calls))
	require.NoError(t, err)
	assert.Equal(t, Members{"name": "layer"}, out.Members)
	assert.Equal(t, Members{"title": "x"}, out.Features[0].Members)
	assert.Equal(t, Position{31, 12}, out.Features[0].Geometry.Coordinates.Position)
}

func TestMembers_AbsentStaysNil(t *testing.T) {
	doc := decode(t, `{"type":"Point","coordinates":[1,2]}`)
	assert.Nil(t, doc.Members)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Point","coordinates":[1,2]}`, string(data))
}
