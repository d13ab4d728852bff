package geocrs

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geocrs/pkg/crs"
	"github.com/woozymasta/geocrs/pkg/geo"
	"github.com/woozymasta/geocrs/pkg/proj"
)

const pointCollection = `{
	"type": "FeatureCollection",
	"features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [30, 10]}}]
}`

func decode(t *testing.T, src string) *geo.Document {
	t.Helper()
	var doc geo.Document
	require.NoError(t, json.Unmarshal([]byte(src), &doc))
	return &doc
}

func withCRS(t *testing.T, src string, c *geo.CRS) *geo.Document {
	t.Helper()
	doc := decode(t, src)
	doc.CRS = c
	return doc
}

func named(urn string) *geo.CRS {
	return &geo.CRS{Type: geo.CRSTypeName, Properties: geo.CRSProperties{Name: urn}}
}

func TestNormalize_IdentityProjection(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := withCRS(t, pointCollection, named("urn:ogc:def:crs:EPSG::4326"))

	out, err := c.Normalize(doc)
	require.NoError(t, err)

	assert.Nil(t, out.CRS)
	assert.Equal(t, geo.TypeFeatureCollection, out.Type)
	assert.Equal(t, geo.Position{30, 10}, out.Features[0].Geometry.Coordinates.Position)

	// the caller's document keeps its member
	assert.NotNil(t, doc.CRS)
}

func TestNormalize_WebMercator(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := withCRS(t, `{
		"type": "FeatureCollection",
		"features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [3339584.723798207, 1118889.9748579597]}}]
	}`, named("urn:ogc:def:crs:EPSG:6.18:3857"))

	out, err := c.Normalize(doc)
	require.NoError(t, err)

	p := out.Features[0].Geometry.Coordinates.Position
	assert.InDelta(t, 30, p[0], 1e-8)
	assert.InDelta(t, 10, p[1], 1e-8)
}

func TestNormalize_Untagged(t *testing.T) {
	doc := decode(t, pointCollection)

	out, err := New(WithEngine(proj.New())).Normalize(doc)
	require.NoError(t, err)
	assert.Same(t, doc, out)
}

func TestNormalize_Idempotent(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := withCRS(t, pointCollection, named("urn:ogc:def:crs:EPSG::3857"))

	first, err := c.Normalize(doc)
	require.NoError(t, err)

	second, err := c.Normalize(first)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestNormalize_DetectionFailure(t *testing.T) {
	c := New(WithEngine(proj.New()))

	for name, descriptor := range map[string]*geo.CRS{
		"link": {Type: geo.CRSTypeLink, Properties: geo.CRSProperties{Href: "http://example.com/crs/42", Type: geo.CRSLinkProj4}},
		"ogc":  named("urn:ogc:def:crs:OGC:1.3:CRS84"),
		"junk": named("not-a-urn"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := c.Normalize(withCRS(t, pointCollection, descriptor))
			require.Error(t, err)

			var detection *DetectionError
			require.ErrorAs(t, err, &detection)
			assert.Equal(t, descriptor.Type, detection.Type)
			assert.ErrorIs(t, err, ErrDetection)
			assert.Equal(t, "can't detect projection for GeoJSON", err.Error())
		})
	}
}

func TestNormalize_UnknownProjectionPropagates(t *testing.T) {
	c := New(WithEngine(proj.New()))

	_, err := c.Normalize(withCRS(t, pointCollection, named("urn:ogc:def:crs:EPSG::27700")))

	var unknown *proj.UnknownProjectionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "EPSG:27700", unknown.ID)
}

func TestObsolete_DefaultProjection(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := decode(t, pointCollection)

	out, err := c.Obsolete(doc, "", "")
	require.NoError(t, err)

	require.NotNil(t, out.CRS)
	assert.Equal(t, geo.CRSTypeName, out.CRS.Type)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::3857", out.CRS.Properties.Name)

	p := out.Features[0].Geometry.Coordinates.Position
	assert.InDelta(t, 3339584.723798207, p[0], 1e-3)
	assert.InDelta(t, 1118889.9748579597, p[1], 1e-3)

	assert.Nil(t, doc.CRS)
	assert.Equal(t, geo.Position{30, 10}, doc.Features[0].Geometry.Coordinates.Position)
}

func TestObsolete_ReplacesExistingCRS(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := withCRS(t, pointCollection, named("urn:ogc:def:crs:EPSG::2056"))

	out, err := c.Obsolete(doc, "EPSG:4326", "")
	require.NoError(t, err)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::4326", out.CRS.Properties.Name)
	assert.Equal(t, geo.Position{30, 10}, out.Features[0].Geometry.Coordinates.Position)
}

func TestObsolete_CustomDefinition(t *testing.T) {
	engine := proj.New()
	c := New(WithEngine(engine))

	out, err := c.Obsolete(decode(t, pointCollection), "EPSG:990002", "+proj=merc +R=6378137 +units=km")
	require.NoError(t, err)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::990002", out.CRS.Properties.Name)
	assert.InDelta(t, 3339.584723798207, out.Features[0].Geometry.Coordinates.Position[0], 1e-6)

	// the definition stays registered for later calls
	_, err = engine.Lookup("EPSG:990002")
	assert.NoError(t, err)
}

func TestObsolete_DefinitionWithoutProjectionIgnored(t *testing.T) {
	engine := &recordingEngine{Engine: proj.New()}
	c := New(WithEngine(engine))

	out, err := c.Obsolete(decode(t, pointCollection), "", "+proj=longlat")
	require.NoError(t, err)
	assert.Empty(t, engine.defined)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::3857", out.CRS.Properties.Name)
}

func TestObsolete_DefinitionErrorPropagates(t *testing.T) {
	c := New(WithEngine(proj.New()))

	_, err := c.Obsolete(decode(t, pointCollection), "EPSG:990003", "+proj=unknown")
	var defErr *proj.DefinitionError
	assert.ErrorAs(t, err, &defErr)
}

func TestObsolete_EngineErrorUnwrapped(t *testing.T) {
	boom := errors.New("engine failure")
	c := New(WithEngine(failingEngine{err: boom}))

	_, err := c.Obsolete(decode(t, pointCollection), "", "")
	assert.Same(t, boom, err)
}

func TestRoundTrip(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := decode(t, `{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "properties": {"id": 1}, "geometry": {"type": "Polygon", "coordinates": [[[-10, -10], [10, -10], [10, 10], [-10, -10]]]}},
			{"type": "Feature", "properties": {"id": 2}, "geometry": {"type": "GeometryCollection", "geometries": [
				{"type": "Point", "coordinates": [100, 0, 15]},
				{"type": "MultiLineString", "coordinates": [[[170, 45], [179, 50]], [[-170, -45], [-179, -50]]]}
			]}}
		]
	}`)

	legacy, err := c.Obsolete(doc, "EPSG:3857", "")
	require.NoError(t, err)

	back, err := c.Normalize(legacy)
	require.NoError(t, err)
	assert.Nil(t, back.CRS)

	for i := range doc.Features {
		want := positions(doc.Features[i].Geometry)
		got := positions(back.Features[i].Geometry)
		require.Len(t, got, len(want))
		for j := range want {
			require.Len(t, got[j], len(want[j]))
			for k := range want[j] {
				assert.InDelta(t, want[j][k], got[j][k], 1e-7)
			}
		}
	}
}

func TestBareDocumentsKeepCoordinates(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := decode(t, `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[30,10]}]}`)

	out, err := c.Obsolete(doc, "", "")
	require.NoError(t, err)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::3857", out.CRS.Properties.Name)
	assert.Equal(t, geo.Position{30, 10}, out.Geometries[0].Coordinates.Position)

	back, err := c.Normalize(out)
	require.NoError(t, err)
	assert.Nil(t, back.CRS)
	assert.Equal(t, geo.Position{30, 10}, back.Geometries[0].Coordinates.Position)
}

func TestWithAllKinds(t *testing.T) {
	c := New(WithEngine(proj.New()), WithAllKinds())
	doc := decode(t, `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[30,10]}}`)

	out, err := c.Obsolete(doc, "", "")
	require.NoError(t, err)
	assert.InDelta(t, 3339584.723798207, out.Geometry.Coordinates.Position[0], 1e-3)
}

func TestPackageFunctionsUseDefaultEngine(t *testing.T) {
	doc := withCRS(t, pointCollection, named("urn:ogc:def:crs:EPSG::4326"))

	out, err := Normalize(doc)
	require.NoError(t, err)
	assert.Nil(t, out.CRS)

	legacy, err := Obsolete(out, crs.WebMercator, "")
	require.NoError(t, err)
	assert.Equal(t, "urn:ogc:def:crs:EPSG::3857", legacy.CRS.Properties.Name)
}

func positions(g *geo.Geometry) []geo.Position {
	if g.IsCollection() {
		var out []geo.Position
		for _, member := range g.Geometries {
			out = append(out, positions(member)...)
		}
		return out
	}
	return g.Coordinates.Positions()
}

type recordingEngine struct {
	*proj.Engine
	defined []string
}

func (e *recordingEngine) Define(id, def string) error {
	e.defined = append(e.defined, id)
	return e.Engine.Define(id, def)
}

type failingEngine struct {
	err error
}

func (e failingEngine) Project(_, _ string, _ []float64) ([]float64, error) { return nil, e.err }
func (e failingEngine) Define(_, _ string) error                         { return e.err }

func TestNormalize_KeepsForeignMembers(t *testing.T) {
	c := New(WithEngine(proj.New()))
	doc := decode(t, `{
		"type": "FeatureCollection",
		"name": "layer",
		"crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::4326"}},
		"features": [{"type": "Feature", "title": "x", "properties": {}, "geometry": {"type": "Point", "coordinates": [30, 10]}}]
	}`)

	out, err := c.Normalize(doc)
	require.NoError(t, err)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "FeatureCollection",
		"name": "layer",
		"features": [{"type": "Feature", "title": "x", "properties": {}, "geometry": {"type": "Point", "coordinates": [30, 10]}}]
	}`, string(data))

	legacy, err := c.Obsolete(out, "EPSG:4326", "")
	require.NoError(t, err)
	assert.Equal(t, geo.Members{"name": "layer"}, legacy.Members)
	assert.Equal(t, geo.Members{"title": "x"}, legacy.Features[0].Members)
}
