// Package geo holds the GeoJSON document model and the coordinate traversal
// used to reproject it.
package geo

// GeoJSON object types.
const (
	TypeFeatureCollection  = "FeatureCollection"
	TypeFeature            = "Feature"
	TypePoint              = "Point"
	TypeMultiPoint         = "MultiPoint"
	TypeLineString         = "LineString"
	TypeMultiLineString    = "MultiLineString"
	TypePolygon            = "Polygon"
	TypeMultiPolygon       = "MultiPolygon"
	TypeGeometryCollection = "GeometryCollection"
)

// CRS descriptor kinds of the legacy (2008) GeoJSON format.
const (
	CRSTypeName = "name"
	CRSTypeLink = "link"
)

// Link types allowed for a linked CRS descriptor.
const (
	CRSLinkProj4   = "proj4"
	CRSLinkOGCWKT  = "ogcwkt"
	CRSLinkESRIWKT = "esriwkt"
)

// Document is a top-level GeoJSON value of any kind.
// Only the members relevant to its Type are populated.
type Document struct {
	CRS         *CRS           `json:"crs,omitempty" yaml:"crs,omitempty"`
	Coordinates *Coordinates   `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Geometry    *Geometry      `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Properties  map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
	ID          any            `json:"id,omitempty" yaml:"id,omitempty"`
	Type        string         `json:"type" yaml:"type"`
	BBox        []float64      `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Features    []*Feature     `json:"features,omitempty" yaml:"features,omitempty"`
	Geometries  []*Geometry    `json:"geometries,omitempty" yaml:"geometries,omitempty"`
	Members     Members        `json:"-" yaml:"-"`
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Geometry   *Geometry      `json:"geometry" yaml:"geometry"`
	Properties map[string]any `json:"properties" yaml:"properties"`
	ID         any            `json:"id,omitempty" yaml:"id,omitempty"`
	Type       string         `json:"type" yaml:"type"`
	BBox       []float64      `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Members    Members        `json:"-" yaml:"-"`
}

// Geometry is one of the six coordinate bearing kinds or a GeometryCollection.
type Geometry struct {
	Coordinates *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
	Type        string       `json:"type" yaml:"type"`
	BBox        []float64    `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Geometries  []*Geometry  `json:"geometries,omitempty" yaml:"geometries,omitempty"`
	Members     Members      `json:"-" yaml:"-"`
}

// CRS is the obsolete "crs" member.
// https://web.archive.org/web/20160827120507/http://geojson.org/geojson-spec.html
type CRS struct {
	Type       string        `json:"type" yaml:"type"`
	Properties CRSProperties `json:"properties" yaml:"properties"`
}

// CRSProperties carries Name for named descriptors, Href and Type for linked ones.
type CRSProperties struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Href string `json:"href,omitempty" yaml:"href,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// IsCollection reports whether the geometry is a GeometryCollection.
func (g *Geometry) IsCollection() bool {
	return g.Type == TypeGeometryCollection
}

// AsGeometry returns the document viewed as a bare geometry.
func (d *Document) AsGeometry() *Geometry {
	return &Geometry{
		Type:        d.Type,
		BBox:        d.BBox,
		Coordinates: d.Coordinates,
		Geometries:  d.Geometries,
	}
}

// WithoutCRS returns a shallow copy of the document with the CRS member removed.
func (d *Document) WithoutCRS() *Document {
	out := *d
	out.CRS = nil
	return &out
}

// WithCRS returns a shallow copy of the document carrying c as its CRS member.
// Any existing descriptor is replaced.
func (d *Document) WithCRS(c *CRS) *Document {
	out := *d
	out.CRS = c
	return &out
}
