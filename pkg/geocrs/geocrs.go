// Package geocrs converts GeoJSON between the obsolete CRS tagged format
// and the modern format where coordinates are implicitly WGS84.
//
// Normalize reads a legacy "crs" member, reprojects coordinates to WGS84
// and drops the member. Obsolete reprojects WGS84 coordinates into a
// target projection and attaches a "crs" member naming it.
//
// Only FeatureCollection bodies are reprojected by default. Bare features
// and geometries keep their coordinates, although their CRS member is still
// removed or attached; use WithAllKinds to reproject them too.
package geocrs

import (
	"github.com/woozymasta/geocrs/pkg/crs"
	"github.com/woozymasta/geocrs/pkg/geo"
	"github.com/woozymasta/geocrs/pkg/proj"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine performs the coordinate math. *proj.Engine implements it.
type Engine interface {
	Project(from, to string, position []float64) ([]float64, error)
	Define(id, definition string) error
}

// Converter runs Normalize and Obsolete against an Engine.
type Converter struct {
	engine   Engine
	logger   *zerolog.Logger
	allKinds bool
}

// Option configures a Converter.
type Option func(*Converter)

// WithEngine replaces the process-wide proj.Default engine.
func WithEngine(e Engine) Option {
	return func(c *Converter) { c.engine = e }
}

// WithLogger sets the logger used for debug output.
// The global zerolog logger is used otherwise.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) { c.logger = &l }
}

// WithAllKinds reprojects bare Feature, geometry and GeometryCollection
// documents in addition to FeatureCollections.
func WithAllKinds() Option {
	return func(c *Converter) { c.allKinds = true }
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{engine: proj.Default}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Normalize returns doc with coordinates in WGS84 and no CRS member.
// A document without a CRS member is returned as is. A CRS member that
// does not name an EPSG projection yields a *DetectionError.
func (c *Converter) Normalize(doc *geo.Document) (*geo.Document, error) {
	if doc.CRS == nil {
		return doc, nil
	}

	from, ok := crs.FromDescriptor(doc.CRS)
	if !ok {
		return nil, &DetectionError{Type: doc.CRS.Type, Name: doc.CRS.Properties.Name}
	}

	c.debug().
		Str("type", doc.Type).
		Str("from", from).
		Str("to", crs.WGS84).
		Msg("Normalizing GeoJSON")

	return c.walk(doc.WithoutCRS(), from, crs.WGS84)
}

// Obsolete returns doc reprojected from WGS84 to projection and tagged with
// a CRS member naming it. An empty projection means crs.WebMercator.
//
// When both projection and definition are set, definition is registered
// on the engine under projection before use. A definition alone is ignored.
// An existing CRS member on doc is replaced.
func (c *Converter) Obsolete(doc *geo.Document, projection, definition string) (*geo.Document, error) {
	target := projection
	if target == "" {
		target = crs.WebMercator
	}

	if projection != "" && definition != "" {
		c.debug().
			Str("projection", projection).
			Str("definition", definition).
			Msg("Registering projection definition")

		if err := c.engine.Define(projection, definition); err != nil {
			return nil, err
		}
	}

	c.debug().
		Str("type", doc.Type).
		Str("from", crs.WGS84).
		Str("to", target).
		Msg("Converting GeoJSON to obsolete format")

	out, err := c.walk(doc, crs.WGS84, target)
	if err != nil {
		return nil, err
	}

	return out.WithCRS(crs.Format(target)), nil
}

func (c *Converter) debug() *zerolog.Event {
	if c.logger != nil {
		return c.logger.Debug()
	}
	return log.Debug()
}

func (c *Converter) walk(doc *geo.Document, from, to string) (*geo.Document, error) {
	project := func(from, to string, p geo.Position) (geo.Position, error) {
		return c.engine.Project(from, to, p)
	}

	if c.allKinds {
		return geo.WalkAll(doc, from, to, project)
	}
	return geo.Walk(doc, from, to, project)
}

var std = New()

// Normalize converts doc using the default Converter.
func Normalize(doc *geo.Document) (*geo.Document, error) {
	return std.Normalize(doc)
}

// Obsolete converts doc using the default Converter.
func Obsolete(doc *geo.Document, projection, definition string) (*geo.Document, error) {
	return std.Obsolete(doc, projection, definition)
}
