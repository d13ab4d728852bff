// Package proj is a registry of named projection definitions over
// github.com/wroge/wgs84 and a Project function converting positions between them.
//
// Definitions use PROJ.4 syntax ("+proj=merc +a=6378137 ...") and cover
// geographic (longlat), Mercator (merc) and Transverse Mercator (tmerc, utm)
// projections. Datum shifts are not supported.
//
// The package level functions use a process-wide registry. Registering a
// definition is visible to every later caller; concurrent Define calls for
// the same identifier race and the last one wins.
package proj

import (
	"errors"
	"math"
	"sort"
	"sync"
)

// ErrShortPosition is returned for positions with fewer than two ordinates.
var ErrShortPosition = errors.New("proj: position must have at least two ordinates")

// Engine holds named projection definitions.
type Engine struct {
	defs map[string]*Definition
	mu   sync.RWMutex
}

// builtin definitions, as shipped by most PROJ.4 ports
var builtin = map[string]string{
	"EPSG:4326":  "+title=WGS 84 (long/lat) +proj=longlat +ellps=WGS84 +datum=WGS84 +units=degrees",
	"EPSG:4269":  "+title=NAD83 (long/lat) +proj=longlat +a=6378137.0 +b=6356752.31414036 +ellps=GRS80 +datum=NAD83 +units=degrees",
	"EPSG:3857":  "+title=WGS 84 / Pseudo-Mercator +proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs",
	"EPSG:3395":  "+title=WGS 84 / World Mercator +proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
	"EPSG:32633": "+title=WGS 84 / UTM zone 33N +proj=utm +zone=33 +datum=WGS84 +units=m +no_defs",
}

var aliases = map[string]string{
	"WGS84":       "EPSG:4326",
	"EPSG:3785":   "EPSG:3857",
	"GOOGLE":      "EPSG:3857",
	"EPSG:900913": "EPSG:3857",
	"EPSG:102113": "EPSG:3857",
}

// Default is the process-wide engine used by the package level functions.
var Default = New()

// New returns an engine preloaded with the built-in definitions.
func New() *Engine {
	e := &Engine{defs: make(map[string]*Definition, len(builtin)+len(aliases))}

	for id, def := range builtin {
		d, err := ParseDefinition(def)
		if err != nil {
			panic("proj: invalid builtin " + id + ": " + err.Error())
		}
		e.defs[id] = d
	}
	for alias, id := range aliases {
		e.defs[alias] = e.defs[id]
	}

	return e
}

// Clone returns an engine holding a copy of the registry.
// Definitions added to the clone are invisible to e.
func (e *Engine) Clone() *Engine {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c := &Engine{defs: make(map[string]*Definition, len(e.defs))}
	for id, d := range e.defs {
		c.defs[id] = d
	}
	return c
}

// Define registers a definition under id, replacing any previous one.
// def is either a PROJ.4 string or the identifier of a known definition.
func (e *Engine) Define(id, def string) error {
	if id == "" {
		return &DefinitionError{Definition: def, Reason: "empty identifier"}
	}

	d, err := e.resolve(def)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.defs[id] = d
	e.mu.Unlock()

	return nil
}

// Lookup returns the definition registered under id.
func (e *Engine) Lookup(id string) (*Definition, error) {
	e.mu.RLock()
	d, ok := e.defs[id]
	e.mu.RUnlock()

	if !ok {
		return nil, &UnknownProjectionError{ID: id}
	}
	return d, nil
}

// Identifiers returns every registered identifier, sorted.
func (e *Engine) Identifiers() []string {
	e.mu.RLock()
	ids := make([]string, 0, len(e.defs))
	for id := range e.defs {
		ids = append(ids, id)
	}
	e.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Project converts a position from one registered projection to another.
// Ordinates past the second are copied unchanged. The input is not modified.
func (e *Engine) Project(from, to string, position []float64) ([]float64, error) {
	if len(position) < 2 {
		return nil, ErrShortPosition
	}

	src, err := e.Lookup(from)
	if err != nil {
		return nil, err
	}
	dst, err := e.Lookup(to)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(position))
	copy(out, position)

	// no datum shifts, so degrees pass between geographic definitions
	if src == dst || (src.IsGeographic() && dst.IsGeographic()) {
		return out, nil
	}

	lon, lat := src.toLonLat(position[0], position[1])
	if dst.Proj == Merc && math.Abs(lat) >= 90 {
		return nil, ErrLatitudeRange
	}

	x, y := dst.fromLonLat(lon, lat)
	if !finite(x) || !finite(y) || !finite(lon) || !finite(lat) {
		return nil, ErrLatitudeRange
	}
	out[0], out[1] = x, y

	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (e *Engine) resolve(def string) (*Definition, error) {
	if isProjString(def) {
		return ParseDefinition(def)
	}

	d, err := e.Lookup(def)
	if err != nil {
		return nil, &DefinitionError{Definition: def, Reason: "neither a proj string nor a known identifier"}
	}
	return d, nil
}

// Define registers a definition on the Default engine.
func Define(id, def string) error {
	return Default.Define(id, def)
}

// Project converts a position using the Default engine.
func Project(from, to string, position []float64) ([]float64, error) {
	return Default.Project(from, to, position)
}
