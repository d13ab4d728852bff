package proj

import (
	"math"
	"strconv"
	"strings"

	"github.com/wroge/wgs84"
)

// Supported projection kinds.
const (
	LongLat = "longlat"
	Merc    = "merc"
	TMerc   = "tmerc"
	UTM     = "utm"
)

// WGS84 semi-major axis and inverse flattening.
const (
	wgs84A  = 6378137.0
	wgs84Rf = 298.257223563
)

type ellipsoid struct {
	a, b, rf float64
}

var ellipsoids = map[string]ellipsoid{
	"WGS84":  {a: wgs84A, rf: wgs84Rf},
	"GRS80":  {a: 6378137.0, rf: 298.257222101},
	"intl":   {a: 6378388.0, rf: 297.0},
	"bessel": {a: 6377397.155, rf: 299.1528128},
	"krass":  {a: 6378245.0, rf: 298.3},
	"clrk66": {a: 6378206.4, b: 6356583.8},
	"sphere": {a: 6370997.0, b: 6370997.0},
}

// datums without a shift to WGS84
var datums = map[string]string{
	"WGS84": "WGS84",
	"NAD83": "GRS80",
}

var units = map[string]float64{
	"m":     1,
	"km":    1000,
	"ft":    0.3048,
	"us-ft": 1200.0 / 3937.0,
}

var lonLat = wgs84.WGS84().LonLat()

type spheroid struct {
	a, fi float64
}

func (s spheroid) A() float64 {
	return s.a
}

func (s spheroid) Fi() float64 {
	return s.fi
}

// Definition is a parsed projection definition.
// Angles are in degrees, offsets in metres.
type Definition struct {
	Source  string
	Title   string
	Proj    string
	A       float64 // semi-major axis
	Rf      float64 // inverse flattening, 0 for a sphere
	Lon0    float64
	Lat0    float64
	LatTS   float64
	X0      float64
	Y0      float64
	K0      float64
	ToMeter float64

	crs wgs84.CoordinateReferenceSystem

	// applied around crs for spherical Mercator, which wgs84 only
	// offers as plain Web Mercator
	shift  float64
	scale  float64
	offX   float64
	offY   float64
	sphere bool
	wgs    bool
}

// IsGeographic reports whether positions are longitude/latitude degrees.
func (d *Definition) IsGeographic() bool {
	return d.Proj == LongLat
}

// IsSpherical reports whether the definition uses a sphere instead of an ellipsoid.
func (d *Definition) IsSpherical() bool {
	return d.sphere
}

// ParseDefinition parses a PROJ.4 style definition string.
func ParseDefinition(def string) (*Definition, error) {
	p := parser{def: def, params: tokenize(def)}
	d := &Definition{Source: def, Title: p.params["title"], scale: 1}

	switch kind := p.params["proj"]; kind {
	case "longlat", "latlong", "lonlat", "latlon":
		d.Proj = LongLat
	case Merc, TMerc, UTM:
		d.Proj = kind
	case "":
		return nil, p.fail("missing +proj")
	default:
		return nil, p.fail("unsupported projection " + kind)
	}

	if err := p.ellipsoid(d); err != nil {
		return nil, err
	}
	if err := p.towgs84(); err != nil {
		return nil, err
	}

	d.Lon0 = p.number("lon_0", 0)
	d.Lat0 = p.number("lat_0", 0)
	d.LatTS = p.number("lat_ts", 0)
	d.X0 = p.number("x_0", 0)
	d.Y0 = p.number("y_0", 0)
	d.K0 = p.number("k_0", p.number("k", 1))
	d.ToMeter = 1

	if d.Proj == UTM {
		zone := p.number("zone", 0)
		if zone < 1 || zone > 60 || zone != math.Trunc(zone) {
			return nil, p.fail("utm zone must be 1..60")
		}
		d.Lon0 = zone*6 - 183
		d.Lat0 = 0
		d.K0 = 0.9996
		d.X0 = 500000
		d.Y0 = 0
		if _, south := p.params["south"]; south {
			d.Y0 = 10000000
		}
	}

	if !d.IsGeographic() {
		if u, ok := p.params["units"]; ok {
			factor, known := units[u]
			if !known {
				return nil, p.fail("unsupported units " + u)
			}
			d.ToMeter = factor
		}
		d.ToMeter = p.number("to_meter", d.ToMeter)
	}

	if p.err != nil {
		return nil, p.err
	}
	if d.K0 <= 0 || d.ToMeter <= 0 {
		return nil, p.fail("scale factors must be positive")
	}
	if d.sphere && (d.Proj == TMerc || d.Proj == UTM) {
		return nil, p.fail("transverse mercator needs an ellipsoid")
	}
	if math.Abs(d.LatTS) >= 90 {
		return nil, p.fail("lat_ts must not be a pole")
	}

	if d.Proj == Merc {
		if _, ok := p.params["lat_ts"]; ok {
			d.K0 = d.latTSScale()
		}
	}

	d.build()

	return d, nil
}

// build maps the parsed parameters onto a wgs84 coordinate reference system.
func (d *Definition) build() {
	datum := wgs84.WGS84()
	if d.A != wgs84A || d.Rf != wgs84Rf {
		datum = wgs84.Datum{
			Spheroid: spheroid{a: d.A, fi: d.Rf},
			Area: wgs84.AreaFunc(func(lon, lat float64) bool {
				return true
			}),
		}
	}

	switch d.Proj {
	case LongLat:
		// spheres carry no datum, coordinates stay WGS84 degrees
		if d.sphere || (d.A == wgs84A && d.Rf == wgs84Rf) {
			d.crs = lonLat
			d.wgs = true
			return
		}
		d.crs = datum.LonLat()

	case Merc:
		if d.sphere {
			d.crs = wgs84.WGS84().WebMercator()
			d.shift = d.Lon0
			d.scale = d.K0 * d.A / wgs84A
			d.offX = d.X0
			d.offY = d.Y0
			return
		}
		d.crs = datum.Mercator(d.Lon0, d.K0, d.X0, d.Y0)

	case TMerc, UTM:
		d.crs = datum.TransverseMercator(d.Lon0, d.Lat0, d.K0, d.X0, d.Y0)
	}
}

// latTSScale is the Mercator scale factor of a true scale latitude.
func (d *Definition) latTSScale() float64 {
	phi := d.LatTS * math.Pi / 180
	if d.sphere {
		return math.Cos(phi)
	}
	f := 1 / d.Rf
	es := 2*f - f*f
	sin := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-es*sin*sin)
}

// toLonLat converts a position to WGS84 longitude and latitude.
func (d *Definition) toLonLat(x, y float64) (float64, float64) {
	if d.wgs {
		return x, y
	}

	x = (x*d.ToMeter - d.offX) / d.scale
	y = (y*d.ToMeter - d.offY) / d.scale

	lon, lat, _ := wgs84.Transform(d.crs, lonLat)(x, y, 0)
	return adjustLon(lon + d.shift), lat
}

// fromLonLat converts WGS84 longitude and latitude to a position.
func (d *Definition) fromLonLat(lon, lat float64) (float64, float64) {
	if d.wgs {
		return lon, lat
	}

	x, y, _ := wgs84.Transform(lonLat, d.crs)(adjustLon(lon-d.shift), lat, 0)

	x = (x*d.scale + d.offX) / d.ToMeter
	y = (y*d.scale + d.offY) / d.ToMeter
	return x, y
}

func adjustLon(lon float64) float64 {
	if lon > 180 || lon < -180 {
		lon = math.Mod(lon+540, 360) - 180
	}
	return lon
}

// tokenize splits "+key=value" pairs on whitespace. Words without a leading
// plus continue the previous value, as in "+title=WGS 84 (long/lat)".
func tokenize(def string) map[string]string {
	params := make(map[string]string)

	var last string
	for _, field := range strings.Fields(def) {
		if !strings.HasPrefix(field, "+") {
			if last != "" {
				params[last] += " " + field
			}
			continue
		}

		key, value, _ := strings.Cut(field[1:], "=")
		if key == "" {
			continue
		}
		params[key] = value
		last = key
	}

	return params
}

type parser struct {
	err    error
	params map[string]string
	def    string
}

func (p *parser) fail(reason string) error {
	return &DefinitionError{Definition: p.def, Reason: reason}
}

func (p *parser) number(key string, fallback float64) float64 {
	raw, ok := p.params[key]
	if !ok {
		return fallback
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if p.err == nil {
			p.err = p.fail("bad number for " + key + ": " + raw)
		}
		return fallback
	}
	return v
}

func (p *parser) ellipsoid(d *Definition) error {
	ell := ellipsoids["WGS84"]

	if name, ok := p.params["datum"]; ok {
		ellName, known := datums[name]
		if !known {
			return p.fail("unsupported datum " + name)
		}
		ell = ellipsoids[ellName]
	}
	if name, ok := p.params["ellps"]; ok {
		known, found := ellipsoids[name]
		if !found {
			return p.fail("unsupported ellipsoid " + name)
		}
		ell = known
	}

	if _, ok := p.params["R"]; ok {
		r := p.number("R", 0)
		ell = ellipsoid{a: r, b: r}
	} else {
		// an explicit axis discards the named ellipsoid
		if _, ok := p.params["a"]; ok {
			ell = ellipsoid{a: p.number("a", 0)}
		}
		if _, ok := p.params["rf"]; ok {
			ell.rf = p.number("rf", 0)
			ell.b = 0
		}
		if _, ok := p.params["b"]; ok {
			ell.b = p.number("b", 0)
			ell.rf = 0
		}
	}

	if p.err != nil {
		return p.err
	}
	if ell.a <= 0 {
		return p.fail("semi-major axis must be positive")
	}

	switch {
	case ell.rf != 0:
		d.Rf = ell.rf
	case ell.b == 0 || ell.b == ell.a:
		d.sphere = true
	case ell.b < 0 || ell.b > ell.a:
		return p.fail("semi-minor axis out of range")
	default:
		d.Rf = ell.a / (ell.a - ell.b)
	}
	d.A = ell.a

	return nil
}

func (p *parser) towgs84() error {
	raw, ok := p.params["towgs84"]
	if !ok {
		return nil
	}

	for _, s := range strings.Split(raw, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return p.fail("bad towgs84 value " + s)
		}
		if v != 0 {
			return p.fail("datum shifts are not supported")
		}
	}

	return nil
}

func isProjString(def string) bool {
	return strings.HasPrefix(strings.TrimSpace(def), "+")
}
