package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// extent is the bounding box of a set of positions.
type extent struct {
	xy         orb.Bound
	zMin, zMax float64
	hasXY      bool
	hasZ       bool
}

func (e *extent) add(p Position) {
	pt := orb.Point{p[0], p[1]}
	if !e.hasXY {
		e.xy = orb.Bound{Min: pt, Max: pt}
		e.hasXY = true
	} else {
		e.xy = e.xy.Extend(pt)
	}

	if len(p) < 3 {
		return
	}
	if !e.hasZ {
		e.zMin, e.zMax = p[2], p[2]
		e.hasZ = true
		return
	}
	e.zMin = math.Min(e.zMin, p[2])
	e.zMax = math.Max(e.zMax, p[2])
}

func (e *extent) addCoordinates(c *Coordinates) {
	if c == nil {
		return
	}
	for _, p := range c.Positions() {
		e.add(p)
	}
}

func (e *extent) addGeometry(g *Geometry) {
	if g == nil {
		return
	}
	e.addCoordinates(g.Coordinates)
	for _, member := range g.Geometries {
		e.addGeometry(member)
	}
}

// bbox rewrites a 2D or 3D bounding box to the extent. Boxes of other sizes,
// and boxes of objects without positions, are returned unchanged.
func (e *extent) bbox(old []float64) []float64 {
	if !e.hasXY {
		return old
	}

	switch len(old) {
	case 4:
		return []float64{e.xy.Min[0], e.xy.Min[1], e.xy.Max[0], e.xy.Max[1]}
	case 6:
		zMin, zMax := old[2], old[5]
		if e.hasZ {
			zMin, zMax = e.zMin, e.zMax
		}
		return []float64{e.xy.Min[0], e.xy.Min[1], zMin, e.xy.Max[0], e.xy.Max[1], zMax}
	default:
		return old
	}
}

func geometryBBox(g *Geometry) []float64 {
	if len(g.BBox) == 0 {
		return g.BBox
	}
	var e extent
	e.addGeometry(g)
	return e.bbox(g.BBox)
}
