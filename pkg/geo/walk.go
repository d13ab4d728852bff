package geo

// Walk reprojects the geometries of a FeatureCollection and returns the
// rewritten document. Bounding boxes of rewritten objects are recomputed. Documents of any other kind are returned unchanged,
// matching the traversal of legacy converters; see WalkAll.
//
// The input document is not modified.
func Walk(doc *Document, from, to string, project ProjectFunc) (*Document, error) {
	if doc.Type != TypeFeatureCollection {
		return doc, nil
	}
	return walk(doc, from, to, project)
}

// WalkAll is like Walk but also rewrites bare Feature, geometry and
// GeometryCollection documents.
func WalkAll(doc *Document, from, to string, project ProjectFunc) (*Document, error) {
	return walk(doc, from, to, project)
}

func walk(doc *Document, from, to string, project ProjectFunc) (*Document, error) {
	out := *doc

	switch doc.Type {
	case TypeFeatureCollection:
		features := make([]*Feature, len(doc.Features))
		for i, f := range doc.Features {
			nf, err := walkFeature(f, from, to, project)
			if err != nil {
				return nil, err
			}
			features[i] = nf
		}
		out.Features = features

		if len(doc.BBox) > 0 {
			var e extent
			for _, f := range features {
				if f != nil {
					e.addGeometry(f.Geometry)
				}
			}
			out.BBox = e.bbox(doc.BBox)
		}

	case TypeFeature:
		if doc.Geometry != nil {
			g, err := walkGeometry(doc.Geometry, from, to, project)
			if err != nil {
				return nil, err
			}
			out.Geometry = g

			if len(doc.BBox) > 0 {
				var e extent
				e.addGeometry(g)
				out.BBox = e.bbox(doc.BBox)
			}
		}

	default:
		g, err := walkGeometry(doc.AsGeometry(), from, to, project)
		if err != nil {
			return nil, err
		}
		out.Coordinates = g.Coordinates
		out.Geometries = g.Geometries
		out.BBox = g.BBox
	}

	return &out, nil
}

func walkFeature(f *Feature, from, to string, project ProjectFunc) (*Feature, error) {
	if f == nil {
		return nil, nil
	}

	out := *f
	// null geometry is valid for unlocated features
	if f.Geometry == nil {
		return &out, nil
	}

	g, err := walkGeometry(f.Geometry, from, to, project)
	if err != nil {
		return nil, err
	}
	out.Geometry = g

	if len(f.BBox) > 0 {
		var e extent
		e.addGeometry(g)
		out.BBox = e.bbox(f.BBox)
	}

	return &out, nil
}

func walkGeometry(g *Geometry, from, to string, project ProjectFunc) (*Geometry, error) {
	out := *g

	if g.IsCollection() {
		geometries := make([]*Geometry, len(g.Geometries))
		for i, member := range g.Geometries {
			if member == nil {
				continue
			}
			ng, err := walkGeometry(member, from, to, project)
			if err != nil {
				return nil, err
			}
			geometries[i] = ng
		}
		out.Geometries = geometries
		out.BBox = geometryBBox(&out)
		return &out, nil
	}

	if g.Coordinates == nil {
		return nil, &MissingCoordinatesError{Type: g.Type}
	}

	c, err := Transform(*g.Coordinates, from, to, project)
	if err != nil {
		return nil, err
	}
	out.Coordinates = &c
	out.BBox = geometryBBox(&out)

	return &out, nil
}
