// Package crs converts between obsolete GeoJSON CRS descriptors and
// EPSG projection identifiers.
package crs

import (
	"regexp"
	"strings"

	"github.com/woozymasta/geocrs/pkg/geo"
)

const (
	// WGS84 (EPSG:4326) is the geographic CRS implied by modern GeoJSON.
	WGS84 = "EPSG:4326"

	// WebMercator (EPSG:3857) is the default target of legacy output,
	// used for display by most web mapping tools.
	WebMercator = "EPSG:3857"
)

// urn:ogc:def:objectType:authority:version:code
// https://portal.ogc.org/files/?artifact_id=24045
// Registry versions are dotted ("6.3") or empty.
var urnRegex = regexp.MustCompile(`^urn:ogc:def:crs:EPSG:(\d+(?:\.\d+)*)?:(\d+)$`)

// Parse extracts a projection identifier such as "EPSG:3857" from a legacy
// CRS URN. The version segment is ignored. It reports false when the URN
// does not match.
func Parse(urn string) (string, bool) {
	m := urnRegex.FindStringSubmatch(urn)
	if m == nil {
		return "", false
	}
	return "EPSG:" + m[2], true
}

// FromDescriptor resolves a CRS descriptor to a projection identifier.
// Linked descriptors are not resolvable.
func FromDescriptor(c *geo.CRS) (string, bool) {
	if c == nil || c.Type != geo.CRSTypeName {
		return "", false
	}
	return Parse(c.Properties.Name)
}

// Format builds a named CRS descriptor for a projection identifier.
// The URN always carries an empty version segment.
func Format(projection string) *geo.CRS {
	code := projection
	if i := strings.LastIndex(projection, ":"); i >= 0 {
		code = projection[i+1:]
	}

	return &geo.CRS{
		Type: geo.CRSTypeName,
		Properties: geo.CRSProperties{
			Name: "urn:ogc:def:crs:EPSG::" + code,
		},
	}
}
