package geometry

import (
	"fmt"

	"github.com/go-spatial/geom"
	geomwkt "github.com/go-spatial/geom/encoding/wkt"
	"github.com/paulsmith/gogeos/geos"
)

// closeRing returns the ring as geos coordinates, appending the first vertex if the ring is open
func closeRing(ring [][2]float64) []geos.Coord {
	coords := make([]geos.Coord, 0, len(ring)+1)
	for _, p := range ring {
		coords = append(coords, geos.NewCoord(p[0], p[1]))
	}
	if n := len(ring); n > 0 && ring[0] != ring[n-1] {
		coords = append(coords, coords[0])
	}
	return coords
}

// NewPolygon generates a planar geos polygon from a geom.Polygon (first ring is the shell, the others are holes).
// Open rings are closed.
func NewPolygon(p geom.Polygon) (*geos.Geometry, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("NewPolygon: empty polygon")
	}
	var holes [][]geos.Coord
	for _, ring := range p[1:] {
		holes = append(holes, closeRing(ring))
	}
	g, err := geos.NewPolygon(closeRing(p[0]), holes...)
	if err != nil {
		return nil, fmt.Errorf("NewPolygon: %w", err)
	}
	return g, nil
}

// NewPolygons generates a geos polygon for each geom.Polygon
func NewPolygons(ps []geom.Polygon) ([]*geos.Geometry, error) {
	polygons := make([]*geos.Geometry, len(ps))
	for i, p := range ps {
		var err error
		if polygons[i], err = NewPolygon(p); err != nil {
			return nil, fmt.Errorf("NewPolygons[%d].%w", i, err)
		}
	}
	return polygons, nil
}

// IntersectsAny returns true if g intersects at least one of the polygons (a shared boundary is an intersection).
// Polygons are tested in order and the test stops on the first intersection.
func IntersectsAny(g *geos.Geometry, polygons []*geos.Geometry) (bool, error) {
	for _, p := range polygons {
		intersects, err := g.Intersects(p)
		if err != nil {
			return false, fmt.Errorf("IntersectsAny: %w", err)
		}
		if intersects {
			return true, nil
		}
	}
	return false, nil
}

// ToWKT encodes the geometry in WKT (for logging purpose)
func ToWKT(g geom.Geometry) string {
	wkt, err := geomwkt.EncodeString(g)
	if err != nil {
		return fmt.Sprintf("invalid geometry: %v", err)
	}
	return wkt
}
