package service

import (
	"fmt"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
)

// AOIPolygons returns the polygons of an area of interest, merging features, featureCollections and geometryCollections.
// Each ring of a Polygon is a polygon on its own (disjoint regions),
// whereas each polygon of a MultiPolygon keeps its holes.
func AOIPolygons(g geom.Geometry) ([]geom.Polygon, error) {
	var polygons []geom.Polygon
	switch g := g.(type) {
	case geom.Polygon:
		for _, ring := range g.LinearRings() {
			polygons = append(polygons, geom.Polygon{ring})
		}
	case geom.MultiPolygon:
		for _, p := range g.Polygons() {
			polygons = append(polygons, geom.Polygon(p))
		}
	case geom.Collection:
		for _, sub := range g.Geometries() {
			ps, err := AOIPolygons(sub)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, ps...)
		}
	case geojson.Feature:
		return AOIPolygons(g.Geometry.Geometry)
	case geojson.FeatureCollection:
		for _, f := range g.Features {
			ps, err := AOIPolygons(f.Geometry.Geometry)
			if err != nil {
				return nil, err
			}
			polygons = append(polygons, ps...)
		}
	case nil:
		return nil, fmt.Errorf("AOIPolygons: missing geometry")
	default:
		return nil, fmt.Errorf("AOIPolygons: unsupported geometry type %T", g)
	}
	return polygons, nil
}
