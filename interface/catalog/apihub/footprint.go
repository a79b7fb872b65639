package apihub

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-spatial/geom"
)

// ParseFootprint reads the ring of a GML fragment such as:
// <gml:Polygon><gml:outerBoundaryIs><gml:LinearRing><gml:coordinates>lat,lon lat,lon...</gml:coordinates>...
// Apihub writes the vertices as "lat,lon": they are returned as (lon, lat).
func ParseFootprint(gml string) (geom.Polygon, error) {
	coordinates, err := gmlCoordinates(gml)
	if err != nil {
		return nil, fmt.Errorf("ParseFootprint.%w", err)
	}
	var ring [][2]float64
	for _, point := range strings.Fields(coordinates) {
		splits := strings.Split(point, ",")
		if len(splits) < 2 {
			return nil, fmt.Errorf("ParseFootprint: invalid vertex '%s'", point)
		}
		lat, err := strconv.ParseFloat(splits[0], 64)
		if err != nil {
			return nil, fmt.Errorf("ParseFootprint.lat: %w", err)
		}
		lon, err := strconv.ParseFloat(splits[1], 64)
		if err != nil {
			return nil, fmt.Errorf("ParseFootprint.lon: %w", err)
		}
		ring = append(ring, [2]float64{lon, lat})
	}
	if len(ring) == 0 {
		return nil, fmt.Errorf("ParseFootprint: no coordinates")
	}
	return geom.Polygon{ring}, nil
}

// gmlCoordinates returns the text of the first coordinates element
func gmlCoordinates(gml string) (string, error) {
	d := xml.NewDecoder(strings.NewReader(gml))
	inside := false
	var text strings.Builder
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("gmlCoordinates: coordinates not found")
		}
		if err != nil {
			return "", fmt.Errorf("gmlCoordinates: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			inside = t.Name.Local == "coordinates"
		case xml.CharData:
			if inside {
				text.Write(t)
			}
		case xml.EndElement:
			if inside && t.Name.Local == "coordinates" {
				return text.String(), nil
			}
		}
	}
}
