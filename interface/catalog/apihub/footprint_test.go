package apihub

import (
	"testing"
)

func TestParseFootprint(t *testing.T) {
	gml := `<gml:Polygon srsName="http://www.opengis.net/gml/srs/epsg.xml#4326" xmlns:gml="http://www.opengis.net/gml">
   <gml:outerBoundaryIs>
      <gml:LinearRing>
         <gml:coordinates>43.5,1.25 43.5,2.0
         44.0,2.0 44.0,1.25 43.5,1.25</gml:coordinates>
      </gml:LinearRing>
   </gml:outerBoundaryIs>
</gml:Polygon>`
	polygon, err := ParseFootprint(gml)
	if err != nil {
		t.Fatal(err)
	}
	if len(polygon) != 1 {
		t.Fatalf("expected 1 ring found %d", len(polygon))
	}
	expected := [][2]float64{{1.25, 43.5}, {2, 43.5}, {2, 44}, {1.25, 44}, {1.25, 43.5}}
	if len(polygon[0]) != len(expected) {
		t.Fatalf("expected %d vertices found %d", len(expected), len(polygon[0]))
	}
	for i := range expected {
		if polygon[0][i] != expected[i] {
			t.Errorf("vertex %d: expected %v found %v", i, expected[i], polygon[0][i])
		}
	}
}

func TestParseFootprintErrors(t *testing.T) {
	for name, gml := range map[string]string{
		"empty":         "",
		"noCoordinates": `<gml:Polygon xmlns:gml="http://www.opengis.net/gml"><gml:outerBoundaryIs/></gml:Polygon>`,
		"emptyRing":     `<gml:coordinates xmlns:gml="http://www.opengis.net/gml">  </gml:coordinates>`,
		"missingLon":    `<gml:coordinates xmlns:gml="http://www.opengis.net/gml">43.5 44.0,2.0</gml:coordinates>`,
		"notANumber":    `<gml:coordinates xmlns:gml="http://www.opengis.net/gml">43.5,east 44.0,2.0</gml:coordinates>`,
		"truncatedXML":  `<gml:Polygon><gml:coordinates>43.5,1.25 43.5,2.0`,
	} {
		if _, err := ParseFootprint(gml); err == nil {
			t.Errorf("%s: expecting an error", name)
		}
	}
}
