package entities

import (
	"fmt"
	"time"

	"github.com/airbusgeo/apihub-query/common"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/araddon/dateparse"
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
)

// TimestampLayout is the layout of the timestamps sent to the catalogues
const TimestampLayout = "2006-01-02T15:04:05.000"

// AOI is a named area of interest
type AOI struct {
	ID       string           `json:"id"`
	Location geojson.Geometry `json:"location"`
}

// NewAOI creates an AOI from a geometry
func NewAOI(id string, g geom.Geometry) AOI {
	return AOI{ID: id, Location: geojson.Geometry{Geometry: g}}
}

// Polygons returns the polygons of the AOI. Intersecting any of them is enough to be in the AOI.
func (a AOI) Polygons() ([]geom.Polygon, error) {
	polygons, err := service.AOIPolygons(a.Location.Geometry)
	if err != nil {
		return nil, fmt.Errorf("AOI[%s].%w", a.ID, err)
	}
	return polygons, nil
}

// QueryRequest is the input of the catalog
type QueryRequest struct {
	Provider    string `json:"provider"`
	Start       string `json:"start"`
	End         string `json:"end"`
	AOI         AOI    `json:"aoi"`
	ProductType string `json:"product_type"`
	Output      string `json:"output"`
}

// Query is a validated QueryRequest
type Query struct {
	ID        string
	Provider  string
	StartTime time.Time
	EndTime   time.Time
	AOI       AOI
	Family    common.ProductFamily
	Output    string
}

// Start returns the start of the query window, formatted for the catalogues
func (q Query) Start() string {
	return q.StartTime.Format(TimestampLayout)
}

// End returns the end of the query window, formatted for the catalogues
func (q Query) End() string {
	return q.EndTime.Format(TimestampLayout)
}

// Validate checks the request and returns the corresponding query.
// Timestamps are parsed in UTC if they don't specify a timezone.
func (r QueryRequest) Validate(id string) (Query, error) {
	q := Query{ID: id, Provider: r.Provider, AOI: r.AOI, Output: r.Output}
	var err error
	if q.Family, err = common.ParseProductFamily(r.ProductType); err != nil {
		return q, fmt.Errorf("validate: %w", err)
	}
	if q.StartTime, err = dateparse.ParseIn(r.Start, time.UTC); err != nil {
		return q, fmt.Errorf("validate.start: %w", err)
	}
	if q.EndTime, err = dateparse.ParseIn(r.End, time.UTC); err != nil {
		return q, fmt.Errorf("validate.end: %w", err)
	}
	q.StartTime, q.EndTime = q.StartTime.UTC(), q.EndTime.UTC()
	if !q.StartTime.Before(q.EndTime) {
		return q, fmt.Errorf("validate: start (%s) must be before end (%s)", r.Start, r.End)
	}
	if q.Family == common.FamilySLC {
		polygons, err := r.AOI.Polygons()
		if err != nil {
			return q, fmt.Errorf("validate.%w", err)
		}
		if len(polygons) == 0 {
			return q, fmt.Errorf("validate: AOI %s has no polygon", r.AOI.ID)
		}
	}
	return q, nil
}

// DownloadJob is the message published for each product found
type DownloadJob struct {
	QueryID  string      `json:"query_id"`
	Provider string      `json:"provider"`
	AOI      string      `json:"aoi"`
	Title    string      `json:"title"`
	URL      string      `json:"url"`
	FileType string      `json:"file_type"`
	Date     common.Date `json:"date"`
}
