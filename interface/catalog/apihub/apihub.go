package apihub

import (
	"context"
	"fmt"

	"github.com/airbusgeo/apihub-query/catalog/entities"
	"github.com/airbusgeo/apihub-query/common"
	"github.com/airbusgeo/apihub-query/interface/catalog"
	"github.com/airbusgeo/apihub-query/service"
)

const (
	// SupportedType is the name of this query provider
	SupportedType = "apihub"
	// FileType is the extension of the products downloaded from apihub
	FileType = "zip"

	ODataURL  = "https://scihub.copernicus.eu/apihub/odata/v1/Products"
	SearchURL = "https://scihub.copernicus.eu/apihub/search"

	// PageSize is the number of items requested per page
	PageSize = 100
)

// ErrUnsupportedFamily is returned by Query for a product family that is not served by apihub
var ErrUnsupportedFamily = catalog.ErrUnsupportedFamily

// Provider implements catalog.QueryProvider for the Copernicus apihub
type Provider struct {
	Session   *service.Session
	ODataURL  string
	SearchURL string
}

// NewProvider creates a new Provider on the default apihub endpoints
func NewProvider(session *service.Session) *Provider {
	return &Provider{Session: session, ODataURL: ODataURL, SearchURL: SearchURL}
}

// SupportedType implements catalog.QueryProvider
func (p *Provider) SupportedType() string {
	return SupportedType
}

// FileType implements catalog.QueryProvider
func (p *Provider) FileType() string {
	return FileType
}

// DataDateFromTitle implements catalog.QueryProvider
func (p *Provider) DataDateFromTitle(title string) (year, month, day string) {
	return common.DataDateFromTitle(title)
}

// Query implements catalog.QueryProvider
// The products are returned in the order of the catalogue, without deduplication.
func (p *Provider) Query(ctx context.Context, start, end string, aoi entities.AOI, family common.ProductFamily) ([]common.Product, error) {
	session := p.Session
	if session == nil {
		session = service.NewSession()
	}
	switch family {
	case common.FamilySLC:
		polygons, err := aoi.Polygons()
		if err != nil {
			return nil, fmt.Errorf("Apihub.Query.%w", err)
		}
		if len(polygons) == 0 {
			return nil, fmt.Errorf("Apihub.Query: AOI %s has no polygon", aoi.ID)
		}
		products, err := p.listSLC(ctx, session, slcFilter(start, end), polygons)
		if err != nil {
			return nil, fmt.Errorf("Apihub.Query.%w", err)
		}
		return products, nil
	case common.FamilyGRD:
		products, err := p.listGRD(ctx, session, start, end)
		if err != nil {
			return nil, fmt.Errorf("Apihub.Query.%w", err)
		}
		return products, nil
	}
	return nil, fmt.Errorf("Apihub.Query: %w: %s", ErrUnsupportedFamily, family)
}
