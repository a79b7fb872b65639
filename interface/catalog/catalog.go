package catalog

import (
	"context"
	"errors"

	"github.com/airbusgeo/apihub-query/catalog/entities"
	"github.com/airbusgeo/apihub-query/common"
)

// ErrUnsupportedFamily is returned by QueryProvider.Query for a product family that the catalogue does not serve
var ErrUnsupportedFamily = errors.New("unsupported product family")

// QueryProvider is the interface of a product catalogue
type QueryProvider interface {
	// Query returns the products of the family ingested between start and end, over the aoi
	// Raise service.BadResponseError if the catalogue answers with a non-2xx status
	Query(ctx context.Context, start, end string, aoi entities.AOI, family common.ProductFamily) ([]common.Product, error)
	// SupportedType returns the name of the supported type for queries
	SupportedType() string
	// DataDateFromTitle returns the (YYYY, MM, DD) of a product, or ("0000", "00", "00") if unknown
	DataDateFromTitle(title string) (year, month, day string)
	// FileType returns the extension of the downloaded products
	FileType() string
}
