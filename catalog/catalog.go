package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/airbusgeo/apihub-query/catalog/entities"
	"github.com/airbusgeo/apihub-query/common"
	icatalog "github.com/airbusgeo/apihub-query/interface/catalog"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/airbusgeo/apihub-query/service/geometry"
	"github.com/airbusgeo/apihub-query/service/log"
	"github.com/airbusgeo/geocube/interface/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidRequest is returned when the query request cannot be served as is
type ErrInvalidRequest struct {
	Err error
}

func (e ErrInvalidRequest) Error() string { return "invalid request: " + e.Err.Error() }
func (e ErrInvalidRequest) Unwrap() error { return e.Err }

// Catalog is the main class of this package
type Catalog struct {
	providers       map[string]icatalog.QueryProvider
	DefaultProvider string
	// JobPublisher receives one DownloadJob per product found (optional)
	JobPublisher messaging.Publisher
	// Storage writes the results to Query.Output or DefaultOutput (optional)
	Storage       service.Storage
	DefaultOutput string
}

// NewCatalog creates a catalog serving the providers. The first one is the default provider.
func NewCatalog(providers ...icatalog.QueryProvider) *Catalog {
	c := &Catalog{providers: map[string]icatalog.QueryProvider{}}
	for _, p := range providers {
		if c.DefaultProvider == "" {
			c.DefaultProvider = p.SupportedType()
		}
		c.providers[p.SupportedType()] = p
	}
	return c
}

// ProviderInfo describes a query provider
type ProviderInfo struct {
	Name     string `json:"name"`
	FileType string `json:"file_type"`
	Default  bool   `json:"default,omitempty"`
}

// Providers lists the providers of the catalog, sorted by name
func (c *Catalog) Providers() []ProviderInfo {
	var infos []ProviderInfo
	for name, p := range c.providers {
		infos = append(infos, ProviderInfo{Name: name, FileType: p.FileType(), Default: name == c.DefaultProvider})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Provider returns the provider supporting the given type (or the default one if name is empty)
func (c *Catalog) Provider(name string) (icatalog.QueryProvider, error) {
	if name == "" {
		name = c.DefaultProvider
	}
	p, ok := c.providers[name]
	if !ok {
		return nil, ErrInvalidRequest{fmt.Errorf("unknown provider '%s'", name)}
	}
	return p, nil
}

// QueryResult is the output of QueryProducts
type QueryResult struct {
	QueryID     string               `json:"query_id"`
	Provider    string               `json:"provider"`
	ProductType common.ProductFamily `json:"product_type"`
	Start       string               `json:"start"`
	End         string               `json:"end"`
	AOI         string               `json:"aoi,omitempty"`
	Products    []common.Product     `json:"products"`
}

// QueryProducts validates the request, queries the provider, then publishes the download jobs and writes the results, if configured.
func (c *Catalog) QueryProducts(ctx context.Context, req entities.QueryRequest) (QueryResult, error) {
	queryID := uuid.New().String()
	ctx = log.With(ctx, "queryID", queryID)

	q, err := req.Validate(queryID)
	if err != nil {
		return QueryResult{}, ErrInvalidRequest{err}
	}
	provider, err := c.Provider(q.Provider)
	if err != nil {
		return QueryResult{}, fmt.Errorf("QueryProducts.%w", err)
	}

	if q.Family == common.FamilySLC {
		log.Logger(ctx).Debug("Query AOI", zap.String("aoi", q.AOI.ID), zap.String("wkt", geometry.ToWKT(q.AOI.Location.Geometry)))
	}
	log.Logger(ctx).Sugar().Infof("Query %s products on %s from %s to %s", q.Family.Mapping(), provider.SupportedType(), q.Start(), q.End())

	products, err := provider.Query(ctx, q.Start(), q.End(), q.AOI, q.Family)
	if err != nil {
		return QueryResult{}, fmt.Errorf("QueryProducts.%w", err)
	}
	if products == nil {
		products = []common.Product{}
	}
	log.Logger(ctx).Sugar().Infof("%d products found", len(products))

	result := QueryResult{
		QueryID:     queryID,
		Provider:    provider.SupportedType(),
		ProductType: q.Family,
		Start:       q.Start(),
		End:         q.End(),
		AOI:         q.AOI.ID,
		Products:    products,
	}

	if err := c.publishJobs(ctx, provider, q, products); err != nil {
		return result, fmt.Errorf("QueryProducts.%w", err)
	}
	if err := c.writeResult(ctx, q.Output, result); err != nil {
		return result, fmt.Errorf("QueryProducts.%w", err)
	}
	return result, nil
}

// publishJobs publishes a DownloadJob for each product
func (c *Catalog) publishJobs(ctx context.Context, provider icatalog.QueryProvider, q entities.Query, products []common.Product) error {
	if c.JobPublisher == nil || len(products) == 0 {
		return nil
	}
	messages := make([][]byte, 0, len(products))
	for _, p := range products {
		year, month, day := provider.DataDateFromTitle(p.Title)
		job := entities.DownloadJob{
			QueryID:  q.ID,
			Provider: provider.SupportedType(),
			AOI:      q.AOI.ID,
			Title:    p.Title,
			URL:      p.URL,
			FileType: provider.FileType(),
			Date:     common.Date{Year: year, Month: month, Day: day},
		}
		b, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("publishJobs.Marshal: %w", err)
		}
		messages = append(messages, b)
	}
	if err := c.JobPublisher.Publish(ctx, messages...); err != nil {
		return fmt.Errorf("publishJobs: %w", err)
	}
	log.Logger(ctx).Sugar().Debugf("%d download jobs published", len(messages))
	return nil
}

// writeResult writes the result as json to the output uri (or the default output)
func (c *Catalog) writeResult(ctx context.Context, output string, result QueryResult) error {
	if output == "" {
		output = c.DefaultOutput
	}
	if output == "" {
		return nil
	}
	if c.Storage == nil {
		return fmt.Errorf("writeResult: no storage configured for %s", output)
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("writeResult.Marshal: %w", err)
	}
	if err := c.Storage.Upload(ctx, output, b); err != nil {
		return fmt.Errorf("writeResult.%w", err)
	}
	log.Logger(ctx).Debug("Results written", zap.String("output", output))
	return nil
}
