package apihub

import (
	"context"
	"encoding/json"
	"fmt"
	neturl "net/url"
	"strconv"

	"github.com/airbusgeo/apihub-query/common"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/airbusgeo/apihub-query/service/geometry"
	"github.com/airbusgeo/apihub-query/service/log"
	"github.com/go-spatial/geom"
	"go.uber.org/zap"
)

const slcFilterTemplate = "IngestionDate ge datetime'%s' and IngestionDate lt datetime'%s' and substringof('SLC',Name)"

func slcFilter(start, end string) string {
	return fmt.Sprintf(slcFilterTemplate, start, end)
}

type odataItem struct {
	Name            string `json:"Name"`
	ContentGeometry string `json:"ContentGeometry"`
	Metadata        struct {
		MediaSrc string `json:"media_src"`
	} `json:"__metadata"`
}

type odataPage struct {
	D struct {
		Results []odataItem `json:"results"`
	} `json:"d"`
}

// listSLC pages through the OData service and returns the products whose footprint intersects one of the polygons
func (p *Provider) listSLC(ctx context.Context, session *service.Session, filter string, polygons []geom.Polygon) ([]common.Product, error) {
	aoi, err := geometry.NewPolygons(polygons)
	if err != nil {
		return nil, fmt.Errorf("listSLC.%w", err)
	}

	var found []common.Product
	nextPage := true
	for offset := 0; nextPage; {
		log.Logger(ctx).Sugar().Debugf("[Apihub] Search SLC page %d (offset %d)", offset/PageSize+1, offset)
		body, err := session.Get(ctx, p.ODataURL, neturl.Values{
			"$filter": {filter},
			"$skip":   {strconv.Itoa(offset)},
			"$top":    {strconv.Itoa(PageSize)},
			"$format": {"json"},
		})
		if err != nil {
			return nil, fmt.Errorf("listSLC: %w", err)
		}

		page := odataPage{}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("listSLC.Unmarshal: %w (response: %s)", err, body)
		}
		count := len(page.D.Results)
		log.Logger(ctx).Sugar().Debugf("[Apihub] Found: %d results", count)

		for _, item := range page.D.Results {
			footprint, err := ParseFootprint(item.ContentGeometry)
			if err != nil {
				return nil, fmt.Errorf("listSLC[%s].%w", item.Name, err)
			}
			fp, err := geometry.NewPolygon(footprint)
			if err != nil {
				return nil, fmt.Errorf("listSLC[%s].%w", item.Name, err)
			}
			intersects, err := geometry.IntersectsAny(fp, aoi)
			if err != nil {
				return nil, fmt.Errorf("listSLC[%s].%w", item.Name, err)
			}
			if !intersects {
				continue
			}
			found = append(found, common.Product{Title: item.Name, URL: CorrectDownloadURL(item.Metadata.MediaSrc)})
			log.Logger(ctx).Debug("[Apihub] product intersects the AOI", zap.String("title", item.Name))
		}

		// Rejected items are counted: the offset follows the catalogue
		offset += count
		nextPage = count > 0
	}
	return found, nil
}
