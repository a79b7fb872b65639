package apihub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/airbusgeo/apihub-query/common"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/airbusgeo/apihub-query/service/log"
)

const (
	grdQueryTemplate  = "GRD AND ingestiondate:[%s TO %s]"
	grdOrderBy        = "ingestiondate desc"
	grdSearchTemplate = "%s?q=%s&orderby=%s&format=json&start=%d&rows=%d"
)

// ensureUTC appends the UTC marker to the timestamp, if missing
func ensureUTC(timestamp string) string {
	if strings.HasSuffix(timestamp, "Z") {
		return timestamp
	}
	return timestamp + "Z"
}

func (p *Provider) grdSearchURL(start, end string, offset int) string {
	query := fmt.Sprintf(grdQueryTemplate, start, end)
	return fmt.Sprintf(grdSearchTemplate, p.SearchURL, neturl.QueryEscape(query), neturl.QueryEscape(grdOrderBy), offset, PageSize)
}

type feedEntry struct {
	Title string `json:"title"`
	Links []struct {
		Rel  string `json:"rel"`
		Href string `json:"href"`
	} `json:"link"`
}

// feedEntries is an array of entries. The feed contains an object instead of an array when there is only one entry.
type feedEntries []feedEntry

func (e *feedEntries) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var entry feedEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		*e = feedEntries{entry}
		return nil
	}
	var entries []feedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	*e = entries
	return nil
}

type feedPage struct {
	Feed struct {
		TotalResults json.Number  `json:"opensearch:totalResults"`
		Entries      *feedEntries `json:"entry"`
	} `json:"feed"`
}

// listGRD pages through the opensearch feed and returns the GRD high-resolution products
func (p *Provider) listGRD(ctx context.Context, session *service.Session, start, end string) ([]common.Product, error) {
	start, end = ensureUTC(start), ensureUTC(end)

	var found []common.Product
	totalResults := "?"
	nextPage := true
	for offset := 0; nextPage; {
		log.Logger(ctx).Sugar().Debugf("[Apihub] Search GRD page %d (offset %d/%s)", offset/PageSize+1, offset, totalResults)
		body, err := session.Get(ctx, p.grdSearchURL(start, end, offset), nil)
		if err != nil {
			return nil, fmt.Errorf("listGRD: %w", err)
		}

		page := feedPage{}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("listGRD.Unmarshal: %w (response: %s)", err, body)
		}
		if page.Feed.TotalResults != "" {
			totalResults = page.Feed.TotalResults.String()
		}
		// No entry: end of the results
		if page.Feed.Entries == nil {
			break
		}
		entries := *page.Feed.Entries
		count := len(entries)
		log.Logger(ctx).Sugar().Debugf("[Apihub] Found: %d results", count)

		for _, entry := range entries {
			if len(entry.Links) == 0 || !common.IsGRDTitle(entry.Title) {
				continue
			}
			found = append(found, common.Product{Title: entry.Title, URL: entry.Links[0].Href})
		}

		offset += count
		nextPage = count > 0
	}
	return found, nil
}
