package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/airbusgeo/apihub-query/catalog/entities"
	"github.com/airbusgeo/apihub-query/common"
	icatalog "github.com/airbusgeo/apihub-query/interface/catalog"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/airbusgeo/apihub-query/service/log"
	"github.com/gorilla/mux"
)

const maxRequestSize = 10 << 20

// AddHandler registers the catalog routes on the router
func (c *Catalog) AddHandler(r *mux.Router) {
	r.HandleFunc("/query", c.QueryHandler).Methods("POST")
	r.HandleFunc("/providers", c.ProvidersHandler).Methods("GET")
	r.HandleFunc("/date/{title}", c.DateHandler).Methods("GET")
}

// statusOf maps an error of QueryProducts to an http status
func statusOf(err error) int {
	if errors.As(err, &ErrInvalidRequest{}) || errors.Is(err, icatalog.ErrUnsupportedFamily) {
		return http.StatusBadRequest
	}
	if service.Temporary(err) {
		return http.StatusServiceUnavailable
	}
	if _, ok := service.IsBadResponse(err); ok {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// QueryHandler runs the query request of the body and returns the products found
func (c *Catalog) QueryHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	body, err := io.ReadAll(io.LimitReader(req.Body, maxRequestSize))
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	query := entities.QueryRequest{}
	if err := json.Unmarshal(body, &query); err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "QueryHandler: %v\nJSON:\n%s", err, body)
		return
	}

	result, err := c.QueryProducts(ctx, query)
	if err != nil {
		if service.Fatal(err) {
			log.Logger(ctx).Sugar().Errorf("QueryHandler.%v", err)
		} else {
			log.Logger(ctx).Sugar().Warnf("QueryHandler.%v", err)
		}
		w.WriteHeader(statusOf(err))
		fmt.Fprintf(w, "%v", err)
		return
	}

	if err := writeJSON(w, 200, result); err != nil {
		log.Logger(ctx).Sugar().Warnf("QueryHandler.%v", err)
	}
}

// ProvidersHandler lists the supported providers
func (c *Catalog) ProvidersHandler(w http.ResponseWriter, req *http.Request) {
	if err := writeJSON(w, 200, c.Providers()); err != nil {
		log.Logger(req.Context()).Sugar().Warnf("ProvidersHandler.%v", err)
	}
}

// DateHandler returns the acquisition date of a product title
func (c *Catalog) DateHandler(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	provider, err := c.Provider(req.URL.Query().Get("provider"))
	if err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "%v", err)
		return
	}
	year, month, day := provider.DataDateFromTitle(mux.Vars(req)["title"])
	date := common.Date{Year: year, Month: month, Day: day}
	status := 200
	if _, err := date.Time(); err != nil {
		status = 404
	}
	if err := writeJSON(w, status, date); err != nil {
		log.Logger(ctx).Sugar().Warnf("DateHandler.%v", err)
	}
}
