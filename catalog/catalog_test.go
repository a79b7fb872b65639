package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/airbusgeo/apihub-query/catalog"
	"github.com/airbusgeo/apihub-query/catalog/entities"
	"github.com/airbusgeo/apihub-query/common"
	icatalog "github.com/airbusgeo/apihub-query/interface/catalog"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/go-spatial/geom"
	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	var (
		ctx       = context.Background()
		provider  *MokeProvider
		publisher *MokePublisher
		storage   *MokeStorage
		c         *catalog.Catalog
		request   entities.QueryRequest
		result    catalog.QueryResult
		err       error
	)

	products := []common.Product{
		{Title: "S1A_IW_SLC__1SDV_20200101T054835_20200101T054902_030000_036E1A_041D", URL: "https://scihub.copernicus.eu/apihub/odata/v1/Products('1')/$value"},
		{Title: "S1B_IW_SLC__1SDV_20200102T170029_20200102T170057_019745_02163A_DA7E", URL: "https://scihub.copernicus.eu/apihub/odata/v1/Products('2')/$value"},
	}

	BeforeEach(func() {
		provider = &MokeProvider{name: "apihub", products: products}
		publisher = &MokePublisher{}
		storage = &MokeStorage{}
		c = catalog.NewCatalog(provider)
		c.JobPublisher = publisher
		c.Storage = storage
		request = entities.QueryRequest{
			Start:       "2020-01-01",
			End:         "2020-01-03T12:00:00Z",
			ProductType: "S1_IW_SLC",
			AOI:         entities.NewAOI("toulouse", geom.Polygon{{{1.25, 43.5}, {2, 43.5}, {2, 44}, {1.25, 44}}}),
		}
	})

	Describe("QueryProducts", func() {
		JustBeforeEach(func() {
			result, err = c.QueryProducts(ctx, request)
		})

		Context("with a valid request", func() {
			It("should not fail", func() {
				Expect(err).NotTo(HaveOccurred())
			})
			It("should query the default provider with normalized timestamps", func() {
				Expect(provider.queries).To(HaveLen(1))
				Expect(provider.queries[0].start).To(Equal("2020-01-01T00:00:00.000"))
				Expect(provider.queries[0].end).To(Equal("2020-01-03T12:00:00.000"))
				Expect(provider.queries[0].family).To(Equal(common.FamilySLC))
				Expect(provider.queries[0].aoi.ID).To(Equal("toulouse"))
			})
			It("should return the products", func() {
				Expect(result.QueryID).NotTo(BeEmpty())
				Expect(result.Provider).To(Equal("apihub"))
				Expect(result.ProductType).To(Equal(common.FamilySLC))
				Expect(result.Products).To(Equal(products))
			})
			It("should publish a download job per product", func() {
				Expect(publisher.messages).To(HaveLen(2))
				job := entities.DownloadJob{}
				Expect(json.Unmarshal(publisher.messages[1], &job)).To(Succeed())
				Expect(job.QueryID).To(Equal(result.QueryID))
				Expect(job.Provider).To(Equal("apihub"))
				Expect(job.AOI).To(Equal("toulouse"))
				Expect(job.Title).To(Equal(products[1].Title))
				Expect(job.URL).To(Equal(products[1].URL))
				Expect(job.FileType).To(Equal("zip"))
				Expect(job.Date).To(Equal(common.Date{Year: "2020", Month: "01", Day: "02"}))
			})
			It("should not write the results", func() {
				Expect(storage.files).To(BeEmpty())
			})
		})

		Context("with an output", func() {
			BeforeEach(func() {
				request.Output = "gs://bucket/results/query.json"
			})
			It("should write the results", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(storage.files).To(HaveKey("gs://bucket/results/query.json"))
				written := catalog.QueryResult{}
				Expect(json.Unmarshal(storage.files["gs://bucket/results/query.json"], &written)).To(Succeed())
				Expect(written.QueryID).To(Equal(result.QueryID))
				Expect(written.Products).To(Equal(products))
			})
		})

		Context("with a default output", func() {
			BeforeEach(func() {
				c.DefaultOutput = "/tmp/results.json"
			})
			It("should write the results", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(storage.files).To(HaveKey("/tmp/results.json"))
			})
		})

		Context("with a GRD request without AOI", func() {
			BeforeEach(func() {
				request.ProductType = "S1_GRD"
				request.AOI = entities.AOI{}
			})
			It("should query the GRD family", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(provider.queries).To(HaveLen(1))
				Expect(provider.queries[0].family).To(Equal(common.FamilyGRD))
			})
		})

		Context("with a SLC request without AOI", func() {
			BeforeEach(func() {
				request.AOI = entities.AOI{ID: "empty"}
			})
			It("should be rejected", func() {
				Expect(errors.As(err, &catalog.ErrInvalidRequest{})).To(BeTrue())
				Expect(provider.queries).To(BeEmpty())
			})
		})

		Context("with an end before the start", func() {
			BeforeEach(func() {
				request.Start, request.End = request.End, request.Start
			})
			It("should be rejected", func() {
				Expect(errors.As(err, &catalog.ErrInvalidRequest{})).To(BeTrue())
				Expect(provider.queries).To(BeEmpty())
			})
		})

		Context("with an unknown product type", func() {
			BeforeEach(func() {
				request.ProductType = "S2_MSI_L1C"
			})
			It("should be rejected", func() {
				Expect(errors.As(err, &catalog.ErrInvalidRequest{})).To(BeTrue())
			})
		})

		Context("with an unknown provider", func() {
			BeforeEach(func() {
				request.Provider = "peps"
			})
			It("should be rejected", func() {
				Expect(errors.As(err, &catalog.ErrInvalidRequest{})).To(BeTrue())
				Expect(provider.queries).To(BeEmpty())
			})
		})

		Context("when the provider fails", func() {
			BeforeEach(func() {
				provider.err = &service.BadResponseError{StatusCode: 500, Body: "internal error"}
			})
			It("should return the error and publish nothing", func() {
				berr, ok := service.IsBadResponse(err)
				Expect(ok).To(BeTrue())
				Expect(berr.StatusCode).To(Equal(500))
				Expect(result.Products).To(BeNil())
				Expect(publisher.messages).To(BeEmpty())
			})
		})

		Context("when no product is found", func() {
			BeforeEach(func() {
				provider.products = nil
			})
			It("should return an empty list", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(result.Products).NotTo(BeNil())
				Expect(result.Products).To(BeEmpty())
				Expect(publisher.messages).To(BeEmpty())
			})
		})

		Context("when the publication fails", func() {
			BeforeEach(func() {
				publisher.err = errPublish
			})
			It("should return the error with the products", func() {
				Expect(errors.Is(err, errPublish)).To(BeTrue())
				Expect(result.Products).To(Equal(products))
			})
		})
	})

	Describe("Handler", func() {
		var (
			router   *mux.Router
			recorder *httptest.ResponseRecorder
			httpReq  *http.Request
		)

		BeforeEach(func() {
			router = mux.NewRouter()
			c.AddHandler(router)
			recorder = httptest.NewRecorder()
		})

		JustBeforeEach(func() {
			router.ServeHTTP(recorder, httpReq)
		})

		postQuery := func(body string) *http.Request {
			return httptest.NewRequest("POST", "/query", strings.NewReader(body))
		}

		Context("posting a valid query", func() {
			BeforeEach(func() {
				b, err := json.Marshal(request)
				Expect(err).NotTo(HaveOccurred())
				httpReq = postQuery(string(b))
			})
			It("should return the products", func() {
				Expect(recorder.Code).To(Equal(200))
				Expect(recorder.Header().Get("Content-Type")).To(Equal("application/json"))
				found := catalog.QueryResult{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &found)).To(Succeed())
				Expect(found.Products).To(Equal(products))
			})
		})

		Context("posting a geojson AOI", func() {
			BeforeEach(func() {
				httpReq = postQuery(`{"start": "2020-01-01T00:00:00", "end": "2020-01-02T00:00:00", "product_type": "slc",
					"aoi": {"id": "square", "location": {"type": "Polygon", "coordinates": [[[10, 50], [11, 50], [11, 51], [10, 51], [10, 50]]]}}}`)
			})
			It("should forward the AOI to the provider", func() {
				Expect(recorder.Code).To(Equal(200))
				Expect(provider.queries).To(HaveLen(1))
				polygons, err := provider.queries[0].aoi.Polygons()
				Expect(err).NotTo(HaveOccurred())
				Expect(polygons).To(HaveLen(1))
			})
		})

		Context("posting a malformed body", func() {
			BeforeEach(func() {
				httpReq = postQuery("{")
			})
			It("should be a bad request", func() {
				Expect(recorder.Code).To(Equal(400))
			})
		})

		Context("posting an invalid query", func() {
			BeforeEach(func() {
				httpReq = postQuery(`{"start": "2020-01-02", "end": "2020-01-01", "product_type": "grd"}`)
			})
			It("should be a bad request", func() {
				Expect(recorder.Code).To(Equal(400))
			})
		})

		for _, test := range []struct {
			err    error
			status int
		}{
			{fmt.Errorf("Query: %w", icatalog.ErrUnsupportedFamily), 400},
			{&service.BadResponseError{StatusCode: 401, Body: "unauthorized"}, 502},
			{&service.BadResponseError{StatusCode: 503, Body: "maintenance"}, 503},
			{service.MakeTemporary(errors.New("connection reset")), 503},
			{&service.BadResponseError{StatusCode: 429, Body: "too many requests"}, 503},
			{service.MakeFatal(errors.New("bucket does not exist")), 500},
			{errors.New("unexpected"), 500},
		} {
			test := test
			Context(fmt.Sprintf("when the provider fails with %v", test.err), func() {
				BeforeEach(func() {
					provider.err = test.err
					httpReq = postQuery(`{"start": "2020-01-01", "end": "2020-01-02", "product_type": "S1_GRD"}`)
				})
				It(fmt.Sprintf("should return %d", test.status), func() {
					Expect(recorder.Code).To(Equal(test.status))
				})
			})
		}

		Context("listing the providers", func() {
			BeforeEach(func() {
				httpReq = httptest.NewRequest("GET", "/providers", nil)
			})
			It("should return the default provider", func() {
				Expect(recorder.Code).To(Equal(200))
				var providers []catalog.ProviderInfo
				Expect(json.Unmarshal(recorder.Body.Bytes(), &providers)).To(Succeed())
				Expect(providers).To(Equal([]catalog.ProviderInfo{{Name: "apihub", FileType: "zip", Default: true}}))
			})
		})

		Context("getting the date of a product", func() {
			BeforeEach(func() {
				httpReq = httptest.NewRequest("GET", "/date/"+products[0].Title, nil)
			})
			It("should return the date", func() {
				Expect(recorder.Code).To(Equal(200))
				date := common.Date{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &date)).To(Succeed())
				Expect(date).To(Equal(common.Date{Year: "2020", Month: "01", Day: "01"}))
			})
		})

		Context("getting the date of an unknown product", func() {
			BeforeEach(func() {
				httpReq = httptest.NewRequest("GET", "/date/LC08_L1TP_196030_20200101", nil)
			})
			It("should return the unknown date", func() {
				Expect(recorder.Code).To(Equal(404))
				date := common.Date{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &date)).To(Succeed())
				Expect(date).To(Equal(common.UnknownDate))
			})
		})

		Context("getting the date of a product with an invalid date", func() {
			BeforeEach(func() {
				httpReq = httptest.NewRequest("GET", "/date/S1A_IW_SLC__1SDV_20201301T054835_20201301T054902_030000_036E1A_041D", nil)
			})
			It("should not be found", func() {
				Expect(recorder.Code).To(Equal(404))
				date := common.Date{}
				Expect(json.Unmarshal(recorder.Body.Bytes(), &date)).To(Succeed())
				Expect(date.Month).To(Equal("13"))
			})
		})
	})
})
