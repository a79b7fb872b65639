package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airbusgeo/apihub-query/catalog"
	"github.com/airbusgeo/apihub-query/catalog/entities"
	"github.com/airbusgeo/apihub-query/interface/catalog/apihub"
	"github.com/airbusgeo/apihub-query/service"
	"github.com/airbusgeo/apihub-query/service/log"
	"github.com/airbusgeo/geocube/interface/messaging/pubsub"
	"github.com/caarlos0/env/v10"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// credentials are read from the environment and may be overridden by flags
type credentials struct {
	Username string `env:"APIHUB_USERNAME"`
	Password string `env:"APIHUB_PASSWORD"`
	Token    string `env:"APIHUB_TOKEN"`
}

type config struct {
	Area string
	Port string

	ODataURL  string
	SearchURL string
	Timeout   time.Duration
	Output    string

	PsProject string
	PsTopic   string

	credentials
}

func newAppConfig() (*config, error) {
	config := config{}
	if err := env.Parse(&config.credentials); err != nil {
		return nil, fmt.Errorf("env.Parse: %w", err)
	}

	flag.StringVar(&config.Area, "area", "", "json file of the query to run (one-shot mode: the products are written on stdout)")
	flag.StringVar(&config.Port, "port", "8080", "port of the http server (if -area is not defined)")

	// Apihub
	flag.StringVar(&config.ODataURL, "odata-url", apihub.ODataURL, "apihub odata endpoint (SLC products)")
	flag.StringVar(&config.SearchURL, "search-url", apihub.SearchURL, "apihub opensearch endpoint (GRD products)")
	flag.DurationVar(&config.Timeout, "timeout", time.Minute, "timeout of each request to apihub (0: no timeout)")
	flag.StringVar(&config.Username, "username", config.Username, "apihub account username (default: $APIHUB_USERNAME)")
	flag.StringVar(&config.Password, "password", config.Password, "apihub account password (default: $APIHUB_PASSWORD)")
	flag.StringVar(&config.Token, "token", config.Token, "apihub bearer token, instead of username/password (default: $APIHUB_TOKEN)")

	// Outputs
	flag.StringVar(&config.Output, "output", "", "uri where the results of each query are written (optional, currently supported: local, gs, s3 with the default aws configuration). Can be overridden by the query.")
	flag.StringVar(&config.PsProject, "ps-project", "", "pubsub project (gcp only/not required in local usage)")
	flag.StringVar(&config.PsTopic, "ps-topic", "", "pubsub topic where a downloader job is published for each product found (optional)")
	flag.Parse()

	if config.Token != "" && config.Username != "" {
		return nil, fmt.Errorf("username and token are mutually exclusive")
	}
	return &config, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := run(ctx); err != nil {
		log.Fatal("error", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	config, err := newAppConfig()
	if err != nil {
		return err
	}

	// Connection to apihub
	opts := []service.SessionOption{service.WithTimeout(config.Timeout)}
	if config.Token != "" {
		opts = append(opts, service.WithBearerToken(config.Token))
	} else if config.Username != "" {
		opts = append(opts, service.WithBasicAuth(config.Username, config.Password))
	} else {
		log.Logger(ctx).Warn("no apihub credentials: queries are anonymous")
	}
	provider := apihub.NewProvider(service.NewSession(opts...))
	provider.ODataURL = config.ODataURL
	provider.SearchURL = config.SearchURL

	c := catalog.NewCatalog(provider)
	c.Storage = &service.URIStorage{}
	c.DefaultOutput = config.Output

	// Downloader jobs
	if config.PsTopic != "" {
		log.Logger(ctx).Sugar().Infof("publishing downloader jobs on pubsub:%s/%s", config.PsProject, config.PsTopic)
		jobTopic, err := pubsub.NewPublisher(ctx, config.PsProject, config.PsTopic, pubsub.WithMaxRetries(5))
		if err != nil {
			return fmt.Errorf("pubsub.NewPublisher: %w", err)
		}
		defer jobTopic.Stop()
		c.JobPublisher = jobTopic
	}

	if config.Area != "" {
		return queryArea(ctx, c, config.Area)
	}
	return serve(ctx, c, config.Port)
}

// queryArea runs the query of the json file and writes the result on stdout
func queryArea(ctx context.Context, c *catalog.Catalog, jsonPath string) error {
	b, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("queryArea: %w", err)
	}
	request := entities.QueryRequest{}
	if err := json.Unmarshal(b, &request); err != nil {
		return fmt.Errorf("queryArea.Unmarshal(%s): %w", jsonPath, err)
	}
	result, err := c.QueryProducts(ctx, request)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func serve(ctx context.Context, c *catalog.Catalog, port string) error {
	router := mux.NewRouter()
	c.AddHandler(router)

	headersOk := handlers.AllowedHeaders([]string{"*"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	s := http.Server{
		Addr:    ":" + port,
		Handler: handlers.CORS(originsOk, headersOk, methodsOk)(router),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Logger(ctx).Sugar().Infof("listening on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cncl := context.WithTimeout(context.Background(), 30*time.Second)
		defer cncl()
		return s.Shutdown(sctx)
	})
	return g.Wait()
}
