package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gameon/internal/api/v1/handler"
	"gameon/internal/catalog"
	"gameon/internal/config"
	"gameon/internal/docs"
	"gameon/internal/metrics"
	"gameon/internal/middleware"
	"gameon/internal/pgmq"
	"gameon/internal/pubsub"
	"gameon/internal/repository"
	"gameon/internal/service"
	"gameon/internal/store"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

func serveSwagger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store         store.Store
	Catalog       *catalog.Catalog
	Location      *time.Location
	Venue         service.Venue
	SigningSecret string
	SessionTTL    time.Duration
	LoginPerMin   int
	Publisher     pubsub.Publisher
	BillTopic     string
	Archive       service.ArchiveService
	Registry      *prometheus.Registry
	CORSOrigins   []string
}

// New connects every configured backend and returns the HTTP handler along
// with a function that releases those backends.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func() error, error) {
	logger.Info().Str("environment", cfg.Environment).Str("store", cfg.StoreDriver).Msg("Router initializing")

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	// 1. Catalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Int("zones", len(cat.Zones())).Int("tiers", len(cat.Tiers())).Msg("Catalog loaded")

	// 2. Signing secret
	secret := cfg.JWTSecret
	if cfg.JWTSecretResource != "" {
		sm, err := service.NewSecretManagerService(ctx)
		if err != nil {
			return nil, nil, err
		}
		secret, err = service.ResolveSigningSecret(ctx, sm, cfg.JWTSecretResource, cfg.JWTSecret)
		sm.Close()
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Msg("Signing secret loaded from Secret Manager")
	}

	// 3. Store
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{st.Close}

	// 4. Bill event publisher (Pub/Sub, else pgmq)
	var publisher pubsub.Publisher = pubsub.NopPublisher{}
	if cfg.PubSubEnabled() {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
		publisher = p
		closers = append(closers, p.Close)
		logger.Info().Str("topic", cfg.PubSubBillTopic).Msg("Publishing bill events")
	}
	billTopic := cfg.PubSubBillTopic
	if cfg.PGMQEnabled() {
		q, err := pgmq.Open(ctx, cfg.DBConnectionString, cfg.PGMQBillQueue)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		publisher = q
		billTopic = cfg.PGMQBillQueue
		closers = append(closers, q.Close)
		logger.Info().Str("queue", cfg.PGMQBillQueue).Msg("Queueing bill events in pgmq")
	}

	// 5. S3 archive
	var archive service.ArchiveService = service.UnavailableArchive{}
	if cfg.ArchiveEnabled() {
		s3Client, err := newS3Client(ctx, cfg)
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		archive = service.NewArchiveService(s3Client, cfg.S3Bucket, logger)
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("Archive storage enabled")
	}

	// 6. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	h := NewHandler(Deps{
		Store:         st,
		Catalog:       cat,
		Location:      loc,
		Venue:         service.Venue{Name: cfg.VenueName, Address: cfg.VenueAddress},
		SigningSecret: secret,
		SessionTTL:    cfg.SessionTTL,
		LoginPerMin:   cfg.LoginRatePerMinute,
		Publisher:     publisher,
		BillTopic:     billTopic,
		Archive:       archive,
		Registry:      reg,
		CORSOrigins:   cfg.CORSAllowedOrigins,
	}, logger)

	return h, func() error { return closeAll(closers) }, nil
}

// NewHandler wires repositories, services and handlers onto a ServeMux.
func NewHandler(d Deps, logger zerolog.Logger) http.Handler {
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	recorder := metrics.New(d.Registry)

	// Repositories & services & handlers
	billRepo := repository.NewBillRepo(d.Store)
	userRepo := repository.NewUserRepo(d.Store)

	authSvc := service.NewAuthService(userRepo, d.SigningSecret, d.SessionTTL, recorder, logger)
	billSvc := service.NewBillService(billRepo, d.Catalog, d.Location, d.Publisher, d.BillTopic, recorder, logger)
	userSvc := service.NewUserService(userRepo, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	authHandler := handler.NewAuthHandler(authSvc, validate, middleware.NewRateLimiter(d.LoginPerMin), logger)
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	billHandler := handler.NewBillHandler(billSvc, d.Archive, d.Catalog, d.Venue, d.Location, validate, logger)
	userHandler := handler.NewUserHandler(userSvc, validate, logger)

	authMiddleware := middleware.AuthMiddleware(authSvc, logger)

	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	catalogHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	billHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	apiV1Mux.HandleFunc("/swagger.json", serveSwagger)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	mux.Handle("/metrics", metrics.Handler(d.Registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})

	// Redirect /api/* to /v1/* for clients written against the old prefix
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}
	s3Config, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
			o.UsePathStyle = true
		}
	}), nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services such as MinIO and Supabase storage.
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}

func closeAll(closers []func() error) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
