package router

import (
	"context"
	"net/http"
	"time"

	"coursehub/internal/api/v1/handler"
	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/middleware"
	"coursehub/internal/pubsub"
	"coursehub/internal/repository"
	"coursehub/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Services are the collaborators the HTTP layer is built from.
type Services struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Comment  service.CommentService
	Course   service.CourseService
	User     service.UserService
	Auth     service.AuthService
	Payments handler.Checkouter
	// Webhook receives raw Stripe events.
	Webhook http.HandlerFunc
	// Health reports whether the database is reachable.
	Health func(ctx context.Context) error
}

// New wires the database, object storage, Pub/Sub and Stripe into the HTTP
// handler. The returned cleanup releases those resources.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Database pool
	pool, err := database.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// 2. S3 client for course media
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		if cfg.S3URL != "" {
			o.BaseEndpoint = aws.String(cfg.S3URL)
		}
		o.UsePathStyle = true
	})
	media := service.NewS3MediaStore(s3Client, cfg.S3Bucket, cfg.MediaPublicURL)

	// 3. Pub/Sub publisher; without a project purchase events are only logged
	var publisher pubsub.Publisher
	closePublisher := func() error { return nil }
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		publisher = p
		closePublisher = p.Close
	} else {
		logger.Warn().Msg("GCP_PROJECT_ID not set, purchase events will only be logged")
		publisher = pubsub.NewLogPublisher(logger)
	}

	// 4. Repositories & services
	validate := handler.NewValidator()

	userRepo := repository.NewUserRepo(pool)
	sectorRepo := repository.NewSectorRepo(pool)
	courseRepo := repository.NewCourseRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)

	payments := service.NewPaymentService(service.PaymentConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		Currency:      cfg.StripeCurrency,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
		PurchaseTopic: cfg.PubSubPurchaseTopic,
	}, userRepo, courseRepo, publisher, logger)

	svc := Services{
		Catalog:  service.NewCatalogService(sectorRepo, courseRepo),
		Cart:     service.NewCartService(courseRepo),
		Comment:  service.NewCommentService(courseRepo, commentRepo, validate, logger),
		Course:   service.NewCourseService(courseRepo, sectorRepo, userRepo, media, logger),
		User:     service.NewUserService(userRepo, logger),
		Auth:     service.NewAuthService(userRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, logger),
		Payments: payments,
		Webhook:  payments.HandleWebhook,
		Health:   pool.Ping,
	}

	cleanup := func() {
		if err := closePublisher(); err != nil {
			logger.Error().Err(err).Msg("Failed to close Pub/Sub publisher")
		}
		pool.Close()
	}
	return NewHandler(cfg, svc, logger), cleanup, nil
}

// NewHandler builds the chi router with the Huma operations, the raw
// webhook, health and metrics endpoints.
func NewHandler(cfg *config.Config, svc Services, logger zerolog.Logger) http.Handler {
	validate := handler.NewValidator()
	mediaURL := func(key string) string { return service.MediaURL(cfg.MediaPublicURL, key) }

	catalogHandler := handler.NewCatalogHandler(svc.Catalog, svc.Cart, svc.Comment, mediaURL, logger)
	courseHandler := handler.NewCourseHandler(svc.Course, validate, mediaURL, logger)
	userHandler := handler.NewUserHandler(svc.User, validate, logger)
	authHandler := handler.NewAuthHandler(svc.Auth, logger)
	paymentHandler := handler.NewPaymentHandler(svc.Payments, logger)

	r := chi.NewRouter()
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.Metrics())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := svc.Health(ctx); err != nil {
			logger.Error().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/payments/webhook", svc.Webhook)

	api := SetupHumaAPI(r, cfg.JWTSecret, svc.User, logger)
	RegisterRoutes(api, catalogHandler, courseHandler, userHandler, authHandler, paymentHandler, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// removeDisableGzip is a workaround for S3 signature errors with some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		// Only remove the middleware if it exists.
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
