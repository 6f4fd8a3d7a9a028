package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tnvu/storefront/internal/auth"
	"github.com/tnvu/storefront/internal/config"
	"github.com/tnvu/storefront/internal/http/apierr"
	"github.com/tnvu/storefront/internal/http/metric"
	"github.com/tnvu/storefront/internal/http/middleware"
	"github.com/tnvu/storefront/internal/http/swagger"
	"github.com/tnvu/storefront/internal/service"
	pkgvalidator "github.com/tnvu/storefront/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service is the HTTP front of the shop.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator pkgvalidator.Validator
	tokens    auth.TokenManager

	userSvc    service.UserService
	authSvc    service.AuthService
	productSvc service.ProductService
	saleSvc    service.SaleService
	reportSvc  service.ReportService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	logger *slog.Logger,
	tokens auth.TokenManager,
	userSvc service.UserService,
	authSvc service.AuthService,
	productSvc service.ProductService,
	saleSvc service.SaleService,
	reportSvc service.ReportService,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logger.With(slog.String("service", "http")),
		metrics:    metric.New(),
		validator:  pkgvalidator.NewDefaultValidator(),
		tokens:     tokens,
		userSvc:    userSvc,
		authSvc:    authSvc,
		productSvc: productSvc,
		saleSvc:    saleSvc,
		reportSvc:  reportSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	requireAuth := middleware.Auth(s.tokens)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.createUser)
		r.Get("/", s.listUsers)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{userID}", s.updateUser)
			r.Delete("/{userID}", s.deleteUser)
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/token", s.login)
		r.With(requireAuth).Post("/refresh_token", s.refreshToken)
	})

	r.Route("/products", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", s.createProduct)
		r.Get("/", s.listProducts)
		r.Put("/{productID}", s.updateProduct)
		r.Delete("/{productID}", s.deleteProduct)
	})

	r.Route("/sales", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", s.createSale)
		r.Post("/create-payment", s.createPayment)
		r.Get("/daily_report", s.dailyReport)
		r.Get("/period_report", s.periodReport)
		r.Get("/best_sellers", s.bestSellers)
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}

// decode reads the JSON body into v and validates it.
func (s *Service) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierr.BodyDecodeErr.WrapParent(err)
	}
	if err := s.validator.Validate(v); err != nil {
		return err
	}
	return nil
}

func (s *Service) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func (s *Service) respondError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.respond(w, r, res.StatusCode, res)
}
