package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	checklistapp "github.com/elkontrol/inspections/api/internal/checklist/application"
	checklist "github.com/elkontrol/inspections/api/internal/checklist/domain"
	"github.com/elkontrol/inspections/api/internal/config"
	directoryapp "github.com/elkontrol/inspections/api/internal/directory/application"
	"github.com/elkontrol/inspections/api/internal/infrastructure/cache"
	mongodoc "github.com/elkontrol/inspections/api/internal/infrastructure/mongo"
	"github.com/elkontrol/inspections/api/internal/infrastructure/storage"
	checklisthttp "github.com/elkontrol/inspections/api/internal/interfaces/http/checklist"
	"github.com/elkontrol/inspections/api/internal/interfaces/http/common"
	directoryhttp "github.com/elkontrol/inspections/api/internal/interfaces/http/directory"
	"github.com/elkontrol/inspections/api/internal/report"
)

// Server is the composition root: it owns the Mongo, Redis and S3 clients and
// mounts the checklist and directory handlers behind JWT auth.
type Server struct {
	logger         *zap.Logger
	client         *mongo.Client
	redis          *redis.Client
	jwt            config.JWTConfig
	addr           string
	allowedOrigins []string
	checklist      *checklisthttp.Handler
	directory      *directoryhttp.Handler
}

// New wires repositories, services and handlers. It ensures Mongo indexes
// before returning.
func New(ctx context.Context, cfg config.Config, client *mongo.Client) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	db := client.Database(cfg.MongoDatabase)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := mongodoc.EnsureIndexes(indexCtx, db, mongodoc.Collections{
		Templates:     cfg.TemplateCollection,
		Inspections:   cfg.InspectionCollection,
		Customers:     cfg.CustomerCollection,
		Addresses:     cfg.AddressCollection,
		Installations: cfg.InstallationCollection,
	}); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	store, err := storage.NewS3Store(ctx, storage.S3StoreConfig{
		Bucket:        cfg.Storage.Bucket,
		Region:        cfg.Storage.Region,
		Endpoint:      cfg.Storage.Endpoint,
		Prefix:        cfg.Storage.Prefix,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}

	srv := &Server{
		logger:         logger,
		client:         client,
		jwt:            cfg.JWT,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	var reportCache checklistapp.ReportCache
	if cfg.Redis.Addr != "" {
		srv.redis = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		reportCache = cache.NewReportCache(srv.redis, cfg.Redis.TTL)
	} else {
		logger.Info("REDIS_ADDR not set, rendered reports are not cached")
	}

	templateRepo := mongodoc.NewTemplateRepository(db, cfg.TemplateCollection)
	inspectionRepo := mongodoc.NewInspectionRepository(db, cfg.InspectionCollection)
	customerRepo := mongodoc.NewCustomerRepository(db, cfg.CustomerCollection)
	addressRepo := mongodoc.NewAddressRepository(db, cfg.AddressCollection)
	installationRepo := mongodoc.NewInstallationRepository(db, cfg.InstallationCollection)

	ids := checklist.UUIDGenerator{}
	clock := checklistapp.Clock(checklistapp.UTCClock)

	layout := report.DefaultLayout()
	if cfg.Location != nil {
		layout.Location = cfg.Location
	}
	renderer := report.NewPDFRenderer(layout, store, logger.Named("report"))

	srv.checklist = checklisthttp.NewHandler(checklisthttp.Config{
		Logger:      logger.Named("checklist"),
		Templates:   checklistapp.NewTemplateService(templateRepo, ids, clock),
		Inspections: checklistapp.NewInspectionService(
			inspectionRepo,
			templateRepo,
			directoryapp.NewInspectionRefs(customerRepo, addressRepo, installationRepo),
			ids,
			clock,
		),
		Attachments: checklistapp.NewAttachmentService(inspectionRepo, store, ids, clock, logger.Named("attachments")),
		Reports: checklistapp.NewReportService(
			inspectionRepo,
			directoryapp.NewReportHeaders(customerRepo, addressRepo, installationRepo),
			renderer,
			reportCache,
			logger.Named("report"),
		),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	srv.directory = directoryhttp.NewHandler(directoryhttp.Config{
		Logger:        logger.Named("directory"),
		Customers:     directoryapp.NewCustomerService(customerRepo, addressRepo, inspectionRepo, clock),
		Addresses:     directoryapp.NewAddressService(addressRepo, customerRepo, installationRepo, inspectionRepo, clock),
		Installations: directoryapp.NewInstallationService(installationRepo, addressRepo, inspectionRepo, clock),
	})

	return srv, nil
}

// Routes builds the router. Everything but /healthz requires a bearer token.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/auth/verify", s.verifyHandler())
		if s.checklist != nil {
			s.checklist.Register(r)
		}
		if s.directory != nil {
			s.directory.Register(r)
		}
	})
	return router
}

// Run serves HTTP until the listener fails or the process is signalled.
func (s *Server) Run() error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// withCORS adds CORS headers for allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// requestLogger logs one line per request after it has been served.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(started)),
				zap.String("requestId", middleware.GetReqID(r.Context())),
			}
			if status >= http.StatusInternalServerError {
				logger.Warn("request failed", fields...)
				return
			}
			logger.Info("request served", fields...)
		})
	}
}

// healthHandler reports infrastructure reachability only.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		cacheStatus := "disabled"
		if s.redis != nil {
			cacheStatus = "ok"
			if err := s.redis.Ping(ctx).Err(); err != nil {
				cacheStatus = "unavailable"
			}
		}

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			common.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
				"cache":  cacheStatus,
			})
			return
		}

		common.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"cache":  cacheStatus,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// shutdown disconnects the Mongo and Redis clients.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Warn("failed to disconnect MongoDB", zap.Error(err))
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("failed to close Redis client", zap.Error(err))
		}
	}
	_ = s.logger.Sync()
}

// waitForShutdown blocks until ListenAndServe returns or SIGINT/SIGTERM
// arrives, then drains the server and releases the clients.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warn("graceful shutdown failed", zap.Error(err))
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
