package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/RoshaThankachan/EcoWaste/config"
	"github.com/RoshaThankachan/EcoWaste/internal/handlers"
	"github.com/RoshaThankachan/EcoWaste/internal/kv"
	"github.com/RoshaThankachan/EcoWaste/internal/mq"
	"github.com/RoshaThankachan/EcoWaste/internal/services"
	"github.com/RoshaThankachan/EcoWaste/internal/storage"
	"github.com/RoshaThankachan/EcoWaste/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	kv         kv.Store
	broker     *mq.MQ
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	kvStore, err := kv.Open(ctx, cfg.KV)
	if err != nil {
		return nil, err
	}

	broker, err := openBroker(ctx, cfg.MQ)
	if err != nil {
		_ = kvStore.Close()
		return nil, err
	}

	photos, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		_ = kvStore.Close()
		closeBroker(broker)
		return nil, err
	}

	userRepo := store.NewUserRepository(kvStore)
	sessionRepo := store.NewSessionRepository(kvStore)
	complaintRepo := store.NewComplaintRepository(kvStore)
	scheduleRepo := store.NewScheduleRepository(kvStore)

	var events services.Publisher = services.NopPublisher{}
	if broker != nil {
		events = broker
	}

	authService := services.NewAuthService(userRepo, sessionRepo)
	gamificationService := services.NewGamificationService(userRepo, sessionRepo, events)
	complaintService := services.NewComplaintService(complaintRepo, gamificationService, events)
	scheduleService := services.NewScheduleService(scheduleRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = kvStore.Close()
		closeBroker(broker)
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)
	optionalAuth := handlers.OptionalAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, authService, jwtSecret)
	})
	router.Route("/complaints", func(r chi.Router) {
		handlers.ComplaintRouter(r, complaintService, authService, photos, authMiddleware, optionalAuth)
	})
	router.Route("/schedule", func(r chi.Router) {
		handlers.ScheduleRouter(r, scheduleService)
	})
	router.Route("/leaderboard", func(r chi.Router) {
		handlers.LeaderboardRouter(r, gamificationService)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, gamificationService, authService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		kv:         kvStore,
		broker:     broker,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.kv != nil {
		_ = s.kv.Close()
	}
	closeBroker(s.broker)
	return s.httpServer.Close()
}

func openBroker(ctx context.Context, cfg config.MQConfig) (*mq.MQ, error) {
	switch cfg.Backend {
	case config.MQBackendRabbitMQ:
		backend, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case config.MQBackendPubSub:
		backend, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(backend), nil
	case config.MQBackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}

func closeBroker(broker *mq.MQ) {
	if broker != nil {
		_ = broker.Close()
	}
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	var backend storage.ObjectStorage
	switch cfg.Backend {
	case config.StorageBackendMinio:
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case config.StorageBackendGCS:
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	case config.StorageBackendNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	wrapped := storage.NewStorage(backend)
	if err := wrapped.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return wrapped, nil
}
