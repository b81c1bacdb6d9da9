package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nosql-repository-backend/dal"
	"nosql-repository-backend/middelware"
	"nosql-repository-backend/models"
	"nosql-repository-backend/repository"
	"nosql-repository-backend/services"
	"nosql-repository-backend/utils/logger"
	"nosql-repository-backend/utils/metrics"
	"nosql-repository-backend/worker"

	"github.com/gin-gonic/gin"
)

const metricsNamespace = "nosql_repository"

// Server owns the application graph: store client, repositories, the table
// worker and the HTTP engine
type Server struct {
	config *models.Config
	logger logger.Logger
	worker *worker.Worker
	engine *gin.Engine
}

// NewServer wires the application from configuration and starts the table worker
func NewServer(cfg *models.Config, log logger.Logger) (*Server, error) {
	dbClient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize DynamoDB client: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.NewMetrics(metricsNamespace)
	}

	repos, err := repository.NewRepository(dbClient, cfg, log, m)
	if err != nil {
		return nil, fmt.Errorf("failed to register repositories: %w", err)
	}

	infraWorker, err := worker.NewWorker(cfg, dbClient, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create infrastructure worker: %w", err)
	}
	if err := infraWorker.Start(); err != nil {
		return nil, fmt.Errorf("failed to start infrastructure worker: %w", err)
	}

	svc := services.NewService(repos, infraWorker, log)

	logging := middelware.NewLoggingMiddleware(log, m)
	cors := middelware.NewCORSMiddleware(cfg)

	engine := gin.New()
	engine.Use(logging.Recovery(), logging.StructuredLogger(), cors.CORS())
	NewController(cfg, svc, m, log).RegisterRoutes(engine, cfg.BasePath)

	return &Server{
		config: cfg,
		logger: log,
		worker: infraWorker,
		engine: engine,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	srv := &http.Server{
		Addr:    s.config.AppHost + ":" + s.config.AppPort,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("🚀 Starting server on %s:%s", s.config.AppHost, s.config.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close stops the table worker
func (s *Server) Close() {
	s.worker.Stop()
}
