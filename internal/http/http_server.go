package http

// ops endpoints of the judge worker: health, readiness and worker status

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/ticket-raiser/judge/internal/core/ports/primary"
	"gitlab.com/ticket-raiser/judge/internal/core/services/worker"
	"gitlab.com/ticket-raiser/judge/internal/handlers"
	"gitlab.com/ticket-raiser/judge/internal/handlers/health"
	"gitlab.com/ticket-raiser/judge/internal/handlers/workers"
)

type ServiceProvider struct {
	workerService worker.IWorkerStatusService
	readiness     map[string]health.Checker
}

func NewServiceProvider(
	workerService worker.IWorkerStatusService,
	readiness map[string]health.Checker,
) *ServiceProvider {
	return &ServiceProvider{
		workerService: workerService,
		readiness:     readiness,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.workerService == nil {
		return errors.New("worker service is required")
	}
	r := mux.NewRouter()
	r.Use(handlers.LoggingMiddleware(s.logger))
	health.NewHandler(s.ServiceProvider.readiness).Register(r)
	workers.NewHandler(s.ServiceProvider.workerService).Register(r)
	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	if s.srv == nil {
		return
	}
	s.logger.Info("Shutting down http server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
	}
}
