package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/grouplet/grouplet/config"
	"github.com/grouplet/grouplet/queue/scheduler"
)

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	scheduler      *scheduler.Scheduler
	logger         *slog.Logger
}

func NewServer(configProvider *config.Provider, handler http.Handler, scheduler *scheduler.Scheduler, logger *slog.Logger) *Server {
	return &Server{
		configProvider: configProvider,
		handler:        handler,
		scheduler:      scheduler,
		logger:         logger,
	}
}

// Run starts the HTTP server and the job scheduler and blocks until a
// shutdown signal arrives or the server fails. Both subsystems get the same
// graceful shutdown window.
func (s *Server) Run() {
	cfg := s.configProvider.Get().Server

	s.logger.Info("server configuration",
		"addr", cfg.Addr,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	s.scheduler.Start()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)

	select {
	case <-ctx.Done():
		s.logger.Info("received shutdown signal, shutting down gracefully")
	case err := <-serverError:
		s.logger.Error("server error, initiating shutdown", "error", err)
	}

	stop()

	gracefulCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownGracefulTimeout.Duration)
	defer cancelShutdown()

	shutdownGroup, _ := errgroup.WithContext(gracefulCtx)

	shutdownGroup.Go(func() error {
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
			return err
		}
		s.logger.Info("http server stopped gracefully")
		return nil
	})

	shutdownGroup.Go(func() error {
		if err := s.scheduler.Stop(gracefulCtx); err != nil {
			s.logger.Error("scheduler shutdown error", "error", err)
			return err
		}
		s.logger.Info("scheduler stopped gracefully")
		return nil
	})

	if err := shutdownGroup.Wait(); err != nil {
		s.logger.Error("error during shutdown", "error", err)
		os.Exit(1)
	}

	s.logger.Info("all systems stopped gracefully")
}
