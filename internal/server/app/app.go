// Package app wires configuration, storage, blob store and HTTP routes
// into a runnable audio upload service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/g0c0de0rd1e/audiomagister/internal/crypto"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/auth"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/config"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/filestore"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/metrics"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/middleware"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

// Deps are the already constructed backends the server runs on
type Deps struct {
	Store   storage.Storage
	Blobs   filestore.Store
	Hasher  crypto.PasswordHasher
	Metrics *metrics.Metrics
	// Now overrides the clock for token issuing and verification
	Now func() time.Time
}

// Server owns the HTTP server and the resources it was built from
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   storage.Storage
	blobs   filestore.Store
	metrics *metrics.Metrics
	limiter *middleware.RateLimiter
	service *auth.Service
	now     func() time.Time
	version string
}

// New assembles a Server from cfg and deps. It does not start listening.
func New(cfg *config.Config, logger *slog.Logger, deps Deps, version string) *Server {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	issuer := auth.NewTokenIssuer([]byte(cfg.SecretKey), now).WithDefaultTTL(cfg.TokenTTL)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		store:   deps.Store,
		blobs:   deps.Blobs,
		metrics: m,
		service: auth.NewService(deps.Store, deps.Hasher, issuer, cfg.LoginTokenTTL),
		now:     now,
		version: version,
	}

	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow, logger)
	}

	return s
}

// Open builds every backend named by cfg and returns a ready Server
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	hasher, err := crypto.NewPasswordHasher(cfg.PasswordAlgorithm, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	blobs, err := openBlobs(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "backends ready",
		slog.String("storage", cfg.Driver()),
		slog.String("blobs", cfg.BlobBackend),
		slog.String("password_hash", cfg.PasswordAlgorithm))

	return New(cfg, logger, Deps{
		Store:  store,
		Blobs:  blobs,
		Hasher: hasher,
	}, version), nil
}

// Run serves HTTP on cfg.Address until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	s.logger.InfoContext(ctx, "server started", slog.String("address", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			s.logger.Error("server failed", slog.Any("error", err))
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Close releases the rate limiter and storage
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
