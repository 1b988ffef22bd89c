package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	chimw "github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/drstein77/inventory/internal/config"
	"github.com/drstein77/inventory/internal/controllers"
	"github.com/drstein77/inventory/internal/dbkeeper"
	"github.com/drstein77/inventory/internal/logger"
	"github.com/drstein77/inventory/internal/middleware"
	"github.com/drstein77/inventory/internal/report"
	"github.com/drstein77/inventory/internal/seed"
	"github.com/drstein77/inventory/internal/storage"
)

// Server runs the HTTP API until Shutdown.
type Server struct {
	mx      sync.Mutex
	closed  bool
	srv     *http.Server
	ctx     context.Context
	options *config.Options
	storage *storage.MemoryStorage

	Log *logger.Logger
}

// NewServer creates a new Server instance with the provided context
func NewServer(ctx context.Context, options *config.Options) (*Server, error) {
	nLogger, err := logger.NewLogger(options.LogLevel())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &Server{
		ctx:     ctx,
		options: options,
		Log:     nLogger,
	}, nil
}

// Serve loads the catalog, connects the database when a DSN is configured and
// blocks serving HTTP until Shutdown is called.
func (server *Server) Serve() error {
	items, err := seed.Load(server.options.SeedPath())
	if err != nil {
		return err
	}

	var keeper storage.Keeper
	if dsn := server.options.DataBaseDSN(); dsn != "" {
		kp, err := dbkeeper.NewDBKeeper(server.ctx, dsn, server.options.MigrationsPath(), server.Log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		keeper = kp
	} else {
		server.Log.Info("No database configured, catalog is kept in memory only")
	}

	st, err := storage.NewMemoryStorage(server.ctx, items, keeper, server.Log)
	if err != nil {
		if keeper != nil {
			keeper.Close()
		}
		return err
	}

	basecontr := controllers.NewBaseController(st, server.Log)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(server.Log))
	r.Mount("/", basecontr.Route())

	srv := &http.Server{
		Addr:              server.options.RunAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	server.mx.Lock()
	if server.closed {
		server.mx.Unlock()
		st.Close()
		return nil
	}
	server.srv = srv
	server.storage = st
	server.mx.Unlock()

	server.Log.Info("Running server", zap.String("address", server.options.RunAddr()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits up to timeout for in-flight ones
// and closes the database pool.
func (server *Server) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	server.mx.Lock()
	server.closed = true
	srv, st := server.srv, server.storage
	server.mx.Unlock()

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			server.Log.Error("Server shutdown error", zap.Error(err))
		} else {
			server.Log.Info("Server stopped gracefully")
		}
	}
	if st != nil {
		st.Close()
	}
	_ = server.Log.Sync()
}

// RunDemo loads the catalog and prints the walkthrough to w.
func RunDemo(w io.Writer, options *config.Options, reportOptions report.Options) error {
	nLogger, err := logger.NewLogger(options.LogLevel())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer nLogger.Sync()

	items, err := seed.Load(options.SeedPath())
	if err != nil {
		nLogger.Error("Failed to load catalog", zap.Error(err))
		return err
	}
	nLogger.Debug("Catalog loaded", zap.Int("count", items.Len()), zap.String("seed", options.SeedPath()))

	if err := report.Run(w, items, reportOptions); err != nil {
		nLogger.Error("Report failed", zap.Error(err))
		return err
	}
	return nil
}
