// Package server initializes and runs the diary application server.
// It wires the key-value store, repositories, services and the HTTP
// endpoint, and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fbedev/diary-ai2/internal/kvstore"
	"github.com/fbedev/diary-ai2/internal/logging"
	"github.com/fbedev/diary-ai2/internal/server/config"
	"github.com/fbedev/diary-ai2/internal/server/httpapi"
	"github.com/fbedev/diary-ai2/internal/server/repositories/messages"
	"github.com/fbedev/diary-ai2/internal/server/repositories/sessions"
	"github.com/fbedev/diary-ai2/internal/server/repositories/summaries"
	"github.com/fbedev/diary-ai2/internal/server/repositories/users"
	"github.com/fbedev/diary-ai2/internal/server/services"
	"github.com/fbedev/diary-ai2/internal/textgen"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *kvstore.RedisStore
	handler http.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := kvstore.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}

	generator, err := textgen.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelName, cfg.GenerationTimeout)
	if err != nil {
		return nil, fmt.Errorf("error initializing text generator: %w", err)
	}

	userRepo := users.NewKVRepository(store)
	sessionRepo := sessions.NewKVRepository(store)
	messageRepo := messages.NewKVRepository(store, logger)
	summaryRepo := summaries.NewKVRepository(store, logger)

	auth := services.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL, logger)
	diary := services.NewDiaryService(messageRepo, summaryRepo, generator, logger)
	search := services.NewSearchService(messageRepo, summaryRepo, generator, logger)
	admin := services.NewAdminService(userRepo, sessionRepo, messageRepo)

	handler := httpapi.NewHandler(auth, diary, search, admin, logger)

	return &App{config: cfg, logger: logger, store: store, handler: handler}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.handler,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "error shutting down http server", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "error closing store", "error", err.Error())
	}
}
