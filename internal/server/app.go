// Package server wires the users service together and runs it: it builds
// the logger and the configured store, serves the HTTP API, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/config"
	"github.com/dmitrijs2005/propkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/propkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/propkeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repoManager repomanager.RepositoryManager
	httpServer  *httpapi.HTTPServer
}

// NewApp builds all components from c. The store connection is opened here
// and released when Run returns.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, out)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := repomanager.NewRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := services.NewUserService(rm.Users(), logger)
	hs := httpapi.NewHTTPServer(c, logger, us)

	return &App{config: c, logger: logger, repoManager: rm, httpServer: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage)

	app.initSignalHandler(cancelFunc)

	runErr := app.httpServer.Run(ctx)
	if runErr != nil {
		app.logger.Error(ctx, "http server error", "error", runErr)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.repoManager.Close(closeCtx); err != nil {
		app.logger.Error(closeCtx, "store close error", "error", err)
	}

	app.logger.Info(closeCtx, "App stopped")
	return runErr
}
