// Package httpapi exposes the user service over HTTP/JSON.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/net/netutil"

	"github.com/dmitrijs2005/propkeeper/internal/logging"
	"github.com/dmitrijs2005/propkeeper/internal/server/config"
	"github.com/dmitrijs2005/propkeeper/internal/server/models"
)

// userSvc is the subset of services.UserService used by the handlers.
type userSvc interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserProperties(ctx context.Context, id string) ([]models.Property, error)
	AddProperty(ctx context.Context, id string, p models.Property) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd *models.UserUpdate) (*models.UpdateResult, error)
	UpdatePropertyOwner(ctx context.Context, propertyID string, upd *models.OwnerUpdate) (*models.UpdateResult, error)
	UpdatePropertyData(ctx context.Context, propertyID string, p models.Property) (*models.UpdateResult, error)
	DeleteUser(ctx context.Context, id string) error
	DeleteProperty(ctx context.Context, propertyID string) error
}

type HTTPServer struct {
	address           string
	users             userSvc
	logger            logging.Logger
	validate          *validator.Validate
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
	connLimit         int
}

func NewHTTPServer(cfg *config.Config, l logging.Logger, us userSvc) *HTTPServer {
	return &HTTPServer{
		address:           cfg.EndpointAddrHTTP,
		users:             us,
		logger:            l.With("module", "http_server"),
		validate:          validator.New(validator.WithRequiredStructEnabled()),
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		shutdownTimeout:   cfg.ShutdownTimeout,
		connLimit:         cfg.ConnLimit,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully, waiting up
// to the configured shutdown timeout for in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	if s.connLimit > 0 {
		listen = netutil.LimitListener(listen, s.connLimit)
	}

	srv := &http.Server{
		Handler:           h2c.NewHandler(s.Handler(), &http2.Server{}),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listen)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
