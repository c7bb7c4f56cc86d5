package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Rakhulsr/go-storefront/app/configs"
	"github.com/Rakhulsr/go-storefront/app/repositories"
	"github.com/Rakhulsr/go-storefront/app/services"
	"github.com/Rakhulsr/go-storefront/app/utils/format"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// App wires the client-side storefront core for one CLI invocation.
type App struct {
	env     configs.ENV
	logger  *zap.SugaredLogger
	storage *configs.Storage
	out     io.Writer

	session *services.AuthSession
	cart    *services.CartStore
	orders  *services.OrderService
	auth    *services.AuthClient
	money   *format.MoneyFormatter
}

func loadBase() (configs.ENV, *zap.Logger, error) {
	env, err := configs.LoadEnv()
	if err != nil {
		return configs.ENV{}, nil, err
	}
	logger, err := configs.NewLogger(env.LogLevel)
	if err != nil {
		return configs.ENV{}, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return env, logger, nil
}

func bootstrap(ctx context.Context, out io.Writer) (*App, error) {
	env, base, err := loadBase()
	if err != nil {
		return nil, err
	}
	logger := base.Sugar()

	storage, err := configs.OpenStorage(ctx, env, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sessionRepo := repositories.NewSessionRepository(storage.Store)
	session := services.NewAuthSession(sessionRepo, logger)
	session.Restore(ctx)

	var jar http.CookieJar
	if sessionJar, err := services.NewSessionJar(ctx, env.APIBaseURL, sessionRepo, logger); err != nil {
		logger.Warnf("App.bootstrap: API cookies disabled: %v", err)
	} else {
		jar = sessionJar
	}
	httpClient := services.NewAPIHTTPClient(env.APIBaseURL, env.HTTPTimeout, session, jar)

	var remote services.CartAPIClient
	if env.RemoteSync {
		remote = services.NewHTTPCartAPIClient(env.APIBaseURL, httpClient, logger)
	}
	cart := services.NewCartStore(repositories.NewCartRepository(storage.Store), remote, logger)
	cart.Restore(ctx)

	orders := services.NewOrderService(repositories.NewOrderRepository(storage.Store), session, logger)
	orders.Restore(ctx)

	return &App{
		env:     env,
		logger:  logger,
		storage: storage,
		out:     out,
		session: session,
		cart:    cart,
		orders:  orders,
		auth:    services.NewAuthClient(env.APIBaseURL, httpClient, session, logger),
		money:   format.NewMoneyFormatter(env.CurrencySymbol),
	}, nil
}

// Close flushes the pending remote cart push before releasing storage.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.cart.Close(ctx); err != nil {
		a.logger.Warnf("App.Close: remote cart flush incomplete: %v", err)
	}
	a.orders.Close()
	a.session.Close()
	if err := a.storage.Close(); err != nil {
		a.logger.Warnf("App.Close: failed to close storage: %v", err)
	}
	_ = a.logger.Sync()
}

func withApp(ctx context.Context, out io.Writer, fn func(*App) error) error {
	app, err := bootstrap(ctx, out)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}
