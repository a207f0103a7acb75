package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/casbin/casbin/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/quickcart/internal/pkg/clock"
	"github.com/shandysiswandi/quickcart/internal/pkg/config"
	"github.com/shandysiswandi/quickcart/internal/pkg/goroutine"
	"github.com/shandysiswandi/quickcart/internal/pkg/hash"
	"github.com/shandysiswandi/quickcart/internal/pkg/idempotency"
	"github.com/shandysiswandi/quickcart/internal/pkg/instrument"
	"github.com/shandysiswandi/quickcart/internal/pkg/jwt"
	"github.com/shandysiswandi/quickcart/internal/pkg/mail"
	"github.com/shandysiswandi/quickcart/internal/pkg/messaging"
	"github.com/shandysiswandi/quickcart/internal/pkg/otp"
	"github.com/shandysiswandi/quickcart/internal/pkg/ratelimit"
	"github.com/shandysiswandi/quickcart/internal/pkg/router"
	"github.com/shandysiswandi/quickcart/internal/pkg/storage"
	"github.com/shandysiswandi/quickcart/internal/pkg/uid"
	"github.com/shandysiswandi/quickcart/internal/pkg/validator"
)

// App owns every long-lived dependency and the HTTP server.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	argon2id  hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otp       otp.Generator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	limiter   ratelimit.Limiter
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage
	casbin    *casbin.Enforcer

	// server
	router     *router.Router
	httpServer *http.Server
	draining   atomic.Bool

	closers []closer
}

// closer releases a resource on shutdown. Closers run in reverse order of
// registration.
type closer struct {
	name string
	fn   func(context.Context) error
}

func (a *App) onClose(name string, fn func(context.Context) error) {
	a.closers = append(a.closers, closer{name: name, fn: fn})
}

// New builds the application. Any failure here is fatal.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{ctx: ctx, cancel: cancel}

	steps := []func(){
		app.initConfig,
		app.initInstrument,
		app.initLibraries,
		app.initJWT,
		app.initDatabase,
		app.initCache,
		app.initMail,
		app.initStorage,
		app.initMessaging,
		app.initCasbin,
		app.initHTTPServer,
		app.initModules,
	}
	for _, step := range steps {
		step()
	}

	return app
}

// fatal logs and exits; only used while wiring.
func fatal(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	os.Exit(1)
}
