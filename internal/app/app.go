package app

import (
	"context"
	"net/http"

	"github.com/authkeep/otpvault/internal/pkg/clock"
	"github.com/authkeep/otpvault/internal/pkg/config"
	"github.com/authkeep/otpvault/internal/pkg/goroutine"
	"github.com/authkeep/otpvault/internal/pkg/idempotency"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/jwt"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/authkeep/otpvault/internal/pkg/otp"
	"github.com/authkeep/otpvault/internal/pkg/router"
	"github.com/authkeep/otpvault/internal/pkg/uid"
	"github.com/authkeep/otpvault/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
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
	uid       uid.NumberID
	uuid      uid.StringID
	otp       otp.Validator
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
