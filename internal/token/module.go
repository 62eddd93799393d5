package token

import (
	"net/http"

	"github.com/authkeep/otpvault/internal/pkg/clock"
	"github.com/authkeep/otpvault/internal/pkg/config"
	"github.com/authkeep/otpvault/internal/pkg/idempotency"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/authkeep/otpvault/internal/pkg/otp"
	"github.com/authkeep/otpvault/internal/pkg/router"
	"github.com/authkeep/otpvault/internal/pkg/uid"
	"github.com/authkeep/otpvault/internal/pkg/validator"
	"github.com/authkeep/otpvault/internal/token/inbound"
	"github.com/authkeep/otpvault/internal/token/outbound/db"
	"github.com/authkeep/otpvault/internal/token/outbound/mq"
	"github.com/authkeep/otpvault/internal/token/outbound/syncgw"
	"github.com/authkeep/otpvault/internal/token/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	DBConn      *pgxpool.Pool
	Messaging   messaging.Messaging
	Idempotency idempotency.Idempotency
	Config      config.Config
	Instrument  instrument.Instrumentation
	UUID        uid.StringID
	OTP         otp.Validator
	Clock       clock.Clocker
	Validator   validator.Validator
	Router      *router.Router
	HTTPClient  *http.Client
}

func New(dep Dependency) error {
	dbToken := db.NewDB(dep.DBConn, dep.Instrument)
	repoMQ := mq.NewMessaging(dep.Messaging, dep.Instrument)
	gateway := syncgw.NewGateway(dep.HTTPClient, dep.Config.GetString("modules.token.sync_endpoint"), dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbToken,
		RepoMessaging: repoMQ,
		SyncGateway:   gateway,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		UUID:          dep.UUID,
		OTP:           dep.OTP,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
