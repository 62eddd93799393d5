package audit

import (
	"context"

	"github.com/authkeep/otpvault/internal/audit/inbound"
	"github.com/authkeep/otpvault/internal/audit/outbound/db"
	"github.com/authkeep/otpvault/internal/audit/usecase"
	"github.com/authkeep/otpvault/internal/pkg/clock"
	"github.com/authkeep/otpvault/internal/pkg/config"
	"github.com/authkeep/otpvault/internal/pkg/goroutine"
	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/pkg/messaging"
	"github.com/authkeep/otpvault/internal/pkg/router"
	"github.com/authkeep/otpvault/internal/pkg/uid"
	"github.com/authkeep/otpvault/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
}

func New(dep Dependency) error {
	dbAudit := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbAudit,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
