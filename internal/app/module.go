package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/authkeep/otpvault/internal/audit"
	"github.com/authkeep/otpvault/internal/token"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.token.enabled") {
		if err := token.New(token.Dependency{
			DBConn:      a.dbConn,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			OTP:         a.otp,
			Clock:       a.clock,
			Validator:   a.validator,
			Router:      a.router,
			HTTPClient: &http.Client{
				Timeout: a.config.GetSecond("modules.token.sync_timeout_seconds"),
			},
		}); err != nil {
			slog.Error("failed to init module token", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.audit.enabled") {
		if err := audit.New(audit.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
		}); err != nil {
			slog.Error("failed to init module audit", "error", err)
			os.Exit(1)
		}
	}
}
