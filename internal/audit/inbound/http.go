package inbound

import (
	"github.com/authkeep/otpvault/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/audit", end.AuditList)
}
