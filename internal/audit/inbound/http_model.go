package inbound

import (
	"time"

	"github.com/authkeep/otpvault/internal/pkg/valueobject"
)

type AuditEntryResponse struct {
	ID         int64               `json:"id,string"`
	Action     string              `json:"action"`
	TokenID    string              `json:"token_id"`
	Actor      string              `json:"actor,omitempty"`
	Metadata   valueobject.JSONMap `json:"metadata,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

type AuditListResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
	Total   int64                `json:"total"`
}
