package entity

import (
	"time"

	"github.com/authkeep/otpvault/internal/pkg/valueobject"
)

// Entry is one audit trail record of a token lifecycle event.
type Entry struct {
	ID         int64
	Action     Action
	TokenID    string
	Actor      string
	Metadata   valueobject.JSONMap
	OccurredAt time.Time
}

// ListFilter narrows an audit listing.
type ListFilter struct {
	TokenID string
	Actor   string
	Action  Action
	Limit   int32
	Offset  int32
}
