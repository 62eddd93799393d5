package inbound

import (
	"context"

	"github.com/authkeep/otpvault/internal/audit/usecase"
)

type uc interface {
	Record(ctx context.Context, in usecase.RecordInput) error
	AuditList(ctx context.Context, in usecase.AuditListInput) (*usecase.AuditListOutput, error)
}
