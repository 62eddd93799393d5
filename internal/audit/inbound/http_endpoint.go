package inbound

import (
	"github.com/authkeep/otpvault/internal/audit/usecase"
	"github.com/authkeep/otpvault/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the audit trail.
type HTTPEndpoint struct {
	uc uc
}

// AuditList returns a page of token lifecycle audit entries.
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Param token_id query string false "Narrow to one token"
// @Param actor query string false "Narrow to one actor"
// @Param action query string false "Narrow to one action (created, updated, deleted)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page start"
// @Success 200 {object} router.successResponse{data=AuditListResponse} "Audit entries"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/audit [get]
func (h *HTTPEndpoint) AuditList(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.AuditList(r.Context(), usecase.AuditListInput{
		TokenID: r.GetQuery("token_id"),
		Actor:   r.GetQuery("actor"),
		Action:  r.GetQuery("action"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]AuditEntryResponse, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		entries = append(entries, AuditEntryResponse{
			ID:         e.ID,
			Action:     e.Action.String(),
			TokenID:    e.TokenID,
			Actor:      e.Actor,
			Metadata:   e.Metadata,
			OccurredAt: e.OccurredAt,
		})
	}

	return AuditListResponse{Entries: entries, Total: resp.Total}, nil
}
