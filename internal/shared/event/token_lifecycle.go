package event

// Destinations for token lifecycle events.
const (
	TokenCreatedDestination = "otpvault.token.created"
	TokenUpdatedDestination = "otpvault.token.updated"
	TokenDeletedDestination = "otpvault.token.deleted"
)

// Consumer names of the audit module.
const (
	TokenCreatedConsumerAudit = "audit-token-created"
	TokenUpdatedConsumerAudit = "audit-token-updated"
	TokenDeletedConsumerAudit = "audit-token-deleted"
)

// TokenCreatedMessage is published after a token record is created.
// It never carries key material.
type TokenCreatedMessage struct {
	TokenID string `json:"token_id"`
	Type    string `json:"type,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Actor   string `json:"actor"`
}

// TokenUpdatedMessage is published after a token record is modified.
type TokenUpdatedMessage struct {
	TokenID string   `json:"token_id"`
	Fields  []string `json:"fields,omitempty"`
	Actor   string   `json:"actor"`
}

// TokenDeletedMessage is published after a token record is deleted.
type TokenDeletedMessage struct {
	TokenID string `json:"token_id"`
	Actor   string `json:"actor"`
}
