package inbound

import (
	"time"

	"github.com/authkeep/otpvault/internal/token/usecase"
)

type TokenCreateRequest struct {
	ID   string `json:"id,omitempty"`
	Type string `json:"type"`

	Secret        string `json:"secret,omitempty"`
	SecretConfirm string `json:"secret_confirm,omitempty"`

	Algorithm string `json:"algorithm,omitempty"`
	Digits    int    `json:"digits,omitempty"`

	Owner    string `json:"owner,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`

	NotBefore *time.Time `json:"not_before,omitempty"`
	NotAfter  *time.Time `json:"not_after,omitempty"`

	Description string `json:"description,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Model       string `json:"model,omitempty"`
	Serial      string `json:"serial,omitempty"`

	ClockOffset *int `json:"clock_offset,omitempty"`
	TimeStep    *int `json:"time_step,omitempty"`
	Counter     *int `json:"counter,omitempty"`
}

type TokenUpdateRequest struct {
	Owner    *string `json:"owner,omitempty"`
	Disabled *bool   `json:"disabled,omitempty"`

	NotBefore *time.Time `json:"not_before,omitempty"`
	NotAfter  *time.Time `json:"not_after,omitempty"`

	Description *string `json:"description,omitempty"`
	Vendor      *string `json:"vendor,omitempty"`
	Model       *string `json:"model,omitempty"`
	Serial      *string `json:"serial,omitempty"`
}

type TokenResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type,omitempty"`
	Algorithm string `json:"algorithm"`
	Digits    int    `json:"digits"`

	ClockOffset *int `json:"clock_offset,omitempty"`
	TimeStep    *int `json:"time_step,omitempty"`
	Counter     *int `json:"counter,omitempty"`

	Owner     string `json:"owner,omitempty"`
	ManagedBy string `json:"managed_by,omitempty"`
	Disabled  bool   `json:"disabled"`

	NotBefore *time.Time `json:"not_before,omitempty"`
	NotAfter  *time.Time `json:"not_after,omitempty"`

	Description string `json:"description,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Model       string `json:"model,omitempty"`
	Serial      string `json:"serial,omitempty"`

	Classes []string `json:"classes,omitempty"`
}

type TokenCreateResponse struct {
	TokenResponse
	URI string `json:"uri"`
}

type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
}

type TokenSyncRequest struct {
	User       string `json:"user"`
	Password   string `json:"password"`
	FirstCode  string `json:"first_code"`
	SecondCode string `json:"second_code"`
	Token      string `json:"token,omitempty"`
}

type TokenSyncResponse struct{}

func (TokenSyncResponse) Message() string {
	return "Token synchronized."
}

type TokenVerifyRequest struct {
	Code string `json:"code"`
}

type TokenVerifyResponse struct {
	Verified bool `json:"verified"`
}

type ManagerAddRequest struct {
	User string `json:"user"`
}

func toTokenResponse(t usecase.TokenOutput) TokenResponse {
	return TokenResponse{
		ID:          t.ID,
		Type:        t.Type,
		Algorithm:   t.Algorithm,
		Digits:      t.Digits,
		ClockOffset: t.ClockOffset,
		TimeStep:    t.TimeStep,
		Counter:     t.Counter,
		Owner:       t.Owner,
		ManagedBy:   t.ManagedBy,
		Disabled:    t.Disabled,
		NotBefore:   t.NotBefore,
		NotAfter:    t.NotAfter,
		Description: t.Description,
		Vendor:      t.Vendor,
		Model:       t.Model,
		Serial:      t.Serial,
		Classes:     t.Classes,
	}
}
