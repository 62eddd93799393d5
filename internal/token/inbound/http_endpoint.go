package inbound

import (
	"github.com/authkeep/otpvault/internal/pkg/router"
	"github.com/authkeep/otpvault/internal/token/usecase"
)

// HTTPEndpoint exposes HTTP handlers for token lifecycle workflows.
type HTTPEndpoint struct {
	uc uc
}

// TokenCreate registers a new OTP token.
// @Summary Create OTP token
// @Description Creates a token record and returns it with its otpauth enrollment URI. The secret appears only in the URI.
// @Tags Tokens
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Deduplicates retried submissions"
// @Param request body TokenCreateRequest true "Token payload"
// @Success 200 {object} router.successResponse{data=TokenCreateResponse} "Created token"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Owner not found"
// @Failure 409 {object} router.errorResponse "Token id already exists"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens [post]
func (h *HTTPEndpoint) TokenCreate(r *router.Request) (any, error) {
	var req TokenCreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TokenCreate(r.Context(), usecase.TokenCreateInput{
		ID:             req.ID,
		Type:           req.Type,
		Secret:         req.Secret,
		SecretConfirm:  req.SecretConfirm,
		Algorithm:      req.Algorithm,
		Digits:         req.Digits,
		Owner:          req.Owner,
		Disabled:       req.Disabled,
		NotBefore:      req.NotBefore,
		NotAfter:       req.NotAfter,
		Description:    req.Description,
		Vendor:         req.Vendor,
		Model:          req.Model,
		Serial:         req.Serial,
		ClockOffset:    req.ClockOffset,
		TimeStep:       req.TimeStep,
		Counter:        req.Counter,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
		All:            r.GetQuery("all") == "true",
		Raw:            r.GetQuery("raw") == "true",
	})
	if err != nil {
		return nil, err
	}

	return TokenCreateResponse{
		TokenResponse: toTokenResponse(resp.Token),
		URI:           resp.URI,
	}, nil
}

// TokenDetail returns one token record.
// @Summary Show OTP token
// @Tags Tokens
// @Produce json
// @Param id path string true "Token id"
// @Success 200 {object} router.successResponse{data=TokenResponse} "Token"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens/{id} [get]
func (h *HTTPEndpoint) TokenDetail(r *router.Request) (any, error) {
	resp, err := h.uc.TokenDetail(r.Context(), usecase.TokenDetailInput{
		ID:  r.GetParam("id"),
		All: r.GetQuery("all") == "true",
		Raw: r.GetQuery("raw") == "true",
	})
	if err != nil {
		return nil, err
	}

	return toTokenResponse(resp.Token), nil
}

// TokenUpdate modifies the mutable fields of a token record.
// @Summary Modify OTP token
// @Tags Tokens
// @Accept json
// @Produce json
// @Param id path string true "Token id"
// @Param request body TokenUpdateRequest true "Fields to update"
// @Success 200 {object} router.successResponse{data=TokenResponse} "Updated token"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 403 {object} router.errorResponse "Caller does not own or manage the token"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens/{id} [patch]
func (h *HTTPEndpoint) TokenUpdate(r *router.Request) (any, error) {
	var req TokenUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TokenUpdate(r.Context(), usecase.TokenUpdateInput{
		ID:          r.GetParam("id"),
		Owner:       req.Owner,
		Disabled:    req.Disabled,
		NotBefore:   req.NotBefore,
		NotAfter:    req.NotAfter,
		Description: req.Description,
		Vendor:      req.Vendor,
		Model:       req.Model,
		Serial:      req.Serial,
		All:         r.GetQuery("all") == "true",
		Raw:         r.GetQuery("raw") == "true",
	})
	if err != nil {
		return nil, err
	}

	return toTokenResponse(resp.Token), nil
}

// TokenDelete removes a token record.
// @Summary Delete OTP token
// @Tags Tokens
// @Param id path string true "Token id"
// @Success 204 "No Content"
// @Failure 403 {object} router.errorResponse "Caller does not own or manage the token"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens/{id} [delete]
func (h *HTTPEndpoint) TokenDelete(r *router.Request) (any, error) {
	err := h.uc.TokenDelete(r.Context(), usecase.TokenDeleteInput{ID: r.GetParam("id")})

	return nil, err
}

// TokenList searches token records.
// @Summary List OTP tokens
// @Tags Tokens
// @Produce json
// @Param type query string false "Narrow to one token family (totp, hotp)"
// @Param owner query string false "Narrow to tokens owned by one user"
// @Param disabled query string false "Narrow on the disabled flag (true, false)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page start"
// @Success 200 {object} router.successResponse{data=TokenListResponse} "Tokens"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens [get]
func (h *HTTPEndpoint) TokenList(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt32("offset")
	if err != nil {
		return nil, err
	}

	in := usecase.TokenListInput{
		Type:   r.GetQuery("type"),
		Owner:  r.GetQuery("owner"),
		Limit:  limit,
		Offset: offset,
		All:    r.GetQuery("all") == "true",
		Raw:    r.GetQuery("raw") == "true",
	}

	switch r.GetQuery("disabled") {
	case "true":
		v := true
		in.Disabled = &v
	case "false":
		v := false
		in.Disabled = &v
	}

	resp, err := h.uc.TokenList(r.Context(), in)
	if err != nil {
		return nil, err
	}

	tokens := make([]TokenResponse, 0, len(resp.Tokens))
	for _, t := range resp.Tokens {
		tokens = append(tokens, toTokenResponse(t))
	}

	return TokenListResponse{Tokens: tokens}, nil
}

// TokenSync forwards a resynchronization request to the remote sync endpoint.
// @Summary Synchronize OTP token
// @Description Sends user credentials and two consecutive codes to the sync endpoint so it can recompute the token's drift.
// @Tags Tokens
// @Accept json
// @Success 200 {object} router.successResponse "Synchronized"
// @Failure 401 {object} router.errorResponse "Invalid credentials"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens-sync [post]
func (h *HTTPEndpoint) TokenSync(r *router.Request) (any, error) {
	var req TokenSyncRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.TokenSync(r.Context(), usecase.TokenSyncInput{
		User:       req.User,
		Password:   req.Password,
		FirstCode:  req.FirstCode,
		SecondCode: req.SecondCode,
		Token:      req.Token,
	}); err != nil {
		return nil, err
	}

	return TokenSyncResponse{}, nil
}

// TokenVerify checks a live code against the token's key material.
// @Summary Verify OTP code
// @Tags Tokens
// @Accept json
// @Produce json
// @Param id path string true "Token id"
// @Param request body TokenVerifyRequest true "Code payload"
// @Success 200 {object} router.successResponse{data=TokenVerifyResponse} "Verification result"
// @Failure 403 {object} router.errorResponse "Caller unauthorized, token disabled, or outside validity"
// @Failure 404 {object} router.errorResponse "Token not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens/{id}/verify [post]
func (h *HTTPEndpoint) TokenVerify(r *router.Request) (any, error) {
	var req TokenVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.TokenVerify(r.Context(), usecase.TokenVerifyInput{
		ID:   r.GetParam("id"),
		Code: req.Code,
	})
	if err != nil {
		return nil, err
	}

	return TokenVerifyResponse{Verified: resp.Verified}, nil
}

// ManagerAdd assigns a user as the token's manager.
// @Summary Add token manager
// @Tags Tokens
// @Accept json
// @Param id path string true "Token id"
// @Param request body ManagerAddRequest true "Manager payload"
// @Success 204 "No Content"
// @Failure 403 {object} router.errorResponse "Caller does not own or manage the token"
// @Failure 404 {object} router.errorResponse "Token or user not found"
// @Failure 409 {object} router.errorResponse "User already manages this token"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens/{id}/managers [post]
func (h *HTTPEndpoint) ManagerAdd(r *router.Request) (any, error) {
	var req ManagerAddRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	err := h.uc.ManagerAdd(r.Context(), usecase.ManagerAddInput{
		TokenID: r.GetParam("id"),
		User:    req.User,
	})

	return nil, err
}

// ManagerRemove withdraws a user's management of the token.
// @Summary Remove token manager
// @Tags Tokens
// @Param id path string true "Token id"
// @Param uid path string true "Manager user identifier"
// @Success 204 "No Content"
// @Failure 403 {object} router.errorResponse "Caller does not own or manage the token"
// @Failure 404 {object} router.errorResponse "Token or manager not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/tokens/{id}/managers/{uid} [delete]
func (h *HTTPEndpoint) ManagerRemove(r *router.Request) (any, error) {
	err := h.uc.ManagerRemove(r.Context(), usecase.ManagerRemoveInput{
		TokenID: r.GetParam("id"),
		User:    r.GetParam("uid"),
	})

	return nil, err
}
