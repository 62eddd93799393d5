package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/goerror"
	"github.com/authkeep/otpvault/internal/token/entity"
)

type (
	// TokenUpdateInput carries the mutable subset of a token record. Key
	// material, type, and code parameters are fixed at creation.
	TokenUpdateInput struct {
		ID string `validate:"required,max=64"`

		Owner    *string `validate:"omitempty,max=255"`
		Disabled *bool

		NotBefore *time.Time
		NotAfter  *time.Time

		Description *string `validate:"omitempty,max=255"`
		Vendor      *string `validate:"omitempty,max=255"`
		Model       *string `validate:"omitempty,max=255"`
		Serial      *string `validate:"omitempty,max=255"`

		All bool
		Raw bool
	}

	TokenUpdateOutput struct {
		Token TokenOutput
	}
)

func (s *Usecase) TokenUpdate(ctx context.Context, in TokenUpdateInput) (*TokenUpdateOutput, error) {
	ctx, span := s.startSpan(ctx, "TokenUpdate")
	defer span.End()

	in.ID = strings.TrimSpace(in.ID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	clm, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	stored, err := s.readTokenRecord(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if err := authorizeManage(clm, stored); err != nil {
		return nil, err
	}

	if err := checkUpdatedInterval(in, stored); err != nil {
		return nil, err
	}

	partial := entity.AttrMap{}
	if in.Disabled != nil {
		partial[entity.AttrDisabled] = *in.Disabled
	}
	if in.NotBefore != nil {
		partial[entity.AttrNotBefore] = *in.NotBefore
	}
	if in.NotAfter != nil {
		partial[entity.AttrNotAfter] = *in.NotAfter
	}
	if in.Description != nil {
		partial[entity.AttrDescription] = strings.TrimSpace(*in.Description)
	}
	if in.Vendor != nil {
		partial[entity.AttrVendor] = strings.TrimSpace(*in.Vendor)
	}
	if in.Model != nil {
		partial[entity.AttrModel] = strings.TrimSpace(*in.Model)
	}
	if in.Serial != nil {
		partial[entity.AttrSerial] = strings.TrimSpace(*in.Serial)
	}

	if in.Owner != nil {
		ownerRef, err := s.resolveIdentity(ctx, strings.TrimSpace(*in.Owner))
		if err != nil {
			return nil, err
		}
		partial[entity.AttrOwner] = ownerRef
		reassignManager(stored, ownerRef, partial)
	}

	if len(partial) == 0 {
		return nil, goerror.NewBusiness("no modifications to be performed", goerror.CodeInvalidInput)
	}

	if err := s.repoDB.UpdateRecord(ctx, in.ID, partial); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return nil, goerror.NewBusiness("token not found", goerror.CodeNotFound)
		}

		slog.ErrorContext(ctx, "failed to repo update token record", "token_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	fields := make([]string, 0, len(partial))
	for name := range partial {
		fields = append(fields, name)
	}
	if err := s.repoMessaging.PublishTokenUpdated(ctx, in.ID, fields, clm.UID); err != nil {
		slog.ErrorContext(ctx, "failed to publish token updated", "token_id", in.ID, "error", err)
	}

	attrs, err := s.repoDB.ReadRecord(ctx, in.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo read token record", "token_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &TokenUpdateOutput{
		Token: s.buildOutput(attrs, OutputOptions{All: in.All, Raw: in.Raw}),
	}, nil
}

// checkUpdatedInterval validates the validity interval that would result
// from the update. When only one boundary is supplied, the other is taken
// from the stored record before the comparison. The reported field is the
// one the caller actually supplied.
func checkUpdatedInterval(in TokenUpdateInput, stored entity.AttrMap) error {
	notBefore, notAfter := in.NotBefore, in.NotAfter
	notAfterSet := true

	if (notBefore == nil) != (notAfter == nil) {
		if notBefore == nil {
			notBefore = stored.GetTime(entity.AttrNotBefore)
		}
		if notAfter == nil {
			notAfterSet = false
			notAfter = stored.GetTime(entity.AttrNotAfter)
		}
	}

	if !entity.CheckInterval(notBefore, notAfter) {
		if notAfterSet {
			return goerror.NewInvalidInput(nil, "not_after", "is before the validity start")
		}
		return goerror.NewInvalidInput(nil, "not_before", "is after the validity end")
	}

	return nil
}

// reassignManager keeps a self-managed token self-managed across an owner
// change: when the previous owner was also the manager, the manager follows
// the new owner.
func reassignManager(stored entity.AttrMap, newOwner string, partial entity.AttrMap) {
	prevOwner := stored.GetString(entity.AttrOwner)
	prevManagedBy := stored.GetString(entity.AttrManagedBy)

	if newOwner != prevOwner && prevOwner != "" && prevOwner == prevManagedBy {
		partial.SetIfAbsent(entity.AttrManagedBy, newOwner)
	}
}
