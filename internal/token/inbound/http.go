package inbound

import (
	"context"

	"github.com/authkeep/otpvault/internal/pkg/router"
	"github.com/authkeep/otpvault/internal/token/usecase"
)

type uc interface {
	TokenCreate(ctx context.Context, in usecase.TokenCreateInput) (*usecase.TokenCreateOutput, error)
	TokenDetail(ctx context.Context, in usecase.TokenDetailInput) (*usecase.TokenDetailOutput, error)
	TokenUpdate(ctx context.Context, in usecase.TokenUpdateInput) (*usecase.TokenUpdateOutput, error)
	TokenDelete(ctx context.Context, in usecase.TokenDeleteInput) error
	TokenList(ctx context.Context, in usecase.TokenListInput) (*usecase.TokenListOutput, error)

	TokenSync(ctx context.Context, in usecase.TokenSyncInput) error
	TokenVerify(ctx context.Context, in usecase.TokenVerifyInput) (*usecase.TokenVerifyOutput, error)

	ManagerAdd(ctx context.Context, in usecase.ManagerAddInput) error
	ManagerRemove(ctx context.Context, in usecase.ManagerRemoveInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Token lifecycle
	r.POST("/api/v1/tokens", end.TokenCreate)
	r.GET("/api/v1/tokens", end.TokenList)
	r.GET("/api/v1/tokens/:id", end.TokenDetail)
	r.PATCH("/api/v1/tokens/:id", end.TokenUpdate)
	r.DELETE("/api/v1/tokens/:id", end.TokenDelete)

	// Resynchronization & verification
	r.POST("/api/v1/tokens-sync", end.TokenSync)
	r.POST("/api/v1/tokens/:id/verify", end.TokenVerify)

	// Managers
	r.POST("/api/v1/tokens/:id/managers", end.ManagerAdd)
	r.DELETE("/api/v1/tokens/:id/managers/:uid", end.ManagerRemove)
}
