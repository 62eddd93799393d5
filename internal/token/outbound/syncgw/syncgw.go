// Package syncgw forwards token resynchronization requests to the remote
// sync endpoint over HTTPS. The endpoint consumes a form-encoded credential
// bundle and reports its verdict in a response header rather than the body,
// so the body is discarded unread.
package syncgw

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/authkeep/otpvault/internal/pkg/instrument"
	"github.com/authkeep/otpvault/internal/token/entity"
	"github.com/authkeep/otpvault/internal/token/usecase"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

// ResultHeader carries the gateway's status token.
const ResultHeader = "X-OTPVault-TokenSync-Result"

type Gateway struct {
	client   *http.Client
	endpoint string
	ins      instrument.Instrumentation
}

func NewGateway(client *http.Client, endpoint string, ins instrument.Instrumentation) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	return &Gateway{
		client:   client,
		endpoint: endpoint,
		ins:      ins,
	}
}

// Resync posts the credential bundle and returns the gateway's status.
// Transient transport failures are retried with a capped backoff; a non-200
// response or a missing or unrecognized header is not retried, it is
// reported as the unknown status.
func (g *Gateway) Resync(ctx context.Context, req usecase.SyncRequest) (entity.SyncStatus, error) {
	ctx, span := g.ins.Tracer("token.outbound.syncgw").Start(ctx, "Resync")
	defer span.End()

	form := url.Values{}
	form.Set("user", req.User)
	form.Set("password", req.Password)
	form.Set("first_code", req.FirstCode)
	form.Set("second_code", req.SecondCode)
	if req.Token != "" {
		form.Set("token", req.Token)
	}
	body := form.Encode()

	var status entity.SyncStatus

	b := retry.WithMaxRetries(3, retry.NewFibonacci(250*time.Millisecond))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := g.client.Do(httpReq)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		// The header is only meaningful on a 200; anything else is the
		// endpoint failing, not a sync verdict.
		if resp.StatusCode != http.StatusOK {
			status = entity.SyncStatusUnknown
			return nil
		}

		status = entity.SyncStatusFromString(resp.Header.Get(ResultHeader))
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entity.SyncStatusUnknown, err
	}

	return status, nil
}
