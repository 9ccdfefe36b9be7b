package derivative

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"

	"github.com/tentaclefi/tentacle-locker/internal/clients/client"
	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// Client talks to derivative contracts and helper modules. Unlike the
// authority client there is no single base URL: the target ref, taken from
// the claim-type configuration or resolved per call, IS the base URL.
type Client struct {
	httpClient *http.Client
	cfg        *config.DerivativeConfig
}

func NewClient(cfg *config.DerivativeConfig) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

// target adapts one ref to the shared client.Client contract.
type target struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func (t *target) GetBaseURL() string {
	return t.baseURL
}

func (t *target) GetDefaultRequestTimeout() time.Duration {
	return t.timeout
}

func (t *target) GetHttpClient() *http.Client {
	return t.httpClient
}

func (c *Client) target(ref types.Ref) *target {
	return &target{
		baseURL:    ref.String(),
		timeout:    c.cfg.Timeout,
		httpClient: c.httpClient,
	}
}

type mintRequest struct {
	To     string      `json:"to"`
	Amount sdkmath.Int `json:"amount"`
}

func (c *Client) Mint(
	ctx context.Context, contract, to types.Ref, amount sdkmath.Int,
) error {
	type ack struct{}

	callForMint := func() (*ack, error) {
		opts := &client.HttpClientOptions{
			Path:         "/v1/mint",
			TemplatePath: "/v1/mint",
		}
		req := &mintRequest{To: to.String(), Amount: amount}
		return client.SendRequest[mintRequest, ack](ctx, c.target(contract), http.MethodPost, opts, req)
	}

	if _, err := clientCallWithRetry(ctx, callForMint, c.cfg); err != nil {
		return fmt.Errorf("failed to mint %s to %s on %s: %w", amount, to, contract, err)
	}
	return nil
}

type burnRequest struct {
	Caller string      `json:"caller"`
	From   string      `json:"from"`
	Amount sdkmath.Int `json:"amount"`
}

func (c *Client) Burn(
	ctx context.Context, contract, caller, from types.Ref, amount sdkmath.Int,
) error {
	type ack struct{}

	callForBurn := func() (*ack, error) {
		opts := &client.HttpClientOptions{
			Path:         "/v1/burn",
			TemplatePath: "/v1/burn",
		}
		req := &burnRequest{Caller: caller.String(), From: from.String(), Amount: amount}
		return client.SendRequest[burnRequest, ack](ctx, c.target(contract), http.MethodPost, opts, req)
	}

	if _, err := clientCallWithRetry(ctx, callForBurn, c.cfg); err != nil {
		return fmt.Errorf("failed to burn %s from %s on %s: %w", amount, from, contract, err)
	}
	return nil
}

type createForRequest struct {
	ClaimTypeID        uint8       `json:"claim_type_id"`
	DerivativeContract string      `json:"derivative_contract"`
	PositionIDs        []string    `json:"position_ids"`
	Amount             sdkmath.Int `json:"amount"`
	Beneficiary        string      `json:"beneficiary"`
}

func (c *Client) CreateFor(
	ctx context.Context,
	helper types.Ref,
	claimTypeID types.ClaimTypeID,
	contract types.Ref,
	positionIDs []types.PositionID,
	amount sdkmath.Int,
	beneficiary types.Ref,
) error {
	type ack struct{}

	ids := make([]string, len(positionIDs))
	for i, id := range positionIDs {
		ids[i] = string(id)
	}

	callForCreate := func() (*ack, error) {
		opts := &client.HttpClientOptions{
			Path:         "/v1/create-for",
			TemplatePath: "/v1/create-for",
		}
		req := &createForRequest{
			ClaimTypeID:        uint8(claimTypeID),
			DerivativeContract: contract.String(),
			PositionIDs:        ids,
			Amount:             amount,
			Beneficiary:        beneficiary.String(),
		}
		return client.SendRequest[createForRequest, ack](ctx, c.target(helper), http.MethodPost, opts, req)
	}

	if _, err := clientCallWithRetry(ctx, callForCreate, c.cfg); err != nil {
		return fmt.Errorf("failed to invoke helper %s for claim type %d: %w", helper, claimTypeID, err)
	}
	return nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.DerivativeConfig,
) (T, error) {
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
