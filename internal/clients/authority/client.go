package authority

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/avast/retry-go/v4"

	"github.com/tentaclefi/tentacle-locker/internal/clients/client"
	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

type Client struct {
	httpClient *http.Client
	cfg        *config.AuthorityConfig
}

func NewClient(cfg *config.AuthorityConfig) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *Client) GetBaseURL() string {
	return c.cfg.Endpoint
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

type balanceResponse struct {
	Balance sdkmath.Int `json:"balance"`
}

func (c *Client) StakingTokenBalance(
	ctx context.Context, positionID types.PositionID,
) (sdkmath.Int, error) {
	type empty struct{}

	callForBalance := func() (sdkmath.Int, error) {
		opts := &client.HttpClientOptions{
			Path:         fmt.Sprintf("/v1/positions/%s/balance", url.PathEscape(string(positionID))),
			TemplatePath: "/v1/positions/{id}/balance",
		}

		resp, err := client.SendRequest[empty, balanceResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return sdkmath.Int{}, err
		}
		if resp.Balance.IsNil() || resp.Balance.IsNegative() {
			return sdkmath.Int{}, fmt.Errorf("authority returned invalid balance for position %s", positionID)
		}
		return resp.Balance, nil
	}

	balance, err := clientCallWithRetry(ctx, callForBalance, c.cfg)
	if err != nil {
		return sdkmath.Int{}, fmt.Errorf("failed to get staking token balance for position %s: %w", positionID, err)
	}
	return balance, nil
}

type lockManagerResponse struct {
	LockManager string `json:"lock_manager"`
}

func (c *Client) LockManager(
	ctx context.Context, positionID types.PositionID,
) (types.Ref, error) {
	type empty struct{}

	callForLockManager := func() (types.Ref, error) {
		opts := &client.HttpClientOptions{
			Path:         fmt.Sprintf("/v1/positions/%s/lock-manager", url.PathEscape(string(positionID))),
			TemplatePath: "/v1/positions/{id}/lock-manager",
		}

		resp, err := client.SendRequest[empty, lockManagerResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return "", err
		}
		return types.Ref(resp.LockManager), nil
	}

	manager, err := clientCallWithRetry(ctx, callForLockManager, c.cfg)
	if err != nil {
		return "", fmt.Errorf("failed to get lock manager for position %s: %w", positionID, err)
	}
	return manager, nil
}

type approvedResponse struct {
	Approved bool `json:"approved"`
}

func (c *Client) IsApprovedOrOwner(
	ctx context.Context, caller types.Ref, positionID types.PositionID,
) (bool, error) {
	type empty struct{}

	callForApproval := func() (bool, error) {
		opts := &client.HttpClientOptions{
			Path: fmt.Sprintf(
				"/v1/positions/%s/approved?caller=%s",
				url.PathEscape(string(positionID)),
				url.QueryEscape(caller.String()),
			),
			TemplatePath: "/v1/positions/{id}/approved",
		}

		resp, err := client.SendRequest[empty, approvedResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return false, err
		}
		return resp.Approved, nil
	}

	approved, err := clientCallWithRetry(ctx, callForApproval, c.cfg)
	if err != nil {
		return false, fmt.Errorf("failed to check approval of caller %s for position %s: %w", caller, positionID, err)
	}
	return approved, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.AuthorityConfig,
) (T, error) {
	return retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}
