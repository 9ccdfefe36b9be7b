package derivative

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

type derivativeClientWithMetrics struct {
	contract ContractInterface
	helper   HelperInterface
}

// NewClientWithMetrics wraps a client implementing both capability
// interfaces.
func NewClientWithMetrics(c *Client) *derivativeClientWithMetrics {
	return &derivativeClientWithMetrics{contract: c, helper: c}
}

func (d *derivativeClientWithMetrics) Mint(
	ctx context.Context, contract, to types.Ref, amount sdkmath.Int,
) error {
	return runDerivativeClientMethodWithMetrics("Mint", func() error {
		return d.contract.Mint(ctx, contract, to, amount)
	})
}

func (d *derivativeClientWithMetrics) Burn(
	ctx context.Context, contract, caller, from types.Ref, amount sdkmath.Int,
) error {
	return runDerivativeClientMethodWithMetrics("Burn", func() error {
		return d.contract.Burn(ctx, contract, caller, from, amount)
	})
}

func (d *derivativeClientWithMetrics) CreateFor(
	ctx context.Context,
	helper types.Ref,
	claimTypeID types.ClaimTypeID,
	contract types.Ref,
	positionIDs []types.PositionID,
	amount sdkmath.Int,
	beneficiary types.Ref,
) error {
	return runDerivativeClientMethodWithMetrics("CreateFor", func() error {
		return d.helper.CreateFor(ctx, helper, claimTypeID, contract, positionIDs, amount, beneficiary)
	})
}

func runDerivativeClientMethodWithMetrics(method string, f func() error) error {
	start := time.Now()
	err := f()
	metrics.RecordDerivativeClientLatency(time.Since(start), method, err != nil)
	return err
}
