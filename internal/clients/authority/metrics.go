package authority

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

type authorityClientWithMetrics struct {
	authority AuthorityInterface
}

func NewClientWithMetrics(authority AuthorityInterface) *authorityClientWithMetrics {
	return &authorityClientWithMetrics{authority: authority}
}

func (a *authorityClientWithMetrics) StakingTokenBalance(
	ctx context.Context, positionID types.PositionID,
) (sdkmath.Int, error) {
	return runAuthorityClientMethodWithMetrics("StakingTokenBalance", func() (sdkmath.Int, error) {
		return a.authority.StakingTokenBalance(ctx, positionID)
	})
}

func (a *authorityClientWithMetrics) LockManager(
	ctx context.Context, positionID types.PositionID,
) (types.Ref, error) {
	return runAuthorityClientMethodWithMetrics("LockManager", func() (types.Ref, error) {
		return a.authority.LockManager(ctx, positionID)
	})
}

func (a *authorityClientWithMetrics) IsApprovedOrOwner(
	ctx context.Context, caller types.Ref, positionID types.PositionID,
) (bool, error) {
	return runAuthorityClientMethodWithMetrics("IsApprovedOrOwner", func() (bool, error) {
		return a.authority.IsApprovedOrOwner(ctx, caller, positionID)
	})
}

func runAuthorityClientMethodWithMetrics[T any](method string, f func() (T, error)) (T, error) {
	start := time.Now()
	result, err := f()
	metrics.RecordAuthorityClientLatency(time.Since(start), method, err != nil)
	return result, err
}
