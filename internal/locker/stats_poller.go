package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
	"github.com/tentaclefi/tentacle-locker/internal/utils/poller"
)

const lockedPositionsPollerType = "locked_positions"

// StartLockedPositionsPoller periodically publishes the number of locked
// positions as a gauge.
func (s *Service) StartLockedPositionsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		s.cfg.Poller.LockedPositionsInterval,
		s.pollLockedPositions,
	)
	go statsPoller.Start(ctx)
}

func (s *Service) pollLockedPositions(ctx context.Context) *types.Error {
	start := time.Now()
	count, err := s.db.CountLockedPositions(ctx)
	metrics.ObservePollerDuration(lockedPositionsPollerType, time.Since(start), err != nil)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to count locked positions: %w", err),
		)
	}

	metrics.SetLockedPositions(count)
	return nil
}
