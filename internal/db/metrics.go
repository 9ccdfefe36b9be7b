package db

import (
	"context"
	"time"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) run(method string, f func() error) error {
	start := time.Now()
	err := f()
	metrics.ObserveDbLatency(method, time.Since(start), err == nil)
	return err
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) GetOutstandingClaims(
	ctx context.Context, positionID types.PositionID,
) (result types.ClaimBitmap, err error) {
	//nolint:errcheck
	d.run("GetOutstandingClaims", func() error {
		result, err = d.db.GetOutstandingClaims(ctx, positionID)
		return err
	})

	return
}

func (d *DbWithMetrics) MarkOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) error {
	return d.run("MarkOutstanding", func() error {
		return d.db.MarkOutstanding(ctx, positionID, claimTypeID)
	})
}

func (d *DbWithMetrics) ClearOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) error {
	return d.run("ClearOutstanding", func() error {
		return d.db.ClearOutstanding(ctx, positionID, claimTypeID)
	})
}

func (d *DbWithMetrics) CountLockedPositions(ctx context.Context) (result int64, err error) {
	//nolint:errcheck
	d.run("CountLockedPositions", func() error {
		result, err = d.db.CountLockedPositions(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SaveClaimTypeConfig(
	ctx context.Context,
	claimTypeID types.ClaimTypeID,
	cfg types.ClaimTypeConfig,
	defaultHelper types.Ref,
) (overwritten bool, err error) {
	//nolint:errcheck
	d.run("SaveClaimTypeConfig", func() error {
		overwritten, err = d.db.SaveClaimTypeConfig(ctx, claimTypeID, cfg, defaultHelper)
		return err
	})

	return
}

func (d *DbWithMetrics) GetClaimTypeConfig(
	ctx context.Context, claimTypeID types.ClaimTypeID,
) (cfg types.ClaimTypeConfig, defaultHelper types.Ref, err error) {
	//nolint:errcheck
	d.run("GetClaimTypeConfig", func() error {
		cfg, defaultHelper, err = d.db.GetClaimTypeConfig(ctx, claimTypeID)
		return err
	})

	return
}
