package db

import (
	"context"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// DbInterface is the persisted state of the locker: one bitmap per position
// and one configuration per claim type. Both transition methods are
// conditional single-document updates, so the ABSENT <-> OUTSTANDING guard
// holds without any application-level lock.
type DbInterface interface {
	Ping(ctx context.Context) error

	// GetOutstandingClaims returns the position's bitmap. A position that
	// was never written reads as the empty bitmap.
	GetOutstandingClaims(ctx context.Context, positionID types.PositionID) (types.ClaimBitmap, error)

	// MarkOutstanding sets the claim-type flag for the position and fails
	// with StateConflictError if the flag is already set.
	MarkOutstanding(ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID) error

	// ClearOutstanding clears the claim-type flag for the position and fails
	// with StateConflictError if the flag is not set.
	ClearOutstanding(ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID) error

	// CountLockedPositions returns the number of positions with at least one
	// outstanding claim.
	CountLockedPositions(ctx context.Context) (int64, error)

	// SaveClaimTypeConfig stores the configuration and default helper for a
	// claim type, unconditionally overwriting any prior value. It reports
	// whether a prior configuration was overwritten.
	SaveClaimTypeConfig(
		ctx context.Context,
		claimTypeID types.ClaimTypeID,
		cfg types.ClaimTypeConfig,
		defaultHelper types.Ref,
	) (bool, error)

	// GetClaimTypeConfig returns the stored configuration and default
	// helper, or the zero-value sentinel (null derivative contract) if the
	// claim type was never configured.
	GetClaimTypeConfig(
		ctx context.Context, claimTypeID types.ClaimTypeID,
	) (types.ClaimTypeConfig, types.Ref, error)
}
