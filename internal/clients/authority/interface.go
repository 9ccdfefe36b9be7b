package authority

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// AuthorityInterface is the read surface of the staking authority this
// locker depends on. Positions are owned by the authority; the locker only
// reads them.
type AuthorityInterface interface {
	// StakingTokenBalance returns the position's current claim weight.
	StakingTokenBalance(ctx context.Context, positionID types.PositionID) (sdkmath.Int, error)
	// LockManager returns the identity managing locks for the position.
	LockManager(ctx context.Context, positionID types.PositionID) (types.Ref, error)
	// IsApprovedOrOwner reports whether the caller owns or is approved for
	// the position.
	IsApprovedOrOwner(ctx context.Context, caller types.Ref, positionID types.PositionID) (bool, error)
}
