package derivative

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// ContractInterface issues and retires derivative supply. The contract ref
// comes from the claim-type configuration and selects the target service,
// so implementations are swappable per claim type.
type ContractInterface interface {
	Mint(ctx context.Context, contract, to types.Ref, amount sdkmath.Int) error
	Burn(ctx context.Context, contract, caller, from types.Ref, amount sdkmath.Int) error
}

// HelperInterface is the distribution entry point of an optional helper
// module. The helper has already received the minted supply when CreateFor
// is invoked and performs its own allocation logic.
type HelperInterface interface {
	CreateFor(
		ctx context.Context,
		helper types.Ref,
		claimTypeID types.ClaimTypeID,
		contract types.Ref,
		positionIDs []types.PositionID,
		amount sdkmath.Int,
		beneficiary types.Ref,
	) error
}
