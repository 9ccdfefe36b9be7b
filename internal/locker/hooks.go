package locker

import (
	"context"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// OnRegistration is the registration hook: it creates every instructed claim
// type for every registered position. Only the staking authority may invoke
// it.
//
// The instruction batch is validated for duplicate claim types before any
// state is touched; within the batch, a pair that is already outstanding is
// skipped rather than failed, so a redelivered hook converges instead of
// poisoning the queue.
func (s *Service) OnRegistration(
	ctx context.Context,
	caller types.Ref,
	beneficiary types.Ref,
	stakingAmount sdkmath.Int,
	positionIDs []types.PositionID,
	instructions []types.CreateInstruction,
) *types.Error {
	if err := s.authenticateAuthority(caller); err != nil {
		return err
	}
	if len(positionIDs) == 0 {
		return types.NewValidationFailedError(fmt.Errorf("registration hook carries no positions"))
	}
	if err := types.ValidateCreateInstructions(instructions); err != nil {
		return types.NewError(http.StatusBadRequest, types.DuplicateClaimType, err)
	}

	// The hook amount is the claim weight only when it cannot be ambiguous;
	// multi-position registrations re-read each position.
	sizeHint := sdkmath.Int{}
	if len(positionIDs) == 1 {
		sizeHint = stakingAmount
	}

	for _, positionID := range positionIDs {
		for _, inst := range instructions {
			err := s.createClaim(ctx, inst.ClaimTypeID, positionID, beneficiary, sizeHint, inst.HelperOverride)
			if err == nil {
				continue
			}
			if err.ErrorCode == types.ClaimAlreadyCreated {
				log.Ctx(ctx).Info().
					Str("positionId", string(positionID)).
					Uint8("claimTypeId", uint8(inst.ClaimTypeID)).
					Msg("claim already outstanding, skipping redelivered registration")
				continue
			}
			return err
		}
	}

	return nil
}

// OnRedemption is the redemption hook: it force-destroys every outstanding
// claim for the position, driving its bitmap back to all-zero. Only the
// staking authority may invoke it. Sweeping an already-unlocked position is
// a no-op, so redelivery is safe.
func (s *Service) OnRedemption(
	ctx context.Context,
	caller types.Ref,
	positionID types.PositionID,
	owner types.Ref,
) *types.Error {
	if err := s.authenticateAuthority(caller); err != nil {
		return err
	}

	bitmap, err := s.db.GetOutstandingClaims(ctx, positionID)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to read outstanding claims of position %s: %w", positionID, err),
		)
	}

	for _, claimTypeID := range bitmap.Bits() {
		destroyErr := s.destroyClaim(ctx, claimTypeID, positionID, owner, owner)
		if destroyErr == nil {
			continue
		}
		if destroyErr.ErrorCode == types.ClaimNotCreated {
			// Someone destroyed it between the read and the sweep.
			continue
		}
		return destroyErr
	}

	return nil
}

// IsUnlocked reports whether the position can be withdrawn. A query for an
// authority other than the configured one is unconditionally unlocked: a
// misconfigured authority reference must never brick withdrawals.
func (s *Service) IsUnlocked(
	ctx context.Context, authorityID types.Ref, positionID types.PositionID,
) (bool, *types.Error) {
	if authorityID.String() != s.authorityIdentity() {
		return true, nil
	}

	bitmap, err := s.db.GetOutstandingClaims(ctx, positionID)
	if err != nil {
		return false, types.NewInternalServiceError(
			fmt.Errorf("failed to read outstanding claims of position %s: %w", positionID, err),
		)
	}
	return bitmap.IsEmpty(), nil
}

func (s *Service) authenticateAuthority(caller types.Ref) *types.Error {
	if caller.String() != s.authorityIdentity() {
		return types.NewUnauthorizedCallerError(caller)
	}
	return nil
}
