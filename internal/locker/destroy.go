package locker

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/db"
	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// Destroy destroys a claim on behalf of an end caller. The caller must own
// or be approved for the position.
func (s *Service) Destroy(
	ctx context.Context,
	caller types.Ref,
	claimTypeID types.ClaimTypeID,
	positionID types.PositionID,
	from types.Ref,
) *types.Error {
	if err := s.authorizeCaller(ctx, caller, positionID); err != nil {
		return err
	}
	return s.destroyClaim(ctx, claimTypeID, positionID, caller, from)
}

// destroyClaim runs the destroy protocol for one (position, claim type)
// pair: claim the transition by clearing the outstanding flag, then burn
// supply proportional to the position's current claim weight.
//
// The conditional clear goes first so concurrent destroys of the same pair
// elect a single winner before any supply is retired; the loser fails with
// NOT_CREATED without reaching the contract. If the burn then fails, the
// flag is restored and the claim stays outstanding.
//
// The weight is re-read here rather than cached from creation time, so the
// retired amount always settles against current value.
func (s *Service) destroyClaim(
	ctx context.Context,
	claimTypeID types.ClaimTypeID,
	positionID types.PositionID,
	caller types.Ref,
	from types.Ref,
) *types.Error {
	cfg, _, err := s.db.GetClaimTypeConfig(ctx, claimTypeID)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to look up claim type %d: %w", claimTypeID, err),
		)
	}
	if !cfg.IsConfigured() {
		return types.NewErrorWithMsg(
			http.StatusUnprocessableEntity,
			types.ClaimTypeNotConfigured,
			fmt.Sprintf("claim type %d has no derivative contract configured", claimTypeID),
		)
	}

	if err := s.db.ClearOutstanding(ctx, positionID, claimTypeID); err != nil {
		if db.IsStateConflictError(err) {
			return types.NewErrorWithMsg(
				http.StatusConflict,
				types.ClaimNotCreated,
				fmt.Sprintf("claim type %d is not outstanding for position %s", claimTypeID, positionID),
			)
		}
		return types.NewInternalServiceError(
			fmt.Errorf("failed to clear outstanding flag: %w", err),
		)
	}

	amount, err := s.authority.StakingTokenBalance(ctx, positionID)
	if err != nil {
		s.restoreOutstanding(ctx, positionID, claimTypeID)
		return types.NewInternalServiceError(
			fmt.Errorf("failed to read claim weight of position %s: %w", positionID, err),
		)
	}

	if err := s.contract.Burn(ctx, cfg.DerivativeContract, caller, from, amount); err != nil {
		metrics.RecordRetirementRollback()
		s.restoreOutstanding(ctx, positionID, claimTypeID)
		return types.NewInternalServiceError(
			fmt.Errorf("retirement failed for claim type %d on position %s: %w", claimTypeID, positionID, err),
		)
	}

	metrics.RecordClaimDestroyed(uint8(claimTypeID))
	log.Ctx(ctx).Debug().
		Str("positionId", string(positionID)).
		Uint8("claimTypeId", uint8(claimTypeID)).
		Msg("claim destroyed")
	return nil
}

// restoreOutstanding puts the flag back after a destroy that cleared it
// could not complete.
func (s *Service) restoreOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) {
	if err := s.db.MarkOutstanding(ctx, positionID, claimTypeID); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("positionId", string(positionID)).
			Uint8("claimTypeId", uint8(claimTypeID)).
			Msg("failed to restore outstanding flag after retirement failure")
	}
}
