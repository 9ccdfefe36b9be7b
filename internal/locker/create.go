package locker

import (
	"context"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/db"
	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// Create creates a claim on behalf of an end caller. The caller must own or
// be approved for the position; the check is delegated to the staking
// authority.
func (s *Service) Create(
	ctx context.Context,
	caller types.Ref,
	claimTypeID types.ClaimTypeID,
	positionID types.PositionID,
	beneficiary types.Ref,
	sizeHint sdkmath.Int,
	helperOverride types.Ref,
) *types.Error {
	if err := s.authorizeCaller(ctx, caller, positionID); err != nil {
		return err
	}
	return s.createClaim(ctx, claimTypeID, positionID, beneficiary, sizeHint, helperOverride)
}

// createClaim runs the create protocol for one (position, claim type) pair.
//
// The outstanding flag is set before the issuance call goes out: an issuance
// callback re-entering create for the same pair must observe the flag and
// fail with ALREADY_CREATED. If issuance then fails, the flag is rolled back
// so the call stays all-or-nothing to observers.
func (s *Service) createClaim(
	ctx context.Context,
	claimTypeID types.ClaimTypeID,
	positionID types.PositionID,
	beneficiary types.Ref,
	sizeHint sdkmath.Int,
	helperOverride types.Ref,
) *types.Error {
	cfg, defaultHelper, err := s.db.GetClaimTypeConfig(ctx, claimTypeID)
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

	helper, resolveErr := ResolveHelper(cfg, helperOverride, defaultHelper)
	if resolveErr != nil {
		return resolveErr
	}

	size := sizeHint
	if size.IsNil() || !size.IsPositive() {
		balance, err := s.authority.StakingTokenBalance(ctx, positionID)
		if err != nil {
			return types.NewInternalServiceError(
				fmt.Errorf("failed to read claim weight of position %s: %w", positionID, err),
			)
		}
		size = balance
	}

	if err := s.db.MarkOutstanding(ctx, positionID, claimTypeID); err != nil {
		if db.IsStateConflictError(err) {
			return types.NewError(http.StatusConflict, types.ClaimAlreadyCreated, err)
		}
		return types.NewInternalServiceError(
			fmt.Errorf("failed to mark claim outstanding: %w", err),
		)
	}

	if err := s.issue(ctx, claimTypeID, cfg.DerivativeContract, helper, positionID, size, beneficiary); err != nil {
		// Roll back the flag so the failed call leaves no trace.
		metrics.RecordIssuanceRollback()
		if clearErr := s.db.ClearOutstanding(ctx, positionID, claimTypeID); clearErr != nil {
			log.Ctx(ctx).Error().Err(clearErr).
				Str("positionId", string(positionID)).
				Uint8("claimTypeId", uint8(claimTypeID)).
				Msg("failed to roll back outstanding flag after issuance failure")
		}
		return types.NewInternalServiceError(
			fmt.Errorf("issuance failed for claim type %d on position %s: %w", claimTypeID, positionID, err),
		)
	}

	metrics.RecordClaimCreated(uint8(claimTypeID))
	log.Ctx(ctx).Debug().
		Str("positionId", string(positionID)).
		Uint8("claimTypeId", uint8(claimTypeID)).
		Str("helper", helper.String()).
		Msg("claim created")
	return nil
}

// issue routes the freshly issued supply: into the resolved helper's custody
// for distribution, or straight to the beneficiary when no helper resolved.
func (s *Service) issue(
	ctx context.Context,
	claimTypeID types.ClaimTypeID,
	contract types.Ref,
	helper types.Ref,
	positionID types.PositionID,
	size sdkmath.Int,
	beneficiary types.Ref,
) error {
	if helper.IsNull() {
		return s.contract.Mint(ctx, contract, beneficiary, size)
	}

	if err := s.contract.Mint(ctx, contract, helper, size); err != nil {
		return err
	}
	return s.helper.CreateFor(
		ctx, helper, claimTypeID, contract,
		[]types.PositionID{positionID}, size, beneficiary,
	)
}

func (s *Service) authorizeCaller(
	ctx context.Context, caller types.Ref, positionID types.PositionID,
) *types.Error {
	if caller.IsNull() {
		return types.NewUnauthorizedCallerError(caller)
	}
	approved, err := s.authority.IsApprovedOrOwner(ctx, caller, positionID)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to check approval of caller %s: %w", caller, err),
		)
	}
	if !approved {
		return types.NewUnauthorizedCallerError(caller)
	}
	return nil
}
