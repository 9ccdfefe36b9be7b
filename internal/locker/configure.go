package locker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// Configure stores the configuration and default helper for a claim type,
// unconditionally overwriting any prior value. The new configuration is
// observed by the next create/destroy; in-flight claims are not
// grandfathered.
//
// Only the configured admin identity may call this.
func (s *Service) Configure(
	ctx context.Context,
	caller types.Ref,
	claimTypeID types.ClaimTypeID,
	cfg types.ClaimTypeConfig,
	defaultHelper types.Ref,
) *types.Error {
	if caller.String() != s.adminIdentity() {
		return types.NewUnauthorizedCallerError(caller)
	}
	if !cfg.IsConfigured() {
		return types.NewValidationFailedError(
			fmt.Errorf("claim type %d configuration requires a derivative contract", claimTypeID),
		)
	}
	if cfg.HasDefaultHelper && defaultHelper.IsNull() {
		// Tolerated but suspicious: creates without an override will route
		// to the null helper, which is direct issuance.
		log.Ctx(ctx).Warn().
			Uint8("claimTypeId", uint8(claimTypeID)).
			Msg("claim type flags a default helper but none was supplied")
	}

	overwritten, err := s.db.SaveClaimTypeConfig(ctx, claimTypeID, cfg, defaultHelper)
	if err != nil {
		return types.NewInternalServiceError(
			fmt.Errorf("failed to save claim type %d configuration: %w", claimTypeID, err),
		)
	}
	if overwritten {
		log.Ctx(ctx).Warn().
			Uint8("claimTypeId", uint8(claimTypeID)).
			Msg("overwrote existing claim type configuration")
	}

	return nil
}
