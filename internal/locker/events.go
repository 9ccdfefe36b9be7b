package locker

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tentaclefi/tentacle-locker/internal/observability/metrics"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// ProcessHookEvent is the entry point for authority hook events delivered
// over the queue.
func (s *Service) ProcessHookEvent(ctx context.Context, event types.HookEvent) *types.Error {
	start := time.Now()

	var err *types.Error
	switch event.EventType {
	case types.EventPositionRegistered:
		log.Ctx(ctx).Debug().Msg("Processing position registered event")
		err = s.processPositionRegisteredEvent(ctx, event)
	case types.EventPositionRedeemed:
		log.Ctx(ctx).Debug().Msg("Processing position redeemed event")
		err = s.OnRedemption(ctx, event.Authority, event.PositionID, event.Owner)
	default:
		err = types.NewErrorWithMsg(
			http.StatusBadRequest,
			types.ValidationError,
			fmt.Sprintf("unknown hook event type %q", event.EventType),
		)
	}

	metrics.ObserveHookEventProcessing(event.EventType.String(), time.Since(start), err != nil)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("eventType", event.EventType.String()).
			Msg("failed to process hook event")
	}
	return err
}

func (s *Service) processPositionRegisteredEvent(
	ctx context.Context, event types.HookEvent,
) *types.Error {
	instructions, err := types.DecodeCreateInstructions(event.Instructions)
	if err != nil {
		return types.NewValidationFailedError(err)
	}

	return s.OnRegistration(
		ctx,
		event.Authority,
		event.Beneficiary,
		event.StakingAmount,
		event.PositionIDs,
		instructions,
	)
}
