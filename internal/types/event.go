package types

import (
	"encoding/json"

	sdkmath "cosmossdk.io/math"
)

type EventType string

func (e EventType) String() string {
	return string(e)
}

const (
	// EventPositionRegistered is published by the staking authority when one
	// or more positions are registered with claim-creation instructions.
	EventPositionRegistered EventType = "authority.v1.EventPositionRegistered"
	// EventPositionRedeemed is published by the staking authority when a
	// position is redeemed and every outstanding claim must be destroyed.
	EventPositionRedeemed EventType = "authority.v1.EventPositionRedeemed"
)

// HookEvent is the envelope of a staking-authority hook delivered over the
// queue. Exactly one of the registration/redemption field groups is filled,
// according to EventType.
type HookEvent struct {
	EventType EventType `json:"event_type"`
	// Authority is the identity of the publisher; hook events from anything
	// but the configured staking authority are rejected.
	Authority Ref `json:"authority"`

	// Registration fields.
	Beneficiary   Ref             `json:"beneficiary,omitempty"`
	StakingAmount sdkmath.Int     `json:"staking_amount,omitempty"`
	PositionIDs   []PositionID    `json:"position_ids,omitempty"`
	Instructions  json.RawMessage `json:"instructions,omitempty"`

	// Redemption fields.
	PositionID PositionID `json:"position_id,omitempty"`
	Owner      Ref        `json:"owner,omitempty"`
}
