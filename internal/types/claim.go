package types

import (
	"encoding/json"
	"fmt"
)

// ClaimTypeID identifies a claim type. The namespace is global across all
// positions and bounded by the bitmap width (0-255).
type ClaimTypeID uint8

// PositionID is the opaque identifier of a staked position, issued and owned
// by the staking authority.
type PositionID string

// Ref is an address-like reference to an external collaborator (derivative
// contract, helper module, beneficiary or caller identity). The empty string
// is the null reference.
type Ref string

func (r Ref) IsNull() bool {
	return r == ""
}

func (r Ref) String() string {
	return string(r)
}

// ClaimTypeConfig is the stored configuration of one claim type.
//
// A claim type with a null DerivativeContract is unconfigured: every create
// and destroy attempt against it fails.
type ClaimTypeConfig struct {
	HasDefaultHelper                   bool `json:"has_default_helper"`
	ForceDefault                       bool `json:"force_default"`
	RevertIfDefaultForcedAndOverridden bool `json:"revert_if_default_forced_and_overridden"`
	DerivativeContract                 Ref  `json:"derivative_contract"`
}

func (c ClaimTypeConfig) IsConfigured() bool {
	return !c.DerivativeContract.IsNull()
}

// CreateInstruction is one caller-supplied claim-creation order inside a
// registration batch.
type CreateInstruction struct {
	ClaimTypeID    ClaimTypeID `json:"claim_type_id"`
	HelperOverride Ref         `json:"helper_override,omitempty"`
}

// DecodeCreateInstructions parses an encoded instruction batch. An absent
// payload is an explicit empty batch: registrations may carry no
// claim-creation orders at all.
func DecodeCreateInstructions(raw []byte) ([]CreateInstruction, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var instructions []CreateInstruction
	if err := json.Unmarshal(raw, &instructions); err != nil {
		return nil, fmt.Errorf("failed to decode create instructions: %w", err)
	}
	return instructions, nil
}

// ValidateCreateInstructions rejects batches containing the same claim-type
// id twice. Instruction batches are untrusted input: a duplicate id would
// make the second create of the pair fail halfway through the batch, so it
// is rejected before anything is applied.
func ValidateCreateInstructions(instructions []CreateInstruction) error {
	var seen ClaimBitmap
	for _, inst := range instructions {
		if seen.IsSet(inst.ClaimTypeID) {
			return fmt.Errorf("duplicate claim type %d in instruction batch", inst.ClaimTypeID)
		}
		seen = seen.Set(inst.ClaimTypeID)
	}
	return nil
}
