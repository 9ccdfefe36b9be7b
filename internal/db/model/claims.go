package model

import (
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

const (
	OutstandingClaimsCollection = "outstanding_claims"
	ClaimTypesCollection        = "claim_types"
)

// OutstandingClaimsDocument holds one position's 256-bit outstanding-claim
// bitmap as four signed 64-bit words (BSON has no unsigned integers; the bit
// patterns are preserved by casting). A missing document is equivalent to an
// all-zero bitmap.
type OutstandingClaimsDocument struct {
	PositionID string `bson:"_id"`
	Word0      int64  `bson:"w0"`
	Word1      int64  `bson:"w1"`
	Word2      int64  `bson:"w2"`
	Word3      int64  `bson:"w3"`
}

// WordFields are the bitmap word field names, indexed by word position.
// Conditional bit updates target one of these by claim-type id.
var WordFields = [types.ClaimBitmapWords]string{"w0", "w1", "w2", "w3"}

func NewOutstandingClaimsDocument(positionID types.PositionID, bitmap types.ClaimBitmap) *OutstandingClaimsDocument {
	return &OutstandingClaimsDocument{
		PositionID: string(positionID),
		Word0:      int64(bitmap[0]),
		Word1:      int64(bitmap[1]),
		Word2:      int64(bitmap[2]),
		Word3:      int64(bitmap[3]),
	}
}

func (d *OutstandingClaimsDocument) Bitmap() types.ClaimBitmap {
	return types.ClaimBitmap{
		uint64(d.Word0),
		uint64(d.Word1),
		uint64(d.Word2),
		uint64(d.Word3),
	}
}

// ClaimTypeDocument is the stored configuration of one claim type, keyed by
// its 8-bit id. Entries persist for the life of the system and are never
// deleted; configure overwrites unconditionally.
type ClaimTypeDocument struct {
	ClaimTypeID                        int32  `bson:"_id"`
	HasDefaultHelper                   bool   `bson:"has_default_helper"`
	ForceDefault                       bool   `bson:"force_default"`
	RevertIfDefaultForcedAndOverridden bool   `bson:"revert_if_default_forced_and_overridden"`
	DerivativeContract                 string `bson:"derivative_contract"`
	DefaultHelper                      string `bson:"default_helper"`
}

func NewClaimTypeDocument(
	id types.ClaimTypeID, cfg types.ClaimTypeConfig, defaultHelper types.Ref,
) *ClaimTypeDocument {
	return &ClaimTypeDocument{
		ClaimTypeID:                        int32(id),
		HasDefaultHelper:                   cfg.HasDefaultHelper,
		ForceDefault:                       cfg.ForceDefault,
		RevertIfDefaultForcedAndOverridden: cfg.RevertIfDefaultForcedAndOverridden,
		DerivativeContract:                 cfg.DerivativeContract.String(),
		DefaultHelper:                      defaultHelper.String(),
	}
}

func (d *ClaimTypeDocument) Config() types.ClaimTypeConfig {
	return types.ClaimTypeConfig{
		HasDefaultHelper:                   d.HasDefaultHelper,
		ForceDefault:                       d.ForceDefault,
		RevertIfDefaultForcedAndOverridden: d.RevertIfDefaultForcedAndOverridden,
		DerivativeContract:                 types.Ref(d.DerivativeContract),
	}
}
