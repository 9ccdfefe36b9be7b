package locker

import (
	"context"
	"net/http"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

func TestOnRegistrationBatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positions := []types.PositionID{
		types.PositionID(gofakeit.UUID()),
		types.PositionID(gofakeit.UUID()),
	}

	h.configureClaimType(t, 0, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.configureClaimType(t, 2, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positions[0]] = sdkmath.NewInt(100)
	h.authority.balances[positions[1]] = sdkmath.NewInt(200)

	err := h.service.OnRegistration(
		ctx, testAuthorityID, testBeneficiary, sdkmath.NewInt(300), positions,
		[]types.CreateInstruction{{ClaimTypeID: 0}, {ClaimTypeID: 2}},
	)
	require.Nil(t, err)

	// every (position, claim type) pair got its own issuance; the ambiguous
	// multi-position hook amount is ignored in favor of per-position weights
	require.Len(t, h.contract.mints, 4)
	minted := map[string]int{}
	for _, m := range h.contract.mints {
		minted[m.amount.String()]++
	}
	assert.Equal(t, 2, minted["100"])
	assert.Equal(t, 2, minted["200"])

	for _, positionID := range positions {
		bitmap, dbErr := h.store.GetOutstandingClaims(ctx, positionID)
		require.NoError(t, dbErr)
		assert.Equal(t, []types.ClaimTypeID{0, 2}, bitmap.Bits())
	}
}

func TestOnRegistrationSinglePositionUsesHookAmount(t *testing.T) {
	h := newHarness(t)
	positionID := types.PositionID(gofakeit.UUID())

	h.configureClaimType(t, 1, types.ClaimTypeConfig{DerivativeContract: testContract}, "")

	err := h.service.OnRegistration(
		context.Background(), testAuthorityID, testBeneficiary, sdkmath.NewInt(300),
		[]types.PositionID{positionID},
		[]types.CreateInstruction{{ClaimTypeID: 1}},
	)
	require.Nil(t, err)

	require.Len(t, h.contract.mints, 1)
	assert.Equal(t, sdkmath.NewInt(300), h.contract.mints[0].amount)
	assert.Zero(t, h.authority.balanceCalls)
}

func TestOnRegistrationRejectsDuplicateClaimTypes(t *testing.T) {
	h := newHarness(t)
	positionID := types.PositionID(gofakeit.UUID())
	h.configureClaimType(t, 1, types.ClaimTypeConfig{DerivativeContract: testContract}, "")

	err := h.service.OnRegistration(
		context.Background(), testAuthorityID, testBeneficiary, sdkmath.NewInt(100),
		[]types.PositionID{positionID},
		[]types.CreateInstruction{{ClaimTypeID: 1}, {ClaimTypeID: 1, HelperOverride: "helper-a"}},
	)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, types.DuplicateClaimType, err.ErrorCode)
	assert.Empty(t, h.contract.mints)
}

func TestOnRegistrationRejectsEmptyBatch(t *testing.T) {
	h := newHarness(t)

	err := h.service.OnRegistration(
		context.Background(), testAuthorityID, testBeneficiary, sdkmath.NewInt(100),
		nil, []types.CreateInstruction{{ClaimTypeID: 1}},
	)
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
}

func TestOnRegistrationRejectsNonAuthority(t *testing.T) {
	h := newHarness(t)

	err := h.service.OnRegistration(
		context.Background(), "stranger", testBeneficiary, sdkmath.NewInt(100),
		[]types.PositionID{types.PositionID(gofakeit.UUID())},
		[]types.CreateInstruction{{ClaimTypeID: 1}},
	)
	require.NotNil(t, err)
	assert.Equal(t, types.UnauthorizedCaller, err.ErrorCode)
}

func TestOnRegistrationRedeliveryConverges(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())

	h.configureClaimType(t, 0, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.configureClaimType(t, 2, types.ClaimTypeConfig{DerivativeContract: testContract}, "")

	instructions := []types.CreateInstruction{{ClaimTypeID: 0}, {ClaimTypeID: 2}}
	require.Nil(t, h.service.OnRegistration(
		ctx, testAuthorityID, testBeneficiary, sdkmath.NewInt(100),
		[]types.PositionID{positionID}, instructions,
	))

	// the redelivered hook skips the already-outstanding pairs
	require.Nil(t, h.service.OnRegistration(
		ctx, testAuthorityID, testBeneficiary, sdkmath.NewInt(100),
		[]types.PositionID{positionID}, instructions,
	))
	assert.Len(t, h.contract.mints, 2)
}

func TestOnRedemptionSweepsOutstandingClaims(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())
	owner := types.Ref("owner-1")

	h.configureClaimType(t, 0, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.configureClaimType(t, 2, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positionID] = sdkmath.NewInt(100)

	require.Nil(t, h.service.OnRegistration(
		ctx, testAuthorityID, testBeneficiary, sdkmath.NewInt(100),
		[]types.PositionID{positionID},
		[]types.CreateInstruction{{ClaimTypeID: 0}, {ClaimTypeID: 2}},
	))

	err := h.service.OnRedemption(ctx, testAuthorityID, positionID, owner)
	require.Nil(t, err)

	require.Len(t, h.contract.burns, 2)
	for _, burn := range h.contract.burns {
		assert.Equal(t, owner, burn.caller)
		assert.Equal(t, owner, burn.from)
	}

	unlocked, lockErr := h.service.IsUnlocked(ctx, testAuthorityID, positionID)
	require.Nil(t, lockErr)
	assert.True(t, unlocked)

	// sweeping an already-unlocked position is a no-op
	require.Nil(t, h.service.OnRedemption(ctx, testAuthorityID, positionID, owner))
	assert.Len(t, h.contract.burns, 2)
}

func TestOnRedemptionRejectsNonAuthority(t *testing.T) {
	h := newHarness(t)

	err := h.service.OnRedemption(
		context.Background(), "stranger", types.PositionID(gofakeit.UUID()), "owner-1",
	)
	require.NotNil(t, err)
	assert.Equal(t, types.UnauthorizedCaller, err.ErrorCode)
}

func TestIsUnlockedFailsOpenForForeignAuthority(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())

	h.configureClaimType(t, 3, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positionID] = sdkmath.NewInt(100)
	h.authority.approve(testCaller, positionID)
	require.Nil(t, h.service.Create(ctx, testCaller, 3, positionID, testBeneficiary, sdkmath.Int{}, ""))

	// locked under the configured authority
	unlocked, err := h.service.IsUnlocked(ctx, testAuthorityID, positionID)
	require.Nil(t, err)
	assert.False(t, unlocked)

	// a foreign authority must never be able to brick withdrawals
	unlocked, err = h.service.IsUnlocked(ctx, "other-authority", positionID)
	require.Nil(t, err)
	assert.True(t, unlocked)
}

func TestProcessHookEvent(t *testing.T) {
	t.Run("registered event", func(t *testing.T) {
		h := newHarness(t)
		positionID := types.PositionID(gofakeit.UUID())
		h.configureClaimType(t, 1, types.ClaimTypeConfig{DerivativeContract: testContract}, "")

		err := h.service.ProcessHookEvent(context.Background(), types.HookEvent{
			EventType:     types.EventPositionRegistered,
			Authority:     testAuthorityID,
			Beneficiary:   testBeneficiary,
			StakingAmount: sdkmath.NewInt(50),
			PositionIDs:   []types.PositionID{positionID},
			Instructions:  []byte(`[{"claim_type_id":1}]`),
		})
		require.Nil(t, err)
		assert.Len(t, h.contract.mints, 1)
	})

	t.Run("redeemed event", func(t *testing.T) {
		h := newHarness(t)
		positionID := types.PositionID(gofakeit.UUID())

		err := h.service.ProcessHookEvent(context.Background(), types.HookEvent{
			EventType:  types.EventPositionRedeemed,
			Authority:  testAuthorityID,
			PositionID: positionID,
			Owner:      "owner-1",
		})
		require.Nil(t, err)
	})

	t.Run("malformed instructions", func(t *testing.T) {
		h := newHarness(t)

		err := h.service.ProcessHookEvent(context.Background(), types.HookEvent{
			EventType:     types.EventPositionRegistered,
			Authority:     testAuthorityID,
			StakingAmount: sdkmath.NewInt(50),
			PositionIDs:   []types.PositionID{types.PositionID(gofakeit.UUID())},
			Instructions:  []byte(`{"claim_type_id":1}`),
		})
		require.NotNil(t, err)
		assert.Equal(t, types.ValidationError, err.ErrorCode)
	})

	t.Run("unknown event type", func(t *testing.T) {
		h := newHarness(t)

		err := h.service.ProcessHookEvent(context.Background(), types.HookEvent{
			EventType: "authority.v1.EventUnknown",
		})
		require.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	})
}
