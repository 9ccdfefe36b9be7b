package locker

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

func TestDestroyBurnsAndClears(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())
	from := types.Ref("holder-1")

	h.configureClaimType(t, 3, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positionID] = sdkmath.NewInt(1000)
	h.authority.approve(testCaller, positionID)
	require.Nil(t, h.service.Create(ctx, testCaller, 3, positionID, testBeneficiary, sdkmath.Int{}, ""))

	// the claim weight moved between create and destroy; the burn settles
	// against the current value, not the creation-time snapshot
	h.authority.balances[positionID] = sdkmath.NewInt(1400)

	err := h.service.Destroy(ctx, testCaller, 3, positionID, from)
	require.Nil(t, err)

	require.Len(t, h.contract.burns, 1)
	burn := h.contract.burns[0]
	assert.Equal(t, testContract, burn.contract)
	assert.Equal(t, testCaller, burn.caller)
	assert.Equal(t, from, burn.from)
	assert.Equal(t, sdkmath.NewInt(1400), burn.amount)

	unlocked, lockErr := h.service.IsUnlocked(ctx, testAuthorityID, positionID)
	require.Nil(t, lockErr)
	assert.True(t, unlocked)
}

func TestDestroyRejectsNotOutstanding(t *testing.T) {
	h := newHarness(t)
	positionID := types.PositionID(gofakeit.UUID())
	h.configureClaimType(t, 3, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.approve(testCaller, positionID)

	err := h.service.Destroy(context.Background(), testCaller, 3, positionID, "holder-1")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.ClaimNotCreated, err.ErrorCode)
	assert.Empty(t, h.contract.burns)
}

func TestDestroyRejectsUnconfiguredClaimType(t *testing.T) {
	h := newHarness(t)
	positionID := types.PositionID(gofakeit.UUID())
	h.authority.approve(testCaller, positionID)

	err := h.service.Destroy(context.Background(), testCaller, 9, positionID, "holder-1")
	require.NotNil(t, err)
	assert.Equal(t, types.ClaimTypeNotConfigured, err.ErrorCode)
}

func TestDestroyLeavesClaimOutstandingOnBurnFailure(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())

	h.configureClaimType(t, 3, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positionID] = sdkmath.NewInt(100)
	h.authority.approve(testCaller, positionID)
	require.Nil(t, h.service.Create(ctx, testCaller, 3, positionID, testBeneficiary, sdkmath.Int{}, ""))

	h.contract.burnErr = errors.New("burn rejected")

	err := h.service.Destroy(ctx, testCaller, 3, positionID, "holder-1")
	require.NotNil(t, err)
	assert.Equal(t, types.InternalServiceError, err.ErrorCode)

	bitmap, dbErr := h.store.GetOutstandingClaims(ctx, positionID)
	require.NoError(t, dbErr)
	assert.True(t, bitmap.IsSet(3))
}

func TestDestroyUnauthorizedCaller(t *testing.T) {
	h := newHarness(t)
	positionID := types.PositionID(gofakeit.UUID())

	err := h.service.Destroy(context.Background(), "stranger", 3, positionID, "holder-1")
	require.NotNil(t, err)
	assert.Equal(t, types.UnauthorizedCaller, err.ErrorCode)
}

// concurrent destroys of the same (position, claim type) must elect a
// single winner before the contract is reached: exactly one burn, every
// loser gets NOT_CREATED
func TestConcurrentDestroysBurnOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())

	h.configureClaimType(t, 3, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positionID] = sdkmath.NewInt(100)
	h.authority.approve(testCaller, positionID)
	require.Nil(t, h.service.Create(ctx, testCaller, 3, positionID, testBeneficiary, sdkmath.Int{}, ""))

	const destroyers = 16
	var wg sync.WaitGroup
	results := make([]*types.Error, destroyers)

	for i := 0; i < destroyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = h.service.Destroy(ctx, testCaller, 3, positionID, "holder-1")
		}(i)
	}
	wg.Wait()

	var winners int
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.Equal(t, types.ClaimNotCreated, err.ErrorCode)
	}
	assert.Equal(t, 1, winners)
	assert.Len(t, h.contract.burns, 1)
}

func TestCreateDestroyRoundTrip(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	positionID := types.PositionID(gofakeit.UUID())

	h.configureClaimType(t, 3, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.configureClaimType(t, 7, types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	h.authority.balances[positionID] = sdkmath.NewInt(100)
	h.authority.approve(testCaller, positionID)

	// an unrelated claim stays outstanding across the round trip
	require.Nil(t, h.service.Create(ctx, testCaller, 7, positionID, testBeneficiary, sdkmath.Int{}, ""))
	before, dbErr := h.store.GetOutstandingClaims(ctx, positionID)
	require.NoError(t, dbErr)

	require.Nil(t, h.service.Create(ctx, testCaller, 3, positionID, testBeneficiary, sdkmath.Int{}, ""))
	require.Nil(t, h.service.Destroy(ctx, testCaller, 3, positionID, "holder-1"))

	after, dbErr := h.store.GetOutstandingClaims(ctx, positionID)
	require.NoError(t, dbErr)
	assert.Equal(t, before, after)
}
