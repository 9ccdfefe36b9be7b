package locker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

func TestConfigureStoresClaimType(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	cfg := types.ClaimTypeConfig{
		HasDefaultHelper:   true,
		DerivativeContract: testContract,
	}

	err := h.service.Configure(ctx, testAdminID, 5, cfg, "helper-default")
	require.Nil(t, err)

	stored, defaultHelper, dbErr := h.store.GetClaimTypeConfig(ctx, 5)
	require.NoError(t, dbErr)
	assert.Equal(t, cfg, stored)
	assert.Equal(t, types.Ref("helper-default"), defaultHelper)
}

func TestConfigureOverwritesExisting(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.Nil(t, h.service.Configure(ctx, testAdminID, 5,
		types.ClaimTypeConfig{DerivativeContract: "contract-old"}, ""))
	require.Nil(t, h.service.Configure(ctx, testAdminID, 5,
		types.ClaimTypeConfig{DerivativeContract: "contract-new"}, ""))

	stored, _, dbErr := h.store.GetClaimTypeConfig(ctx, 5)
	require.NoError(t, dbErr)
	assert.Equal(t, types.Ref("contract-new"), stored.DerivativeContract)
}

func TestConfigureRejectsNonAdmin(t *testing.T) {
	h := newHarness(t)

	err := h.service.Configure(context.Background(), testAuthorityID, 5,
		types.ClaimTypeConfig{DerivativeContract: testContract}, "")
	require.NotNil(t, err)
	assert.Equal(t, types.UnauthorizedCaller, err.ErrorCode)
}

func TestConfigureRequiresDerivativeContract(t *testing.T) {
	h := newHarness(t)

	err := h.service.Configure(context.Background(), testAdminID, 5,
		types.ClaimTypeConfig{HasDefaultHelper: true}, "helper-default")
	require.NotNil(t, err)
	assert.Equal(t, types.ValidationError, err.ErrorCode)
}
