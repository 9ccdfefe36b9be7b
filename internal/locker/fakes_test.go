package locker

import (
	"context"
	"sync"
	"testing"

	sdkmath "cosmossdk.io/math"

	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/db"
	"github.com/tentaclefi/tentacle-locker/internal/types"
)

const (
	testAuthorityID = "staking-authority"
	testAdminID     = "locker-admin"
)

type fakeAuthority struct {
	mu           sync.Mutex
	balances     map[types.PositionID]sdkmath.Int
	approved     map[string]bool
	balanceErr   error
	approveErr   error
	balanceCalls int
}

func newFakeAuthority() *fakeAuthority {
	return &fakeAuthority{
		balances: make(map[types.PositionID]sdkmath.Int),
		approved: make(map[string]bool),
	}
}

func (f *fakeAuthority) approve(caller types.Ref, positionID types.PositionID) {
	f.approved[caller.String()+"/"+string(positionID)] = true
}

func (f *fakeAuthority) StakingTokenBalance(
	_ context.Context, positionID types.PositionID,
) (sdkmath.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.balanceCalls++
	if f.balanceErr != nil {
		return sdkmath.Int{}, f.balanceErr
	}
	balance, ok := f.balances[positionID]
	if !ok {
		return sdkmath.ZeroInt(), nil
	}
	return balance, nil
}

func (f *fakeAuthority) LockManager(
	_ context.Context, _ types.PositionID,
) (types.Ref, error) {
	return testAuthorityID, nil
}

func (f *fakeAuthority) IsApprovedOrOwner(
	_ context.Context, caller types.Ref, positionID types.PositionID,
) (bool, error) {
	if f.approveErr != nil {
		return false, f.approveErr
	}
	return f.approved[caller.String()+"/"+string(positionID)], nil
}

type mintCall struct {
	contract types.Ref
	to       types.Ref
	amount   sdkmath.Int
}

type burnCall struct {
	contract types.Ref
	caller   types.Ref
	from     types.Ref
	amount   sdkmath.Int
}

type fakeContract struct {
	mu      sync.Mutex
	mints   []mintCall
	burns   []burnCall
	mintErr error
	burnErr error
}

func (f *fakeContract) Mint(
	_ context.Context, contract, to types.Ref, amount sdkmath.Int,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.mintErr != nil {
		return f.mintErr
	}
	f.mints = append(f.mints, mintCall{contract: contract, to: to, amount: amount})
	return nil
}

func (f *fakeContract) Burn(
	_ context.Context, contract, caller, from types.Ref, amount sdkmath.Int,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.burnErr != nil {
		return f.burnErr
	}
	f.burns = append(f.burns, burnCall{contract: contract, caller: caller, from: from, amount: amount})
	return nil
}

type createForCall struct {
	helper      types.Ref
	claimTypeID types.ClaimTypeID
	contract    types.Ref
	positionIDs []types.PositionID
	amount      sdkmath.Int
	beneficiary types.Ref
}

type fakeHelper struct {
	mu    sync.Mutex
	calls []createForCall
	err   error
}

func (f *fakeHelper) CreateFor(
	_ context.Context,
	helper types.Ref,
	claimTypeID types.ClaimTypeID,
	contract types.Ref,
	positionIDs []types.PositionID,
	amount sdkmath.Int,
	beneficiary types.Ref,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, createForCall{
		helper:      helper,
		claimTypeID: claimTypeID,
		contract:    contract,
		positionIDs: positionIDs,
		amount:      amount,
		beneficiary: beneficiary,
	})
	return nil
}

type harness struct {
	store     *db.InMemoryStore
	authority *fakeAuthority
	contract  *fakeContract
	helper    *fakeHelper
	service   *Service
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.Config{
		Authority: config.AuthorityConfig{
			Identity:      testAuthorityID,
			AdminIdentity: testAdminID,
		},
	}
	h := &harness{
		store:     db.NewInMemoryStore(),
		authority: newFakeAuthority(),
		contract:  &fakeContract{},
		helper:    &fakeHelper{},
	}
	h.service = NewService(cfg, h.store, h.authority, h.contract, h.helper)
	return h
}

func (h *harness) configureClaimType(
	t *testing.T,
	claimTypeID types.ClaimTypeID,
	cfg types.ClaimTypeConfig,
	defaultHelper types.Ref,
) {
	t.Helper()
	_, err := h.store.SaveClaimTypeConfig(context.Background(), claimTypeID, cfg, defaultHelper)
	if err != nil {
		t.Fatalf("failed to seed claim type %d: %v", claimTypeID, err)
	}
}
