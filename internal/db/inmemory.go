package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/tentaclefi/tentacle-locker/internal/types"
)

// InMemoryStore implements DbInterface with process-local maps. It backs
// unit tests and the dependency-free dev mode; production runs on Mongo.
// The single mutex gives it the same conditional-transition contract as the
// Mongo store's per-document atomic updates.
type InMemoryStore struct {
	mu      sync.Mutex
	bitmaps map[types.PositionID]types.ClaimBitmap
	configs map[types.ClaimTypeID]claimTypeEntry
}

type claimTypeEntry struct {
	cfg           types.ClaimTypeConfig
	defaultHelper types.Ref
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		bitmaps: make(map[types.PositionID]types.ClaimBitmap),
		configs: make(map[types.ClaimTypeID]claimTypeEntry),
	}
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *InMemoryStore) GetOutstandingClaims(
	ctx context.Context, positionID types.PositionID,
) (types.ClaimBitmap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bitmaps[positionID], nil
}

func (s *InMemoryStore) MarkOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bitmap := s.bitmaps[positionID]
	if bitmap.IsSet(claimTypeID) {
		return &StateConflictError{
			Key:     string(positionID),
			Message: fmt.Sprintf("claim type %d already outstanding for position %s", claimTypeID, positionID),
		}
	}
	s.bitmaps[positionID] = bitmap.Set(claimTypeID)
	return nil
}

func (s *InMemoryStore) ClearOutstanding(
	ctx context.Context, positionID types.PositionID, claimTypeID types.ClaimTypeID,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bitmap := s.bitmaps[positionID]
	if !bitmap.IsSet(claimTypeID) {
		return &StateConflictError{
			Key:     string(positionID),
			Message: fmt.Sprintf("claim type %d not outstanding for position %s", claimTypeID, positionID),
		}
	}
	s.bitmaps[positionID] = bitmap.Clear(claimTypeID)
	return nil
}

func (s *InMemoryStore) CountLockedPositions(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, bitmap := range s.bitmaps {
		if !bitmap.IsEmpty() {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) SaveClaimTypeConfig(
	ctx context.Context,
	claimTypeID types.ClaimTypeID,
	cfg types.ClaimTypeConfig,
	defaultHelper types.Ref,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, overwritten := s.configs[claimTypeID]
	s.configs[claimTypeID] = claimTypeEntry{cfg: cfg, defaultHelper: defaultHelper}
	return overwritten, nil
}

func (s *InMemoryStore) GetClaimTypeConfig(
	ctx context.Context, claimTypeID types.ClaimTypeID,
) (types.ClaimTypeConfig, types.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.configs[claimTypeID]
	if !ok {
		return types.ClaimTypeConfig{}, "", nil
	}
	return entry.cfg, entry.defaultHelper, nil
}
