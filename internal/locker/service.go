package locker

import (
	"github.com/tentaclefi/tentacle-locker/internal/clients/authority"
	"github.com/tentaclefi/tentacle-locker/internal/clients/derivative"
	"github.com/tentaclefi/tentacle-locker/internal/config"
	"github.com/tentaclefi/tentacle-locker/internal/db"
)

// Service is the lock/coordination core: it owns the outstanding-claim
// bitmaps and the claim-type registry, and mediates every create/destroy
// against the external authority, derivative and helper collaborators.
type Service struct {
	cfg       *config.Config
	db        db.DbInterface
	authority authority.AuthorityInterface
	contract  derivative.ContractInterface
	helper    derivative.HelperInterface
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	authority authority.AuthorityInterface,
	contract derivative.ContractInterface,
	helper derivative.HelperInterface,
) *Service {
	return &Service{
		cfg:       cfg,
		db:        db,
		authority: authority,
		contract:  contract,
		helper:    helper,
	}
}

func (s *Service) authorityIdentity() string {
	return s.cfg.Authority.Identity
}

func (s *Service) adminIdentity() string {
	return s.cfg.Authority.AdminIdentity
}
