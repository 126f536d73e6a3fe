// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package harvest

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
)

var (
	slotSnapshots  = storage.Slot("temp-balance")
	slotValidators = storage.Slot("validators")
)

// Service keeps the state that spans the two phases of a harvest round: the
// reward balance captured before claims are dispatched, and the validators
// claims are requested from.
type Service struct {
	snapshots  *storage.Mapping[alliance.AssetKey, *uint256.Int]
	validators *storage.Set
}

func New(sctx *storage.Context) *Service {
	return &Service{
		snapshots:  storage.NewMapping[alliance.AssetKey, *uint256.Int](sctx, slotSnapshots),
		validators: storage.NewSet(sctx, slotValidators),
	}
}

// SetSnapshot opens a round for reward. A round left open by an earlier
// request is overwritten.
func (s *Service) SetSnapshot(reward alliance.AssetKey, balance *uint256.Int) error {
	if err := s.snapshots.Set(reward, balance); err != nil {
		return errors.Wrap(err, "failed to set harvest snapshot")
	}
	return nil
}

// Snapshot returns the balance captured for the open round of reward.
func (s *Service) Snapshot(reward alliance.AssetKey) (*uint256.Int, bool, error) {
	balance, exists, err := s.snapshots.Lookup(reward)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to get harvest snapshot")
	}
	return balance, exists, nil
}

// RaiseSnapshot excludes amount of reward from the open round, so funds that
// were already attributed elsewhere are not collected twice.
func (s *Service) RaiseSnapshot(reward alliance.AssetKey, amount *uint256.Int) error {
	balance, exists, err := s.Snapshot(reward)
	if err != nil || !exists {
		return err
	}
	raised, err := alliance.AddAmount(balance, amount)
	if err != nil {
		return reverts.Arith(err)
	}
	return s.SetSnapshot(reward, raised)
}

// ClearSnapshot closes the round of reward.
func (s *Service) ClearSnapshot(reward alliance.AssetKey) {
	s.snapshots.Delete(reward)
}

// AddValidator records a validator the hub delegated to.
func (s *Service) AddValidator(validator alliance.Address) error {
	_, err := s.validators.Add(validator.String())
	return err
}

// Validators lists every validator the hub ever delegated to.
func (s *Service) Validators() ([]alliance.Address, error) {
	members, err := s.validators.Members()
	if err != nil {
		return nil, err
	}
	addrs := make([]alliance.Address, 0, len(members))
	for _, m := range members {
		addr, err := alliance.ParseAddress(m)
		if err != nil {
			return nil, errors.Wrap(err, "corrupted validator set")
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
