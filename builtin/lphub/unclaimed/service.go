// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package unclaimed

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
)

var slotUnclaimed = storage.Slot("unclaimed-rewards")

// Service holds rewards that were settled but not yet paid out, keyed by
// (user, staked asset, reward asset).
type Service struct {
	amounts *storage.Mapping[storage.CompositeKey, *uint256.Int]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		amounts: storage.NewMapping[storage.CompositeKey, *uint256.Int](sctx, slotUnclaimed),
	}
}

func key(user alliance.Address, asset, reward alliance.AssetKey) storage.CompositeKey {
	return storage.Join(user, asset, reward)
}

func (s *Service) Get(user alliance.Address, asset, reward alliance.AssetKey) (*uint256.Int, error) {
	amount, err := s.amounts.Get(key(user, asset, reward))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unclaimed rewards")
	}
	return amount, nil
}

// Add credits amount. Zero amounts leave storage untouched.
func (s *Service) Add(user alliance.Address, asset, reward alliance.AssetKey, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	current, err := s.Get(user, asset, reward)
	if err != nil {
		return err
	}
	sum, err := alliance.AddAmount(current, amount)
	if err != nil {
		return reverts.Arith(err)
	}
	if err := s.amounts.Set(key(user, asset, reward), sum); err != nil {
		return errors.Wrap(err, "failed to set unclaimed rewards")
	}
	return nil
}

// Take returns the stored amount and resets it to zero.
func (s *Service) Take(user alliance.Address, asset, reward alliance.AssetKey) (*uint256.Int, error) {
	amount, err := s.Get(user, asset, reward)
	if err != nil {
		return nil, err
	}
	if !amount.IsZero() {
		s.amounts.Delete(key(user, asset, reward))
	}
	return amount, nil
}
