// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
)

var (
	slotBalances   = storage.Slot("balances")
	slotTotals     = storage.Slot("total-balances")
	slotUserAssets = storage.Slot("user-assets")
	slotAssets     = storage.Slot("staked-assets")
)

// Service keeps per-user and per-asset stake balances.
// Every mutation moves the user balance and the asset total together.
type Service struct {
	balances   *storage.Mapping[storage.CompositeKey, *uint256.Int]
	totals     *storage.Mapping[alliance.AssetKey, *uint256.Int]
	userAssets *storage.MappingSet[alliance.Address]
	assets     *storage.Set
}

func New(sctx *storage.Context) *Service {
	return &Service{
		balances:   storage.NewMapping[storage.CompositeKey, *uint256.Int](sctx, slotBalances),
		totals:     storage.NewMapping[alliance.AssetKey, *uint256.Int](sctx, slotTotals),
		userAssets: storage.NewMappingSet[alliance.Address](sctx, slotUserAssets),
		assets:     storage.NewSet(sctx, slotAssets),
	}
}

func balanceKey(user alliance.Address, asset alliance.AssetKey) storage.CompositeKey {
	return storage.Join(user, asset)
}

// Balance returns the stake of user in asset.
func (s *Service) Balance(user alliance.Address, asset alliance.AssetKey) (*uint256.Int, error) {
	bal, err := s.balances.Get(balanceKey(user, asset))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// Total returns the summed stake of every user in asset.
func (s *Service) Total(asset alliance.AssetKey) (*uint256.Int, error) {
	total, err := s.totals.Get(asset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total balance")
	}
	return total, nil
}

// Increase adds amt to the stake of user.
func (s *Service) Increase(user alliance.Address, asset alliance.AssetKey, amt *uint256.Int) error {
	bal, err := s.Balance(user, asset)
	if err != nil {
		return err
	}
	total, err := s.Total(asset)
	if err != nil {
		return err
	}
	if bal, err = alliance.AddAmount(bal, amt); err != nil {
		return reverts.Arith(err)
	}
	if total, err = alliance.AddAmount(total, amt); err != nil {
		return reverts.Arith(err)
	}

	if err := s.balances.Set(balanceKey(user, asset), bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := s.totals.Set(asset, total); err != nil {
		return errors.Wrap(err, "failed to set total balance")
	}
	if _, err := s.userAssets.At(user).Add(asset.String()); err != nil {
		return err
	}
	_, err = s.assets.Add(asset.String())
	return err
}

// Decrease removes amt from the stake of user, failing with InsufficientBalance
// when amt exceeds it.
func (s *Service) Decrease(user alliance.Address, asset alliance.AssetKey, amt *uint256.Int) error {
	bal, err := s.Balance(user, asset)
	if err != nil {
		return err
	}
	if bal.Lt(amt) {
		return reverts.Newf(reverts.InsufficientBalance, "%v staked, %v requested", bal, amt)
	}
	total, err := s.Total(asset)
	if err != nil {
		return err
	}
	if total, err = alliance.SubAmount(total, amt); err != nil {
		return reverts.Arith(err)
	}
	bal = new(uint256.Int).Sub(bal, amt)

	if bal.IsZero() {
		s.balances.Delete(balanceKey(user, asset))
	} else if err := s.balances.Set(balanceKey(user, asset), bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := s.totals.Set(asset, total); err != nil {
		return errors.Wrap(err, "failed to set total balance")
	}
	return nil
}

// UserAssets lists every asset user has ever staked, in first-stake order.
func (s *Service) UserAssets(user alliance.Address) ([]alliance.AssetKey, error) {
	return toKeys(s.userAssets.At(user).Members())
}

// Assets lists every asset ever staked.
func (s *Service) Assets() ([]alliance.AssetKey, error) {
	return toKeys(s.assets.Members())
}

func toKeys(members []string, err error) ([]alliance.AssetKey, error) {
	if err != nil {
		return nil, err
	}
	keys := make([]alliance.AssetKey, 0, len(members))
	for _, m := range members {
		keys = append(keys, alliance.AssetKey(m))
	}
	return keys, nil
}
