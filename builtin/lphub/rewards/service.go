// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
)

var (
	slotRates        = storage.Slot("asset-reward-rate")
	slotUserRates    = storage.Slot("user-asset-reward-rate")
	slotRewardAssets = storage.Slot("asset-reward-assets")
)

// Balances exposes the stake balances settlement depends on.
type Balances interface {
	Balance(user alliance.Address, asset alliance.AssetKey) (*uint256.Int, error)
	Total(asset alliance.AssetKey) (*uint256.Int, error)
}

// Service maintains the cumulative reward rate of every (asset, reward) pair and
// the rate each user last observed. A user's pending reward is
// floor((rate - snapshot) * balance).
type Service struct {
	rates        *storage.Mapping[storage.CompositeKey, *big.Int]
	userRates    *storage.Mapping[storage.CompositeKey, *big.Int]
	rewardAssets *storage.MappingSet[alliance.AssetKey]
	balances     Balances
}

func New(sctx *storage.Context, balances Balances) *Service {
	return &Service{
		rates:        storage.NewMapping[storage.CompositeKey, *big.Int](sctx, slotRates),
		userRates:    storage.NewMapping[storage.CompositeKey, *big.Int](sctx, slotUserRates),
		rewardAssets: storage.NewMappingSet[alliance.AssetKey](sctx, slotRewardAssets),
		balances:     balances,
	}
}

func rateKey(asset, reward alliance.AssetKey) storage.CompositeKey {
	return storage.Join(asset, reward)
}

func userRateKey(user alliance.Address, asset, reward alliance.AssetKey) storage.CompositeKey {
	return storage.Join(user, asset, reward)
}

// Track registers reward as a payout asset of asset, creating a zero rate.
// It reports whether the pair was new.
func (s *Service) Track(asset alliance.AssetKey, reward alliance.AssetInfo) (bool, error) {
	added, err := s.rewardAssets.At(asset).Add(reward.String())
	if err != nil || !added {
		return false, err
	}
	key := rateKey(asset, reward.Key())
	if _, exists, err := s.rates.Lookup(key); err != nil {
		return false, err
	} else if !exists {
		if err := s.rates.Set(key, new(big.Int)); err != nil {
			return false, errors.Wrap(err, "failed to init reward rate")
		}
	}
	return true, nil
}

// IsTracked reports whether reward is a payout asset of asset.
func (s *Service) IsTracked(asset alliance.AssetKey, reward alliance.AssetInfo) (bool, error) {
	return s.rewardAssets.At(asset).Contains(reward.String())
}

// Rewards lists the payout assets of asset in registration order.
func (s *Service) Rewards(asset alliance.AssetKey) ([]alliance.AssetInfo, error) {
	members, err := s.rewardAssets.At(asset).Members()
	if err != nil {
		return nil, err
	}
	infos := make([]alliance.AssetInfo, 0, len(members))
	for _, m := range members {
		info, err := alliance.ParseAssetInfo(m)
		if err != nil {
			return nil, errors.Wrap(err, "corrupted reward asset")
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Rate returns the cumulative reward per staked unit.
func (s *Service) Rate(asset, reward alliance.AssetKey) (math.LegacyDec, error) {
	bits, err := s.rates.Get(rateKey(asset, reward))
	if err != nil {
		return math.LegacyDec{}, errors.Wrap(err, "failed to get reward rate")
	}
	return alliance.DecFromBits(bits), nil
}

// Snapshot returns the rate the user last observed, if any.
func (s *Service) Snapshot(user alliance.Address, asset, reward alliance.AssetKey) (math.LegacyDec, bool, error) {
	bits, exists, err := s.userRates.Lookup(userRateKey(user, asset, reward))
	if err != nil {
		return math.LegacyDec{}, false, errors.Wrap(err, "failed to get user reward rate")
	}
	return alliance.DecFromBits(bits), exists, nil
}

func (s *Service) setSnapshot(user alliance.Address, asset, reward alliance.AssetKey, rate math.LegacyDec) error {
	if err := s.userRates.Set(userRateKey(user, asset, reward), alliance.DecBits(rate)); err != nil {
		return errors.Wrap(err, "failed to set user reward rate")
	}
	return nil
}

// Settle computes the reward the user accrued since the last settlement.
//
// A user without a snapshot and without a balance gets the current rate as
// snapshot and nothing is credited. A user holding a balance but no snapshot
// staked before reward was tracked: the rate started at zero then, so the
// whole rate is owed. The snapshot only advances when the accrued amount is
// at least one unit, so fractions below one unit keep accruing.
// Callers must settle before mutating the user's balance.
func (s *Service) Settle(user alliance.Address, asset, reward alliance.AssetKey) (*uint256.Int, error) {
	rate, err := s.Rate(asset, reward)
	if err != nil {
		return nil, err
	}
	snapshot, exists, err := s.Snapshot(user, asset, reward)
	if err != nil {
		return nil, err
	}
	if !exists {
		balance, err := s.balances.Balance(user, asset)
		if err != nil {
			return nil, err
		}
		if balance.IsZero() {
			return new(uint256.Int), s.setSnapshot(user, asset, reward, rate)
		}
		snapshot = math.LegacyZeroDec()
	}

	delta, err := s.accrued(user, asset, rate, snapshot)
	if err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return delta, nil
	}
	return delta, s.setSnapshot(user, asset, reward, rate)
}

// FastForward moves the user's snapshot to the current rate. It follows every
// balance change, after which accrual restarts at the new balance.
func (s *Service) FastForward(user alliance.Address, asset, reward alliance.AssetKey) error {
	rate, err := s.Rate(asset, reward)
	if err != nil {
		return err
	}
	return s.setSnapshot(user, asset, reward, rate)
}

// Pending returns what Settle would credit, without touching storage.
func (s *Service) Pending(user alliance.Address, asset, reward alliance.AssetKey) (*uint256.Int, error) {
	rate, err := s.Rate(asset, reward)
	if err != nil {
		return nil, err
	}
	snapshot, exists, err := s.Snapshot(user, asset, reward)
	if err != nil {
		return nil, err
	}
	if !exists {
		snapshot = math.LegacyZeroDec()
	}
	return s.accrued(user, asset, rate, snapshot)
}

func (s *Service) accrued(user alliance.Address, asset alliance.AssetKey, rate, snapshot math.LegacyDec) (*uint256.Int, error) {
	balance, err := s.balances.Balance(user, asset)
	if err != nil {
		return nil, err
	}
	if balance.IsZero() || rate.Equal(snapshot) {
		return new(uint256.Int), nil
	}
	delta, err := alliance.MulAmountFloor(rate.Sub(snapshot), balance)
	if err != nil {
		return nil, reverts.Arith(err)
	}
	return delta, nil
}

// BumpRate spreads amount of reward over the current stake of asset:
// rate += amount / total. Rewards for an asset nobody stakes are dropped and
// false is returned.
func (s *Service) BumpRate(asset alliance.AssetKey, reward alliance.AssetInfo, amount *uint256.Int) (bool, error) {
	if amount.IsZero() {
		return false, nil
	}
	total, err := s.balances.Total(asset)
	if err != nil {
		return false, err
	}
	if total.IsZero() {
		return false, nil
	}
	increment, err := alliance.QuoAmountFloor(amount, total)
	if err != nil {
		return false, reverts.Arith(err)
	}
	if err := s.AddRate(asset, reward, increment); err != nil {
		return false, err
	}
	return true, nil
}

// AddRate raises the cumulative rate by a non-negative increment.
func (s *Service) AddRate(asset alliance.AssetKey, reward alliance.AssetInfo, increment math.LegacyDec) error {
	if increment.IsNegative() {
		return reverts.Newf(reverts.Overflow, "negative reward rate increment %v", increment)
	}
	if _, err := s.Track(asset, reward); err != nil {
		return err
	}
	rate, err := s.Rate(asset, reward.Key())
	if err != nil {
		return err
	}
	err = alliance.GuardDec(func() error {
		rate = rate.Add(increment)
		return nil
	})
	if err != nil {
		return reverts.Arith(err)
	}
	if err := s.rates.Set(rateKey(asset, reward.Key()), alliance.DecBits(rate)); err != nil {
		return errors.Wrap(err, "failed to set reward rate")
	}
	return nil
}
