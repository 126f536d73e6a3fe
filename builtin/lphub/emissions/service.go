// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package emissions

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
)

var (
	slotWhitelist = storage.Slot("whitelist")
	slotWeights   = storage.Slot("reward-weights")
)

// Entry is one whitelisted asset and its share of every harvest.
type Entry struct {
	Asset  alliance.AssetKey `json:"asset"`
	Weight math.LegacyDec    `json:"distribution"`
}

// Delta is a signed weight adjustment.
type Delta struct {
	Asset alliance.AssetKey
	Delta math.LegacyDec
}

// Service owns the whitelist and its distribution weights.
// The weights of all whitelisted assets never sum above one.
type Service struct {
	whitelist *storage.Set
	weights   *storage.Mapping[alliance.AssetKey, *big.Int]
}

func New(sctx *storage.Context) *Service {
	return &Service{
		whitelist: storage.NewSet(sctx, slotWhitelist),
		weights:   storage.NewMapping[alliance.AssetKey, *big.Int](sctx, slotWeights),
	}
}

// Add whitelists asset with a zero weight. Re-adding keeps the current weight.
func (s *Service) Add(asset alliance.AssetKey) (bool, error) {
	added, err := s.whitelist.Add(asset.String())
	if err != nil || !added {
		return false, err
	}
	return true, s.setWeight(asset, math.LegacyZeroDec())
}

// Remove drops asset and its weight from the whitelist.
func (s *Service) Remove(asset alliance.AssetKey) (bool, error) {
	removed, err := s.whitelist.Remove(asset.String())
	if err != nil || !removed {
		return false, err
	}
	s.weights.Delete(asset)
	return true, nil
}

func (s *Service) IsWhitelisted(asset alliance.AssetKey) (bool, error) {
	return s.whitelist.Contains(asset.String())
}

// Assets lists whitelisted assets in whitelisting order.
func (s *Service) Assets() ([]alliance.AssetKey, error) {
	members, err := s.whitelist.Members()
	if err != nil {
		return nil, err
	}
	keys := make([]alliance.AssetKey, 0, len(members))
	for _, m := range members {
		keys = append(keys, alliance.AssetKey(m))
	}
	return keys, nil
}

func (s *Service) Weight(asset alliance.AssetKey) (math.LegacyDec, error) {
	bits, err := s.weights.Get(asset)
	if err != nil {
		return math.LegacyDec{}, errors.Wrap(err, "failed to get weight")
	}
	return alliance.DecFromBits(bits), nil
}

func (s *Service) setWeight(asset alliance.AssetKey, w math.LegacyDec) error {
	if err := s.weights.Set(asset, alliance.DecBits(w)); err != nil {
		return errors.Wrap(err, "failed to set weight")
	}
	return nil
}

// Entries returns every whitelisted asset with its weight.
func (s *Service) Entries() ([]Entry, error) {
	assets, err := s.Assets()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(assets))
	for _, a := range assets {
		w, err := s.Weight(a)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Asset: a, Weight: w})
	}
	return entries, nil
}

// TotalWeight sums the weights of all whitelisted assets.
func (s *Service) TotalWeight() (math.LegacyDec, error) {
	entries, err := s.Entries()
	if err != nil {
		return math.LegacyDec{}, err
	}
	return sum(entries), nil
}

// UnallocatedShare returns 1 - TotalWeight.
func (s *Service) UnallocatedShare() (math.LegacyDec, error) {
	total, err := s.TotalWeight()
	if err != nil {
		return math.LegacyDec{}, err
	}
	if total.GT(math.LegacyOneDec()) {
		return math.LegacyDec{}, reverts.Newf(reverts.InvalidTotalDistribution, "total weight %v", total)
	}
	return math.LegacyOneDec().Sub(total), nil
}

// SetWeights assigns absolute weights. Assets not listed keep their weight.
// Nothing is written unless every weight lies in [0, 1] and the resulting
// total stays at or below one.
func (s *Service) SetWeights(updates []Entry) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	for _, u := range updates {
		if u.Weight.IsNil() || u.Weight.IsNegative() || u.Weight.GT(math.LegacyOneDec()) {
			return reverts.Newf(reverts.InvalidWeight, "%v for %v", u.Weight, u.Asset)
		}
		idx := indexOf(entries, u.Asset)
		if idx < 0 {
			return reverts.New(reverts.AssetNotWhitelisted, u.Asset.String())
		}
		entries[idx].Weight = u.Weight
	}
	return s.store(entries)
}

// ApplyDeltas adds signed adjustments to the current weights under the same
// bounds as SetWeights.
func (s *Service) ApplyDeltas(deltas []Delta) error {
	entries, err := s.Entries()
	if err != nil {
		return err
	}
	for _, d := range deltas {
		if d.Delta.IsNil() {
			return reverts.Newf(reverts.InvalidWeight, "missing delta for %v", d.Asset)
		}
		idx := indexOf(entries, d.Asset)
		if idx < 0 {
			return reverts.New(reverts.AssetNotWhitelisted, d.Asset.String())
		}
		w := entries[idx].Weight.Add(d.Delta)
		if w.IsNegative() || w.GT(math.LegacyOneDec()) {
			return reverts.Newf(reverts.InvalidWeight, "%v for %v", w, d.Asset)
		}
		entries[idx].Weight = w
	}
	return s.store(entries)
}

func (s *Service) store(entries []Entry) error {
	if total := sum(entries); total.GT(math.LegacyOneDec()) {
		return reverts.Newf(reverts.InvalidTotalDistribution, "total weight %v", total)
	}
	for _, e := range entries {
		if err := s.setWeight(e.Asset, e.Weight); err != nil {
			return err
		}
	}
	return nil
}

func sum(entries []Entry) math.LegacyDec {
	total := math.LegacyZeroDec()
	for _, e := range entries {
		total = total.Add(e.Weight)
	}
	return total
}

func indexOf(entries []Entry, asset alliance.AssetKey) int {
	for i, e := range entries {
		if e.Asset == asset {
			return i
		}
	}
	return -1
}
