// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
	"github.com/alliancehub/hub/builtin/reverts"
)

type (
	ConfigQuery              struct{}
	ValidatorsQuery          struct{}
	WhitelistedAssetsQuery   struct{}
	RewardDistributionQuery  struct{}
	TotalStakedBalancesQuery struct{}

	StakedBalanceQuery struct {
		User  alliance.Address
		Asset alliance.AssetInfo
	}
	PendingRewardsQuery struct {
		User   alliance.Address
		Asset  alliance.AssetInfo
		Reward alliance.AssetInfo
	}
	AllStakedBalancesQuery struct {
		User alliance.Address
	}
	AllPendingRewardsQuery struct {
		User alliance.Address
	}
)

type StakedBalance struct {
	Asset   alliance.AssetInfo `json:"asset"`
	Balance *uint256.Int       `json:"balance"`
}

type PendingReward struct {
	Asset   alliance.AssetInfo `json:"deposit_asset"`
	Reward  alliance.AssetInfo `json:"reward_asset"`
	Rewards *uint256.Int       `json:"rewards"`
}

func (h *Hub) Validators() ([]alliance.Address, error) {
	return h.harvest.Validators()
}

func (h *Hub) WhitelistedAssets() ([]alliance.AssetInfo, error) {
	keys, err := h.emissions.Assets()
	if err != nil {
		return nil, err
	}
	return keysToInfos(keys)
}

func (h *Hub) RewardDistribution() ([]emissions.Entry, error) {
	return h.emissions.Entries()
}

func (h *Hub) StakedBalance(user alliance.Address, asset alliance.AssetInfo) (*StakedBalance, error) {
	bal, err := h.ledger.Balance(user, asset.Key())
	if err != nil {
		return nil, err
	}
	return &StakedBalance{Asset: asset, Balance: bal}, nil
}

// PendingRewards returns settled but unclaimed rewards plus what settlement
// would credit now.
func (h *Hub) PendingRewards(user alliance.Address, asset, reward alliance.AssetInfo) (*PendingReward, error) {
	key := asset.Key()
	pending, err := h.rewards.Pending(user, key, reward.Key())
	if err != nil {
		return nil, err
	}
	stored, err := h.unclaimed.Get(user, key, reward.Key())
	if err != nil {
		return nil, err
	}
	total, err := alliance.AddAmount(pending, stored)
	if err != nil {
		return nil, reverts.Arith(err)
	}
	return &PendingReward{Asset: asset, Reward: reward, Rewards: total}, nil
}

func (h *Hub) AllStakedBalances(user alliance.Address) ([]StakedBalance, error) {
	keys, err := h.ledger.UserAssets(user)
	if err != nil {
		return nil, err
	}
	infos, err := keysToInfos(keys)
	if err != nil {
		return nil, err
	}
	out := make([]StakedBalance, 0, len(infos))
	for _, info := range infos {
		b, err := h.StakedBalance(user, info)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (h *Hub) AllPendingRewards(user alliance.Address) ([]PendingReward, error) {
	keys, err := h.ledger.UserAssets(user)
	if err != nil {
		return nil, err
	}
	var out []PendingReward
	for _, key := range keys {
		asset, err := key.Info()
		if err != nil {
			return nil, err
		}
		rewardInfos, err := h.rewards.Rewards(key)
		if err != nil {
			return nil, err
		}
		for _, r := range rewardInfos {
			p, err := h.PendingRewards(user, asset, r)
			if err != nil {
				return nil, err
			}
			out = append(out, *p)
		}
	}
	return out, nil
}

func (h *Hub) TotalStakedBalances() ([]StakedBalance, error) {
	keys, err := h.ledger.Assets()
	if err != nil {
		return nil, err
	}
	out := make([]StakedBalance, 0, len(keys))
	for _, key := range keys {
		asset, err := key.Info()
		if err != nil {
			return nil, err
		}
		total, err := h.ledger.Total(key)
		if err != nil {
			return nil, err
		}
		out = append(out, StakedBalance{Asset: asset, Balance: total})
	}
	return out, nil
}

func keysToInfos(keys []alliance.AssetKey) ([]alliance.AssetInfo, error) {
	infos := make([]alliance.AssetInfo, 0, len(keys))
	for _, k := range keys {
		info, err := k.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}
