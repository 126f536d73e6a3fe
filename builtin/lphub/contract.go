// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/runtime"
)

// Contract is the runtime entry point of the hub.
type Contract struct{}

var (
	_ runtime.Contract = Contract{}
	_ runtime.Replier  = Contract{}
)

func (Contract) Execute(env *runtime.Env, info runtime.MessageInfo, msg any) (*runtime.Response, error) {
	h := New(env.Contract, env.State)
	switch m := msg.(type) {
	case Stake:
		return h.StakeFunds(env, info)
	case cw20.Receive:
		if _, ok := m.Msg.(Stake); !ok {
			return nil, errors.Errorf("lphub: unsupported receive hook %T", m.Msg)
		}
		return h.Stake(env, m.Sender, alliance.NewAsset(alliance.CW20Asset(info.Sender), m.Amount))
	case Unstake:
		return h.Unstake(env, info.Sender, m.Asset)
	case UnstakeCallback:
		return h.UnstakeCallback(info, m)
	case ClaimRewards:
		return h.ClaimRewards(info.Sender, m.Asset)
	case UpdateRewards:
		return h.UpdateRewards(env, info)
	case UpdateRewardsCallback:
		return h.UpdateRewardsCallback(env, info)
	case ModifyAssets:
		return h.ModifyAssets(info, m)
	case SetAssetWeights:
		return h.SetAssetWeights(info, m)
	case RebalanceEmissions:
		return h.RebalanceEmissions(env, info, m)
	case RebalanceEmissionsCallback:
		return h.RebalanceEmissionsCallback(info, m)
	case AllianceDelegate:
		return h.AllianceDelegate(info, m)
	case AllianceUndelegate:
		return h.AllianceUndelegate(info, m)
	case AllianceRedelegate:
		return h.AllianceRedelegate(info, m)
	}
	return nil, errors.Errorf("lphub: unsupported message %T", msg)
}

func (Contract) Reply(env *runtime.Env, reply runtime.Reply) (*runtime.Response, error) {
	return New(env.Contract, env.State).Reply(reply)
}

func (Contract) Query(env *runtime.Env, msg any) (any, error) {
	h := New(env.Contract, env.State)
	switch m := msg.(type) {
	case ConfigQuery:
		return h.Config()
	case ValidatorsQuery:
		return h.Validators()
	case WhitelistedAssetsQuery:
		return h.WhitelistedAssets()
	case RewardDistributionQuery:
		return h.RewardDistribution()
	case StakedBalanceQuery:
		return h.StakedBalance(m.User, m.Asset)
	case PendingRewardsQuery:
		return h.PendingRewards(m.User, m.Asset, m.Reward)
	case AllStakedBalancesQuery:
		return h.AllStakedBalances(m.User)
	case AllPendingRewardsQuery:
		return h.AllPendingRewards(m.User)
	case TotalStakedBalancesQuery:
		return h.TotalStakedBalances()
	}
	return nil, errors.Errorf("lphub: unsupported query %T", msg)
}
