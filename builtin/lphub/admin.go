// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"cosmossdk.io/math"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/runtime"
)

func (h *Hub) requireGovernance(sender alliance.Address) (*Config, error) {
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}
	if sender != cfg.Governance {
		return nil, reverts.New(reverts.Unauthorized, "governance only")
	}
	return cfg, nil
}

func (h *Hub) requireController(sender alliance.Address) (*Config, error) {
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}
	if sender != cfg.Controller {
		return nil, reverts.New(reverts.Unauthorized, "controller only")
	}
	return cfg, nil
}

// ModifyAssets lists and delists assets. Delisting keeps balances and rates so
// stakers can still unstake and claim.
func (h *Hub) ModifyAssets(info runtime.MessageInfo, msg ModifyAssets) (*runtime.Response, error) {
	if _, err := h.requireGovernance(info.Sender); err != nil {
		return nil, err
	}
	resp := runtime.NewResponse().AddAttribute("action", "modify_assets")
	for _, m := range msg.Assets {
		if m.RewardAsset == nil {
			return nil, reverts.New(reverts.MissingRewardAsset, m.Asset.String())
		}
		key := m.Asset.Key()
		if m.Delete {
			tracked, err := h.rewards.IsTracked(key, *m.RewardAsset)
			if err != nil {
				return nil, err
			}
			if !tracked {
				return nil, reverts.Newf(reverts.MissingRewardAsset, "%v does not pay %v", m.Asset, m.RewardAsset)
			}
			if _, err := h.emissions.Remove(key); err != nil {
				return nil, err
			}
			resp.AddAttribute("asset", m.Asset.String()).AddAttribute("to_remove", "true")
			continue
		}
		if _, err := h.emissions.Add(key); err != nil {
			return nil, err
		}
		if _, err := h.rewards.Track(key, *m.RewardAsset); err != nil {
			return nil, err
		}
		resp.AddAttribute("asset", m.Asset.String())
	}
	logger.Info("assets modified", "count", len(msg.Assets))
	return resp, nil
}

// SetAssetWeights replaces distribution weights.
func (h *Hub) SetAssetWeights(info runtime.MessageInfo, msg SetAssetWeights) (*runtime.Response, error) {
	if _, err := h.requireGovernance(info.Sender); err != nil {
		return nil, err
	}
	if err := h.emissions.SetWeights(msg.Weights); err != nil {
		return nil, err
	}
	resp := runtime.NewResponse().AddAttribute("action", "set_asset_weights")
	for _, w := range msg.Weights {
		resp.AddAttribute(w.Asset.String(), w.Weight.String())
	}
	return resp, nil
}

// RebalanceEmissions harvests under the current weights when any is set, then
// applies the deltas in a self callback.
func (h *Hub) RebalanceEmissions(env *runtime.Env, info runtime.MessageInfo, msg RebalanceEmissions) (*runtime.Response, error) {
	if _, err := h.requireController(info.Sender); err != nil {
		return nil, err
	}
	total, err := h.emissions.TotalWeight()
	if err != nil {
		return nil, err
	}
	resp := runtime.NewResponse().AddAttribute("action", "rebalance_emissions")
	if total.GT(math.LegacyZeroDec()) {
		resp.AddMessage(runtime.WasmExecute{Contract: h.addr, Msg: UpdateRewards{}})
	}
	resp.AddMessage(runtime.WasmExecute{Contract: h.addr, Msg: RebalanceEmissionsCallback(msg)})
	return resp, nil
}

func (h *Hub) RebalanceEmissionsCallback(info runtime.MessageInfo, msg RebalanceEmissionsCallback) (*runtime.Response, error) {
	if info.Sender != h.addr {
		return nil, reverts.New(reverts.Unauthorized, "rebalance emissions callback")
	}
	if err := h.emissions.ApplyDeltas(msg.Deltas); err != nil {
		return nil, err
	}
	resp := runtime.NewResponse().AddAttribute("action", "rebalance_emissions_callback")
	for _, d := range msg.Deltas {
		resp.AddAttribute(d.Asset.String(), d.Delta.String())
	}
	return resp, nil
}

// AllianceDelegate bonds the virtual token and remembers the validators.
func (h *Hub) AllianceDelegate(info runtime.MessageInfo, msg AllianceDelegate) (*runtime.Response, error) {
	cfg, err := h.requireController(info.Sender)
	if err != nil {
		return nil, err
	}
	if len(msg.Delegations) == 0 {
		return nil, reverts.New(reverts.EmptyDelegation, "delegate")
	}
	resp := runtime.NewResponse().AddAttribute("action", "alliance_delegate")
	for _, d := range msg.Delegations {
		resp.AddMessage(runtime.StakingDelegate{
			Validator: d.Validator,
			Amount:    alliance.Coin{Denom: cfg.AllianceTokenDenom, Amount: d.Amount},
		})
		if err := h.harvest.AddValidator(d.Validator); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// AllianceUndelegate keeps the validators: claims from them fail harmlessly.
func (h *Hub) AllianceUndelegate(info runtime.MessageInfo, msg AllianceUndelegate) (*runtime.Response, error) {
	cfg, err := h.requireController(info.Sender)
	if err != nil {
		return nil, err
	}
	if len(msg.Undelegations) == 0 {
		return nil, reverts.New(reverts.EmptyDelegation, "undelegate")
	}
	resp := runtime.NewResponse().AddAttribute("action", "alliance_undelegate")
	for _, d := range msg.Undelegations {
		resp.AddMessage(runtime.StakingUndelegate{
			Validator: d.Validator,
			Amount:    alliance.Coin{Denom: cfg.AllianceTokenDenom, Amount: d.Amount},
		})
	}
	return resp, nil
}

func (h *Hub) AllianceRedelegate(info runtime.MessageInfo, msg AllianceRedelegate) (*runtime.Response, error) {
	cfg, err := h.requireController(info.Sender)
	if err != nil {
		return nil, err
	}
	if len(msg.Redelegations) == 0 {
		return nil, reverts.New(reverts.EmptyDelegation, "redelegate")
	}
	resp := runtime.NewResponse().AddAttribute("action", "alliance_redelegate")
	for _, r := range msg.Redelegations {
		resp.AddMessage(runtime.StakingRedelegate{
			Src:    r.Src,
			Dst:    r.Dst,
			Amount: alliance.Coin{Denom: cfg.AllianceTokenDenom, Amount: r.Amount},
		})
		if err := h.harvest.AddValidator(r.Dst); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
