// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/runtime"
)

// settle moves the accrual of user on asset into the unclaimed store for
// every reward tracked for asset. It runs before any balance change.
func (h *Hub) settle(user alliance.Address, asset alliance.AssetKey) error {
	infos, err := h.rewards.Rewards(asset)
	if err != nil {
		return err
	}
	for _, r := range infos {
		delta, err := h.rewards.Settle(user, asset, r.Key())
		if err != nil {
			return err
		}
		if err := h.unclaimed.Add(user, asset, r.Key(), delta); err != nil {
			return err
		}
	}
	return nil
}

// fastForward restarts accrual of user on asset at the current rates.
func (h *Hub) fastForward(user alliance.Address, asset alliance.AssetKey) error {
	infos, err := h.rewards.Rewards(asset)
	if err != nil {
		return err
	}
	for _, r := range infos {
		if err := h.rewards.FastForward(user, asset, r.Key()); err != nil {
			return err
		}
	}
	return nil
}

// StakeFunds validates the coins attached to a Stake message.
func (h *Hub) StakeFunds(env *runtime.Env, info runtime.MessageInfo) (*runtime.Response, error) {
	if len(info.Funds) != 1 {
		return nil, reverts.Newf(reverts.OnlySingleAssetAllowed, "%d coins attached", len(info.Funds))
	}
	return h.Stake(env, info.Sender, info.Funds[0].Asset())
}

// Stake credits asset to user.
func (h *Hub) Stake(env *runtime.Env, user alliance.Address, asset alliance.Asset) (*runtime.Response, error) {
	if asset.Amount == nil || asset.Amount.IsZero() {
		return nil, reverts.New(reverts.AmountCannotBeZero, "stake")
	}
	key := asset.Info.Key()
	whitelisted, err := h.emissions.IsWhitelisted(key)
	if err != nil {
		return nil, err
	}
	if !whitelisted {
		return nil, reverts.New(reverts.AssetNotWhitelisted, asset.Info.String())
	}
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}

	if err := h.settle(user, key); err != nil {
		return nil, err
	}

	resp := runtime.NewResponse().
		AddAttribute("action", "stake").
		AddAttribute("user", user.String()).
		AddAttribute("asset", asset.Info.String()).
		AddAttribute("amount", asset.Amount.Dec())

	if h.isIncentivized(env, cfg, asset.Info) {
		resp.AddMessage(depositMsg(cfg.IncentivesContract, asset))
	}

	if err := h.ledger.Increase(user, key, asset.Amount); err != nil {
		return nil, err
	}
	if err := h.fastForward(user, key); err != nil {
		return nil, err
	}

	countOp("stake")
	logger.Debug("staked", "user", user, "asset", asset)
	return resp, nil
}

// isIncentivized asks the incentive contract whether asset has a reward
// pool. A failing query counts as no pool.
func (h *Hub) isIncentivized(env *runtime.Env, cfg *Config, asset alliance.AssetInfo) bool {
	if !cfg.HasIncentives() {
		return false
	}
	res, err := env.Querier.QueryContract(cfg.IncentivesContract, incentives.RewardInfoQuery{Asset: asset})
	if err != nil {
		logger.Debug("reward info query failed", "asset", asset, "error", err)
		return false
	}
	infos, _ := res.([]alliance.AssetInfo)
	return len(infos) > 0
}

func depositMsg(incentivesAddr alliance.Address, asset alliance.Asset) runtime.Msg {
	if asset.Info.IsNative() {
		return runtime.WasmExecute{
			Contract: incentivesAddr,
			Msg:      incentives.Deposit{},
			Funds:    alliance.Coins{{Denom: asset.Info.Denom, Amount: asset.Amount}},
		}
	}
	return runtime.WasmExecute{
		Contract: asset.Info.Contract,
		Msg: cw20.Send{
			Contract: incentivesAddr,
			Amount:   asset.Amount,
			Msg:      incentives.Deposit{},
		},
	}
}

// Unstake debits asset from user and pays it back, through the incentive
// contract when that is where the funds sit.
func (h *Hub) Unstake(env *runtime.Env, user alliance.Address, asset alliance.Asset) (*runtime.Response, error) {
	if asset.Amount == nil || asset.Amount.IsZero() {
		return nil, reverts.New(reverts.AmountCannotBeZero, "unstake")
	}
	key := asset.Info.Key()
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}

	if err := h.settle(user, key); err != nil {
		return nil, err
	}
	if err := h.ledger.Decrease(user, key, asset.Amount); err != nil {
		return nil, err
	}
	if err := h.fastForward(user, key); err != nil {
		return nil, err
	}

	resp := runtime.NewResponse().
		AddAttribute("action", "unstake").
		AddAttribute("user", user.String()).
		AddAttribute("asset", asset.Info.String()).
		AddAttribute("amount", asset.Amount.Dec())

	deposited := h.incentiveDeposit(env, cfg, asset.Info)
	if !deposited.Lt(asset.Amount) {
		resp.AddMessage(runtime.WasmExecute{
			Contract: cfg.IncentivesContract,
			Msg:      incentives.Withdraw{Asset: asset.Info, Amount: asset.Amount},
		})
		resp.AddMessage(runtime.WasmExecute{
			Contract: h.addr,
			Msg:      UnstakeCallback{Asset: asset, User: user},
		})
	} else {
		resp.AddMessage(cw20.TransferMsg(asset, user))
	}

	countOp("unstake")
	logger.Debug("unstaked", "user", user, "asset", asset)
	return resp, nil
}

// incentiveDeposit returns what the hub holds in the incentive contract for asset.
func (h *Hub) incentiveDeposit(env *runtime.Env, cfg *Config, asset alliance.AssetInfo) *uint256.Int {
	if !cfg.HasIncentives() {
		return new(uint256.Int)
	}
	res, err := env.Querier.QueryContract(cfg.IncentivesContract, incentives.DepositQuery{Asset: asset, User: h.addr})
	if err != nil {
		return new(uint256.Int)
	}
	amount, ok := res.(*uint256.Int)
	if !ok || amount == nil {
		return new(uint256.Int)
	}
	return amount
}

// UnstakeCallback forwards withdrawn funds to the user.
func (h *Hub) UnstakeCallback(info runtime.MessageInfo, msg UnstakeCallback) (*runtime.Response, error) {
	if info.Sender != h.addr {
		return nil, reverts.New(reverts.Unauthorized, "unstake callback")
	}
	return runtime.NewResponse().
		AddAttribute("action", "unstake_alliance_lp_callback").
		AddAttribute("user", msg.User.String()).
		AddAttribute("asset", msg.Asset.String()).
		AddMessage(cw20.TransferMsg(msg.Asset, msg.User)), nil
}

// ClaimRewards pays user everything accrued on asset. A second call with no
// harvest in between pays nothing.
func (h *Hub) ClaimRewards(user alliance.Address, asset alliance.AssetInfo) (*runtime.Response, error) {
	key := asset.Key()
	if err := h.settle(user, key); err != nil {
		return nil, err
	}
	infos, err := h.rewards.Rewards(key)
	if err != nil {
		return nil, err
	}

	resp := runtime.NewResponse().
		AddAttribute("action", "claim_rewards").
		AddAttribute("user", user.String()).
		AddAttribute("asset", asset.String())
	for _, r := range infos {
		amount, err := h.unclaimed.Take(user, key, r.Key())
		if err != nil {
			return nil, err
		}
		if amount.IsZero() {
			continue
		}
		paid := alliance.NewAsset(r, amount)
		resp.AddAttribute("reward_amount", paid.String())
		resp.AddMessage(cw20.TransferMsg(paid, user))
	}

	countOp("claim")
	return resp, nil
}
