// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/lphub/harvest"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/runtime"
)

// UpdateRewards is the request phase of a harvest round. It captures the
// reward balance, then claims from the incentive contract and from every
// validator, and finally schedules UpdateRewardsCallback, which the runtime
// runs only after all of those claims finished.
func (h *Hub) UpdateRewards(env *runtime.Env, info runtime.MessageInfo) (*runtime.Response, error) {
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}
	resp := runtime.NewResponse().AddAttribute("action", "update_rewards")

	claim, err := h.incentiveClaimMsg(env, cfg)
	if err != nil {
		return nil, err
	}
	if claim != nil {
		resp.AddSubMessage(runtime.SubMsg{
			ID:      ClaimIncentiveRewardsReplyID,
			Msg:     claim,
			ReplyOn: runtime.ReplyAlways,
		})
	}

	// donations already sit in the balance and must be collected by this round
	balance, err := env.Querier.QueryBalance(h.addr, cfg.RewardDenom)
	if err != nil {
		return nil, err
	}
	donated := info.Funds.AmountOf(cfg.RewardDenom)
	if err := h.harvest.SetSnapshot(cfg.RewardAsset().Key(), alliance.SaturatingSub(balance, donated)); err != nil {
		return nil, err
	}

	validators, err := h.harvest.Validators()
	if err != nil {
		return nil, err
	}
	for _, v := range validators {
		// a validator the hub no longer delegates to rejects the claim
		resp.AddSubMessage(runtime.SubMsg{
			ID:      ClaimRewardErrorReplyID,
			Msg:     runtime.ClaimDelegationRewards{Validator: v, Denom: cfg.AllianceTokenDenom},
			ReplyOn: runtime.ReplyError,
		})
	}
	resp.AddMessage(runtime.WasmExecute{Contract: h.addr, Msg: UpdateRewardsCallback{}})

	metricHarvestRounds().AddWithLabel(1, map[string]string{"phase": "request"})
	logger.Debug("harvest requested", "validators", len(validators), "incentives", claim != nil, "donated", donated)
	return resp, nil
}

// incentiveClaimMsg builds a claim for every whitelisted asset with pending
// incentive rewards, or nil when there is nothing to claim.
func (h *Hub) incentiveClaimMsg(env *runtime.Env, cfg *Config) (runtime.Msg, error) {
	if !cfg.HasIncentives() {
		return nil, nil
	}
	assets, err := h.emissions.Assets()
	if err != nil {
		return nil, err
	}
	var positions []alliance.AssetInfo
	for _, key := range assets {
		info, err := key.Info()
		if err != nil {
			return nil, err
		}
		res, err := env.Querier.QueryContract(cfg.IncentivesContract, incentives.PendingRewardsQuery{Asset: info, User: h.addr})
		if err != nil {
			continue
		}
		pending, _ := res.([]alliance.Asset)
		for _, p := range pending {
			if !p.Amount.IsZero() {
				positions = append(positions, info)
				break
			}
		}
	}
	if len(positions) == 0 {
		return nil, nil
	}
	return runtime.WasmExecute{
		Contract: cfg.IncentivesContract,
		Msg:      incentives.ClaimRewards{Assets: positions},
	}, nil
}

// Reply handles the outcome of the claims sent by UpdateRewards.
func (h *Hub) Reply(reply runtime.Reply) (*runtime.Response, error) {
	switch reply.ID {
	case ClaimRewardErrorReplyID:
		metricClaimFailures().Add(1)
		logger.Debug("validator claim failed", "error", reply.Result.Err)
		return runtime.NewResponse().AddAttribute("action", "claim_reward_error"), nil
	case ClaimIncentiveRewardsReplyID:
		return h.replyIncentiveRewards(reply.Result)
	}
	return nil, reverts.Newf(reverts.InvalidReplyID, "%d", reply.ID)
}

// replyIncentiveRewards credits rewards paid by the incentive contract
// straight to the rate of the position they were earned on.
func (h *Hub) replyIncentiveRewards(result runtime.SubMsgResult) (*runtime.Response, error) {
	if result.IsErr() {
		logger.Info("incentive claim failed", "error", result.Err)
		return runtime.NewResponse().
			AddAttribute("action", "claim_incentive_rewards_error").
			AddAttribute("error", result.Err), nil
	}
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}
	claims, err := harvest.ParseClaims(result.Events, cfg.IncentivesContract)
	if err != nil {
		return nil, err
	}

	baseReward := cfg.RewardAsset()
	for _, c := range claims {
		for _, r := range c.Rewards {
			if _, err := h.rewards.BumpRate(c.Position.Key(), r.Info, r.Amount); err != nil {
				return nil, err
			}
			// keep the balance round from collecting it a second time
			if r.Info == baseReward {
				if err := h.harvest.RaiseSnapshot(baseReward.Key(), r.Amount); err != nil {
					return nil, err
				}
			}
			countCollected(r)
		}
	}
	return runtime.NewResponse().AddAttribute("action", "claim_incentive_rewards_success"), nil
}

// UpdateRewardsCallback is the settle phase: the reward balance gained since
// the request is split by distribution weight and the unallocated remainder
// goes to the fee collector.
func (h *Hub) UpdateRewardsCallback(env *runtime.Env, info runtime.MessageInfo) (*runtime.Response, error) {
	if info.Sender != h.addr {
		return nil, reverts.New(reverts.Unauthorized, "update rewards callback")
	}
	cfg, err := h.Config()
	if err != nil {
		return nil, err
	}
	reward := cfg.RewardAsset()
	snapshot, exists, err := h.harvest.Snapshot(reward.Key())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, reverts.New(reverts.InvalidContractCallback, "no harvest in progress")
	}
	current, err := env.Querier.QueryBalance(h.addr, cfg.RewardDenom)
	if err != nil {
		return nil, err
	}
	collected := alliance.SaturatingSub(current, snapshot)

	unallocatedShare, err := h.emissions.UnallocatedShare()
	if err != nil {
		return nil, err
	}
	entries, err := h.emissions.Entries()
	if err != nil {
		return nil, err
	}

	resp := runtime.NewResponse().
		AddAttribute("action", "update_rewards_callback").
		AddAttribute("collected", collected.Dec())

	for _, e := range entries {
		share, err := alliance.MulAmountFloor(e.Weight, collected)
		if err != nil {
			return nil, reverts.Arith(err)
		}
		// nobody staked: the share stays in the hub unattributed
		if _, err := h.rewards.BumpRate(e.Asset, reward, share); err != nil {
			return nil, err
		}
	}

	unallocated, err := alliance.MulAmountFloor(unallocatedShare, collected)
	if err != nil {
		return nil, reverts.Arith(err)
	}
	if !unallocated.IsZero() {
		resp.AddMessage(runtime.BankSend{
			To:     cfg.FeeCollector,
			Amount: alliance.Coins{{Denom: cfg.RewardDenom, Amount: unallocated}},
		})
	}
	h.harvest.ClearSnapshot(reward.Key())

	countCollected(alliance.NewAsset(reward, collected))
	metricHarvestRounds().AddWithLabel(1, map[string]string{"phase": "settle"})
	logger.Info("harvest settled", "collected", collected, "unallocated", unallocated, "assets", len(entries))
	return resp, nil
}

func countCollected(a alliance.Asset) {
	if a.Amount.IsZero() || !a.Amount.IsUint64() || a.Amount.Gt(uint256.NewInt(1<<63-1)) {
		return
	}
	metricRewardsCollected().AddWithLabel(int64(a.Amount.Uint64()), map[string]string{"reward": a.Info.String()})
}
