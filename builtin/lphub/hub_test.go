// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/test/testchain"
)

const (
	poolDenom   = "factory/pool/lp"
	rewardDenom = "uluna"
	astroDenom  = "factory/astro"
)

var (
	accounts     = genesis.DevAccounts()
	governance   = accounts[0]
	controller   = accounts[1]
	feeCollector = accounts[2]
	alice        = accounts[3]
	bob          = accounts[4]
	carol        = accounts[5]

	validators = genesis.DevValidators()

	poolAsset = alliance.NativeAsset(poolDenom)
	lpAsset   = alliance.CW20Asset(genesis.TokenAddress("lp"))
	luna      = alliance.NativeAsset(rewardDenom)
	astro     = alliance.NativeAsset(astroDenom)
)

func newChain(t *testing.T, whitelist ...genesis.WhitelistEntry) *testchain.Chain {
	cfg := genesis.DevConfig()
	if len(whitelist) > 0 {
		cfg.Whitelist = whitelist
	}
	chain, err := testchain.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })
	return chain
}

// newPoolChain whitelists only the native pool asset with the full weight.
func newPoolChain(t *testing.T) *testchain.Chain {
	return newChain(t, genesis.WhitelistEntry{Asset: poolDenom, Weight: "1"})
}

func stake(t *testing.T, chain *testchain.Chain, user alliance.Address, amount uint64) {
	_, err := chain.ExecuteHub(user, lphub.Stake{}, alliance.NewCoin(poolDenom, amount))
	require.NoError(t, err)
}

func harvest(t *testing.T, chain *testchain.Chain, rewards uint64) *runtime.Result {
	if rewards > 0 {
		require.NoError(t, chain.AllocateRewards(validators[0], rewardDenom, rewards))
	}
	res, err := chain.ExecuteHub(carol, lphub.UpdateRewards{})
	require.NoError(t, err)
	return res
}

func pending(t *testing.T, chain *testchain.Chain, user alliance.Address, asset, reward alliance.AssetInfo) uint64 {
	p, err := chain.Hub().PendingRewards(user, asset, reward)
	require.NoError(t, err)
	return p.Rewards.Uint64()
}

func hasAction(res *runtime.Result, action string) bool {
	for _, e := range res.EventsOf("wasm") {
		if v, ok := e.Attr("action"); ok && v == action {
			return true
		}
	}
	return false
}

func TestProportionalDistribution(t *testing.T) {
	chain := newPoolChain(t)

	stake(t, chain, alice, 1_000_000)
	stake(t, chain, bob, 4_000_000)
	harvest(t, chain, 200_000)

	assert.Equal(t, uint64(40_000), pending(t, chain, alice, poolAsset, luna))
	assert.Equal(t, uint64(160_000), pending(t, chain, bob, poolAsset, luna))

	rate, err := chain.Hub().Rewards().Rate(poolAsset.Key(), luna.Key())
	require.NoError(t, err)
	assert.Equal(t, "0.040000000000000000", rate.String())

	before := chain.Balance(alice, rewardDenom).Uint64()
	res, err := chain.ExecuteHub(alice, lphub.ClaimRewards{Asset: poolAsset})
	require.NoError(t, err)
	assert.Equal(t, before+40_000, chain.Balance(alice, rewardDenom).Uint64())
	assert.Equal(t, uint64(0), pending(t, chain, alice, poolAsset, luna))
	assert.Equal(t, uint64(160_000), pending(t, chain, bob, poolAsset, luna))

	wasm := res.EventsOf("wasm")
	require.Len(t, wasm, 1)
	paid, ok := wasm[0].Attr("reward_amount")
	assert.True(t, ok)
	assert.Equal(t, "40000uluna", paid)
}

func TestClaimIsIdempotent(t *testing.T) {
	chain := newPoolChain(t)
	stake(t, chain, alice, 1_000_000)
	harvest(t, chain, 10_000)

	_, err := chain.ExecuteHub(alice, lphub.ClaimRewards{Asset: poolAsset})
	require.NoError(t, err)
	after := chain.Balance(alice, rewardDenom).Uint64()

	res, err := chain.ExecuteHub(alice, lphub.ClaimRewards{Asset: poolAsset})
	require.NoError(t, err)
	assert.Equal(t, after, chain.Balance(alice, rewardDenom).Uint64())
	_, paid := res.EventsOf("wasm")[0].Attr("reward_amount")
	assert.False(t, paid)

	// nothing staked, nothing to claim
	_, err = chain.ExecuteHub(carol, lphub.ClaimRewards{Asset: poolAsset})
	assert.NoError(t, err)
}

func TestNoRetroactiveRewards(t *testing.T) {
	chain := newPoolChain(t)

	stake(t, chain, alice, 1_000_000)
	harvest(t, chain, 100_000)
	assert.Equal(t, uint64(100_000), pending(t, chain, alice, poolAsset, luna))

	stake(t, chain, bob, 1_000_000)
	assert.Equal(t, uint64(0), pending(t, chain, bob, poolAsset, luna))

	harvest(t, chain, 100_000)
	assert.Equal(t, uint64(150_000), pending(t, chain, alice, poolAsset, luna))
	assert.Equal(t, uint64(50_000), pending(t, chain, bob, poolAsset, luna))

	// topping up settles first: the earlier accrual is kept
	stake(t, chain, alice, 1_000_000)
	assert.Equal(t, uint64(150_000), pending(t, chain, alice, poolAsset, luna))
	harvest(t, chain, 30_000)
	assert.Equal(t, uint64(170_000), pending(t, chain, alice, poolAsset, luna))
	assert.Equal(t, uint64(60_000), pending(t, chain, bob, poolAsset, luna))
}

func TestUnstakedShareAndFeeCollector(t *testing.T) {
	chain := newChain(t)

	// 0.6 and 0.3 are allocated, nobody staked either asset
	harvest(t, chain, 100_000)
	assert.Equal(t, uint64(10_000), chain.Balance(feeCollector, rewardDenom).Uint64())
	assert.Equal(t, uint64(90_000), chain.Balance(genesis.HubAddress, rewardDenom).Uint64())

	rate, err := chain.Hub().Rewards().Rate(poolAsset.Key(), luna.Key())
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	// the dropped share is never credited to later stakers
	stake(t, chain, alice, 1_000_000)
	harvest(t, chain, 0)
	assert.Equal(t, uint64(0), pending(t, chain, alice, poolAsset, luna))

	harvest(t, chain, 100_000)
	assert.Equal(t, uint64(60_000), pending(t, chain, alice, poolAsset, luna))
	assert.Equal(t, uint64(20_000), chain.Balance(feeCollector, rewardDenom).Uint64())
}

func TestDonation(t *testing.T) {
	chain := newPoolChain(t)
	stake(t, chain, alice, 1_000_000)

	require.NoError(t, chain.AllocateRewards(validators[1], rewardDenom, 5_000))
	_, err := chain.ExecuteHub(bob, lphub.UpdateRewards{}, alliance.NewCoin(rewardDenom, 7_000))
	require.NoError(t, err)
	assert.Equal(t, uint64(12_000), pending(t, chain, alice, poolAsset, luna))
}

func TestUpdateRewardsCallback(t *testing.T) {
	chain := newPoolChain(t)

	_, err := chain.ExecuteHub(alice, lphub.UpdateRewardsCallback{})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	// the hub itself, but no round was opened
	_, err = chain.Execute(genesis.HubAddress, runtime.WasmExecute{
		Contract: genesis.HubAddress,
		Msg:      lphub.UpdateRewardsCallback{},
	})
	assert.True(t, reverts.Is(err, reverts.InvalidContractCallback))

	// a completed round leaves no snapshot behind
	harvest(t, chain, 0)
	_, exists, err := chain.Hub().Harvest().Snapshot(luna.Key())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestValidatorClaimFailureIsSwallowed(t *testing.T) {
	chain := newPoolChain(t)
	stake(t, chain, alice, 1_000_000)

	_, err := chain.ExecuteHub(controller, lphub.AllianceUndelegate{Undelegations: []lphub.Delegation{
		{Validator: validators[1], Amount: uint256.NewInt(400_000_000_000)},
	}})
	require.NoError(t, err)

	vals, err := chain.Hub().Validators()
	require.NoError(t, err)
	assert.Len(t, vals, 2)

	res := harvest(t, chain, 50_000)
	assert.True(t, hasAction(res, "claim_reward_error"))
	assert.Equal(t, uint64(50_000), pending(t, chain, alice, poolAsset, luna))
}

func TestStakeValidation(t *testing.T) {
	chain := newPoolChain(t)

	tests := []struct {
		name  string
		funds alliance.Coins
		kind  reverts.Kind
	}{
		{"no funds", nil, reverts.OnlySingleAssetAllowed},
		{"two coins", alliance.Coins{alliance.NewCoin(poolDenom, 1), alliance.NewCoin(rewardDenom, 1)}, reverts.OnlySingleAssetAllowed},
		{"zero amount", alliance.Coins{alliance.NewCoin(poolDenom, 0)}, reverts.AmountCannotBeZero},
		{"not whitelisted", alliance.Coins{alliance.NewCoin(rewardDenom, 10)}, reverts.AssetNotWhitelisted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := chain.ExecuteHub(alice, lphub.Stake{}, tt.funds...)
			assert.True(t, reverts.Is(err, tt.kind), "got %v", err)
		})
	}

	bal, err := chain.Hub().StakedBalance(alice, poolAsset)
	require.NoError(t, err)
	assert.True(t, bal.Balance.IsZero())
}

func TestUnstake(t *testing.T) {
	chain := newPoolChain(t)
	start := chain.Balance(alice, poolDenom).Uint64()

	stake(t, chain, alice, 1_000_000)
	harvest(t, chain, 20_000)

	_, err := chain.ExecuteHub(alice, lphub.Unstake{Asset: alliance.NewAsset(poolAsset, uint256.NewInt(0))})
	assert.True(t, reverts.Is(err, reverts.AmountCannotBeZero))

	_, err = chain.ExecuteHub(alice, lphub.Unstake{Asset: alliance.NewAsset(poolAsset, uint256.NewInt(1_000_001))})
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	_, err = chain.ExecuteHub(alice, lphub.Unstake{Asset: alliance.NewAsset(poolAsset, uint256.NewInt(400_000))})
	require.NoError(t, err)
	assert.Equal(t, start-600_000, chain.Balance(alice, poolDenom).Uint64())

	// accrual before the unstake is kept, afterwards it follows the new balance
	assert.Equal(t, uint64(20_000), pending(t, chain, alice, poolAsset, luna))
	stake(t, chain, bob, 600_000)
	harvest(t, chain, 24_000)
	assert.Equal(t, uint64(32_000), pending(t, chain, alice, poolAsset, luna))
	assert.Equal(t, uint64(12_000), pending(t, chain, bob, poolAsset, luna))

	_, err = chain.ExecuteHub(alice, lphub.Unstake{Asset: alliance.NewAsset(poolAsset, uint256.NewInt(600_000))})
	require.NoError(t, err)
	assert.Equal(t, start, chain.Balance(alice, poolDenom).Uint64())
	assert.Equal(t, uint64(32_000), pending(t, chain, alice, poolAsset, luna))
}

func TestTokenStakeWithIncentives(t *testing.T) {
	chain := newChain(t)
	token := genesis.TokenAddress("lp")
	start := chain.TokenBalance("lp", alice).Uint64()

	_, err := chain.ExecuteHub(governance, lphub.ModifyAssets{Assets: []lphub.ModifyAsset{{Asset: lpAsset, RewardAsset: &astro}}})
	require.NoError(t, err)
	w, err := chain.Hub().Emissions().Weight(lpAsset.Key())
	require.NoError(t, err)
	assert.Equal(t, "0.300000000000000000", w.String())

	_, err = chain.Execute(alice, runtime.WasmExecute{
		Contract: token,
		Msg:      cw20.Send{Contract: genesis.HubAddress, Amount: uint256.NewInt(1_000_000), Msg: lphub.Stake{}},
	})
	require.NoError(t, err)
	assert.Equal(t, start-1_000_000, chain.TokenBalance("lp", alice).Uint64())
	assert.Equal(t, uint64(1_000_000), chain.TokenBalance("lp", genesis.IncentivesAddress).Uint64())

	deposit, err := chain.Runtime().QueryContract(genesis.IncentivesAddress, incentives.DepositQuery{Asset: lpAsset, User: genesis.HubAddress})
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), deposit.(*uint256.Int).Uint64())

	_, err = chain.Execute(governance, runtime.WasmExecute{
		Contract: genesis.IncentivesAddress,
		Msg:      incentives.Fund{Asset: lpAsset},
		Funds:    alliance.Coins{alliance.NewCoin(astroDenom, 50_000)},
	})
	require.NoError(t, err)

	res := harvest(t, chain, 0)
	assert.True(t, hasAction(res, "claim_incentive_rewards_success"))
	assert.Equal(t, uint64(50_000), chain.Balance(genesis.HubAddress, astroDenom).Uint64())
	assert.Equal(t, uint64(50_000), pending(t, chain, alice, lpAsset, astro))

	tracked, err := chain.Hub().Rewards().IsTracked(lpAsset.Key(), astro)
	require.NoError(t, err)
	assert.True(t, tracked)

	_, err = chain.ExecuteHub(alice, lphub.ClaimRewards{Asset: lpAsset})
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), chain.Balance(alice, astroDenom).Uint64())

	// the round after that has nothing left to claim from the incentives
	res = harvest(t, chain, 0)
	assert.False(t, hasAction(res, "claim_incentive_rewards_success"))

	_, err = chain.ExecuteHub(alice, lphub.Unstake{Asset: alliance.NewAsset(lpAsset, uint256.NewInt(1_000_000))})
	require.NoError(t, err)
	assert.Equal(t, start, chain.TokenBalance("lp", alice).Uint64())
	assert.True(t, chain.TokenBalance("lp", genesis.IncentivesAddress).IsZero())
	assert.True(t, chain.TokenBalance("lp", genesis.HubAddress).IsZero())

	_, err = chain.ExecuteHub(alice, lphub.UnstakeCallback{Asset: alliance.NewAsset(lpAsset, uint256.NewInt(1)), User: alice})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
}

func TestUntrackedIncentiveReward(t *testing.T) {
	chain := newChain(t)

	// astro is not a tracked reward of the lp token when alice stakes
	_, err := chain.Execute(alice, runtime.WasmExecute{
		Contract: genesis.TokenAddress("lp"),
		Msg:      cw20.Send{Contract: genesis.HubAddress, Amount: uint256.NewInt(1_000_000), Msg: lphub.Stake{}},
	})
	require.NoError(t, err)
	tracked, err := chain.Hub().Rewards().IsTracked(lpAsset.Key(), astro)
	require.NoError(t, err)
	assert.False(t, tracked)

	_, err = chain.Execute(governance, runtime.WasmExecute{
		Contract: genesis.IncentivesAddress,
		Msg:      incentives.Fund{Asset: lpAsset},
		Funds:    alliance.Coins{alliance.NewCoin(astroDenom, 50_000)},
	})
	require.NoError(t, err)

	res := harvest(t, chain, 0)
	assert.True(t, hasAction(res, "claim_incentive_rewards_success"))
	assert.Equal(t, uint64(50_000), chain.Balance(genesis.HubAddress, astroDenom).Uint64())
	assert.Equal(t, uint64(50_000), pending(t, chain, alice, lpAsset, astro))

	_, err = chain.ExecuteHub(alice, lphub.ClaimRewards{Asset: lpAsset})
	require.NoError(t, err)
	assert.Equal(t, uint64(50_000), chain.Balance(alice, astroDenom).Uint64())
	assert.True(t, chain.Balance(genesis.HubAddress, astroDenom).IsZero())
	assert.Equal(t, uint64(0), pending(t, chain, alice, lpAsset, astro))
}

func TestRewardListedAfterStake(t *testing.T) {
	chain := newPoolChain(t)
	stake(t, chain, alice, 1_000_000)

	_, err := chain.ExecuteHub(governance, lphub.ModifyAssets{Assets: []lphub.ModifyAsset{{Asset: poolAsset, RewardAsset: &astro}}})
	require.NoError(t, err)
	// bob stakes after astro is tracked and holds a snapshot from then on
	stake(t, chain, bob, 1_000_000)

	require.NoError(t, chain.Hub().Rewards().AddRate(poolAsset.Key(), astro, math.LegacyMustNewDecFromStr("0.01")))
	assert.Equal(t, uint64(10_000), pending(t, chain, alice, poolAsset, astro))
	assert.Equal(t, uint64(10_000), pending(t, chain, bob, poolAsset, astro))
}

func TestIncentiveRewardInBaseDenom(t *testing.T) {
	chain := newChain(t)
	token := genesis.TokenAddress("lp")

	_, err := chain.Execute(governance, runtime.WasmExecute{
		Contract: genesis.IncentivesAddress,
		Msg:      incentives.SetupPool{Asset: lpAsset, Rewards: []alliance.AssetInfo{luna}},
	})
	require.NoError(t, err)
	_, err = chain.Execute(alice, runtime.WasmExecute{
		Contract: token,
		Msg:      cw20.Send{Contract: genesis.HubAddress, Amount: uint256.NewInt(1_000_000), Msg: lphub.Stake{}},
	})
	require.NoError(t, err)
	_, err = chain.Execute(governance, runtime.WasmExecute{
		Contract: genesis.IncentivesAddress,
		Msg:      incentives.Fund{Asset: lpAsset},
		Funds:    alliance.Coins{alliance.NewCoin(rewardDenom, 40_000)},
	})
	require.NoError(t, err)

	// validator rewards: 0.3 of 100k for the token stakers, 0.1 to fees
	harvest(t, chain, 100_000)
	assert.Equal(t, uint64(70_000), pending(t, chain, alice, lpAsset, luna))
	assert.Equal(t, uint64(10_000), chain.Balance(feeCollector, rewardDenom).Uint64())
}

func TestModifyAssets(t *testing.T) {
	chain := newChain(t)

	_, err := chain.ExecuteHub(alice, lphub.ModifyAssets{})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	_, err = chain.ExecuteHub(governance, lphub.ModifyAssets{Assets: []lphub.ModifyAsset{{Asset: lpAsset, Delete: true}}})
	assert.True(t, reverts.Is(err, reverts.MissingRewardAsset))

	_, err = chain.ExecuteHub(governance, lphub.ModifyAssets{Assets: []lphub.ModifyAsset{{Asset: lpAsset, RewardAsset: &astro, Delete: true}}})
	assert.True(t, reverts.Is(err, reverts.MissingRewardAsset))

	res, err := chain.ExecuteHub(governance, lphub.ModifyAssets{Assets: []lphub.ModifyAsset{{Asset: lpAsset, RewardAsset: &luna, Delete: true}}})
	require.NoError(t, err)
	v, _ := res.EventsOf("wasm")[0].Attr("to_remove")
	assert.Equal(t, "true", v)

	assets, err := chain.Hub().WhitelistedAssets()
	require.NoError(t, err)
	assert.Equal(t, []alliance.AssetInfo{poolAsset}, assets)

	entries, err := chain.Hub().RewardDistribution()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, poolAsset.Key(), entries[0].Asset)

	_, err = chain.Execute(alice, runtime.WasmExecute{
		Contract: genesis.TokenAddress("lp"),
		Msg:      cw20.Send{Contract: genesis.HubAddress, Amount: uint256.NewInt(10), Msg: lphub.Stake{}},
	})
	assert.True(t, reverts.Is(err, reverts.AssetNotWhitelisted))

	// listing again starts at zero weight
	_, err = chain.ExecuteHub(governance, lphub.ModifyAssets{Assets: []lphub.ModifyAsset{{Asset: astro, RewardAsset: &luna}}})
	require.NoError(t, err)
	w, err := chain.Hub().Emissions().Weight(astro.Key())
	require.NoError(t, err)
	assert.True(t, w.IsZero())
}

func TestSetAssetWeights(t *testing.T) {
	chain := newChain(t)
	set := func(entries ...emissions.Entry) error {
		_, err := chain.ExecuteHub(governance, lphub.SetAssetWeights{Weights: entries})
		return err
	}

	_, err := chain.ExecuteHub(controller, lphub.SetAssetWeights{})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	err = set(emissions.Entry{Asset: poolAsset.Key(), Weight: math.LegacyMustNewDecFromStr("1.5")})
	assert.True(t, reverts.Is(err, reverts.InvalidWeight))

	err = set(emissions.Entry{Asset: poolAsset.Key(), Weight: math.LegacyMustNewDecFromStr("0.8")})
	assert.True(t, reverts.Is(err, reverts.InvalidTotalDistribution))

	err = set(emissions.Entry{Asset: astro.Key(), Weight: math.LegacyMustNewDecFromStr("0.1")})
	assert.True(t, reverts.Is(err, reverts.AssetNotWhitelisted))

	require.NoError(t, set(
		emissions.Entry{Asset: poolAsset.Key(), Weight: math.LegacyMustNewDecFromStr("0.2")},
		emissions.Entry{Asset: lpAsset.Key(), Weight: math.LegacyMustNewDecFromStr("0.8")},
	))
	total, err := chain.Hub().Emissions().TotalWeight()
	require.NoError(t, err)
	assert.True(t, total.Equal(math.LegacyOneDec()))
}

func TestRebalanceEmissions(t *testing.T) {
	chain := newChain(t)
	stake(t, chain, alice, 1_000_000)
	require.NoError(t, chain.AllocateRewards(validators[0], rewardDenom, 100_000))

	_, err := chain.ExecuteHub(alice, lphub.RebalanceEmissions{})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	_, err = chain.ExecuteHub(controller, lphub.RebalanceEmissions{Deltas: []emissions.Delta{
		{Asset: poolAsset.Key(), Delta: math.LegacyMustNewDecFromStr("0.2")},
	}})
	assert.True(t, reverts.Is(err, reverts.InvalidTotalDistribution))
	// the failed transaction did not harvest either
	assert.Equal(t, uint64(0), pending(t, chain, alice, poolAsset, luna))

	_, err = chain.ExecuteHub(controller, lphub.RebalanceEmissions{Deltas: []emissions.Delta{
		{Asset: poolAsset.Key(), Delta: math.LegacyMustNewDecFromStr("0.3")},
		{Asset: lpAsset.Key(), Delta: math.LegacyMustNewDecFromStr("-0.2")},
	}})
	require.NoError(t, err)

	// harvested under the previous weights
	assert.Equal(t, uint64(60_000), pending(t, chain, alice, poolAsset, luna))
	w, err := chain.Hub().Emissions().Weight(poolAsset.Key())
	require.NoError(t, err)
	assert.Equal(t, "0.900000000000000000", w.String())

	_, err = chain.ExecuteHub(alice, lphub.RebalanceEmissionsCallback{})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	// a delta without a value is rejected, not applied
	_, err = chain.ExecuteHub(controller, lphub.RebalanceEmissions{Deltas: []emissions.Delta{{Asset: poolAsset.Key()}}})
	assert.True(t, reverts.Is(err, reverts.InvalidWeight))
	w, err = chain.Hub().Emissions().Weight(poolAsset.Key())
	require.NoError(t, err)
	assert.Equal(t, "0.900000000000000000", w.String())
}

func TestAllianceDelegation(t *testing.T) {
	chain := newChain(t)

	_, err := chain.ExecuteHub(alice, lphub.AllianceDelegate{})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	for _, msg := range []any{lphub.AllianceDelegate{}, lphub.AllianceUndelegate{}, lphub.AllianceRedelegate{}} {
		_, err := chain.ExecuteHub(controller, msg)
		assert.True(t, reverts.Is(err, reverts.EmptyDelegation), "%T", msg)
	}

	denom := chain.Config().Hub.AllianceTokenDenom
	mod := chain.StakingModule()
	_, err = chain.ExecuteHub(controller, lphub.AllianceRedelegate{Redelegations: []lphub.Redelegation{
		{Src: validators[0], Dst: validators[1], Amount: uint256.NewInt(100_000_000_000)},
	}})
	require.NoError(t, err)
	d0, err := mod.Delegation(genesis.HubAddress, validators[0], denom)
	require.NoError(t, err)
	d1, err := mod.Delegation(genesis.HubAddress, validators[1], denom)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000_000), d0.Uint64())
	assert.Equal(t, uint64(500_000_000_000), d1.Uint64())
}

func TestInvalidReplyID(t *testing.T) {
	chain := newChain(t)
	env := &runtime.Env{Contract: genesis.HubAddress, State: chain.State(), Querier: chain.Runtime()}

	_, err := lphub.Contract{}.Reply(env, runtime.Reply{ID: 99})
	assert.True(t, reverts.Is(err, reverts.InvalidReplyID))

	resp, err := lphub.Contract{}.Reply(env, runtime.Reply{
		ID:     lphub.ClaimIncentiveRewardsReplyID,
		Result: runtime.SubMsgResult{Err: "pool closed"},
	})
	require.NoError(t, err)
	v, _ := resp.Attr("error")
	assert.Equal(t, "pool closed", v)
}

func TestQueries(t *testing.T) {
	chain := newChain(t)
	stake(t, chain, alice, 1_000)
	stake(t, chain, bob, 3_000)
	harvest(t, chain, 10_000)

	res, err := chain.QueryHub(lphub.AllStakedBalancesQuery{User: alice})
	require.NoError(t, err)
	balances := res.([]lphub.StakedBalance)
	require.Len(t, balances, 1)
	assert.Equal(t, poolAsset, balances[0].Asset)
	assert.Equal(t, uint64(1_000), balances[0].Balance.Uint64())

	res, err = chain.QueryHub(lphub.TotalStakedBalancesQuery{})
	require.NoError(t, err)
	assert.Equal(t, uint64(4_000), res.([]lphub.StakedBalance)[0].Balance.Uint64())

	res, err = chain.QueryHub(lphub.AllPendingRewardsQuery{User: bob})
	require.NoError(t, err)
	rewards := res.([]lphub.PendingReward)
	require.Len(t, rewards, 1)
	assert.Equal(t, luna, rewards[0].Reward)
	assert.Equal(t, uint64(4_500), rewards[0].Rewards.Uint64())

	res, err = chain.QueryHub(lphub.ConfigQuery{})
	require.NoError(t, err)
	assert.Equal(t, governance, res.(*lphub.Config).Governance)

	_, err = chain.QueryHub(struct{}{})
	assert.Error(t, err)
}

// Random stakes, unstakes and harvests never pay out more than was
// distributed, and the rate only grows.
func TestConservation(t *testing.T) {
	chain := newPoolChain(t)
	users := []alliance.Address{alice, bob, carol}
	require.NoError(t, chain.Mint(carol, poolDenom, 10_000_000_000))

	var (
		distributed uint64
		lastRate    = math.LegacyZeroDec()
	)
	for round := range 30 {
		user := users[round%len(users)]
		amount := uint64(round*7919%100_000 + 1)
		stake(t, chain, user, amount)

		if round%4 == 3 {
			bal, err := chain.Hub().StakedBalance(user, poolAsset)
			require.NoError(t, err)
			half := new(uint256.Int).Rsh(bal.Balance, 1)
			if !half.IsZero() {
				_, err = chain.ExecuteHub(user, lphub.Unstake{Asset: alliance.NewAsset(poolAsset, half)})
				require.NoError(t, err)
			}
		}

		reward := uint64(round*104729%50_000 + 1)
		harvest(t, chain, reward)
		distributed += reward

		rate, err := chain.Hub().Rewards().Rate(poolAsset.Key(), luna.Key())
		require.NoError(t, err)
		assert.True(t, rate.GTE(lastRate))
		lastRate = rate

		var owed uint64
		for _, u := range users {
			owed += pending(t, chain, u, poolAsset, luna)
		}
		assert.LessOrEqual(t, owed, distributed)
		assert.LessOrEqual(t, owed, chain.Balance(genesis.HubAddress, rewardDenom).Uint64())
	}
}
