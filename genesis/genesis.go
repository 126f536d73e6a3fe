// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
	"github.com/alliancehub/hub/builtin/stakingmod"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

var (
	HubAddress        = alliance.CreateContractAddress("lphub")
	IncentivesAddress = alliance.CreateContractAddress("incentives")
)

// TokenAddress is the address of the token declared with label.
func TokenAddress(label string) alliance.Address {
	return alliance.CreateContractAddress(TokenPrefix + label)
}

// NewRuntime returns a runtime over st with every contract of cfg registered.
func NewRuntime(cfg *Config, st *state.State, height uint64) *runtime.Runtime {
	rt := runtime.New(st, height)
	mod := stakingmod.New(st)
	rt.RegisterModule(runtime.RouteStaking, stakingmod.Address, mod)
	rt.RegisterModule(runtime.RouteDistribution, stakingmod.Address, mod)

	rt.Register(HubAddress, lphub.Contract{})
	if cfg.Incentives != nil {
		rt.Register(IncentivesAddress, incentives.Contract{})
	}
	for _, t := range cfg.Tokens {
		rt.Register(TokenAddress(t.Label), cw20.Contract{})
	}
	return rt
}

// HubContractConfig returns the hub contract config derived from c.
func (c *Config) HubContractConfig() lphub.Config {
	hub := lphub.Config{
		Governance:         c.Hub.Governance,
		Controller:         c.Hub.Controller,
		FeeCollector:       c.Hub.FeeCollector,
		RewardDenom:        c.Hub.RewardDenom,
		AllianceTokenDenom: c.Hub.AllianceTokenDenom,
	}
	if c.Incentives != nil {
		hub.IncentivesContract = IncentivesAddress
	}
	return hub
}

// Build writes the initial state of cfg through rt.
func Build(cfg *Config, rt *runtime.Runtime) ([]runtime.Event, error) {
	builder := new(Builder).
		State(func(st *state.State) error {
			for _, a := range cfg.Accounts {
				coins, err := alliance.ParseCoins(a.Coins)
				if err != nil {
					return err
				}
				for _, c := range coins {
					if err := st.AddBalance(a.Address, c.Denom, c.Amount); err != nil {
						return err
					}
				}
			}
			// the virtual token is issued to the hub in full
			return st.AddBalance(HubAddress, cfg.Hub.AllianceTokenDenom, cfg.Hub.AllianceTokenSupply)
		}).
		State(func(st *state.State) error {
			for _, t := range cfg.Tokens {
				info := cw20.TokenInfo{Name: t.Name, Symbol: t.Symbol, Decimals: t.Decimals}
				if err := cw20.Instantiate(TokenAddress(t.Label), st, info, t.Minter, t.Balances); err != nil {
					return errors.Wrapf(err, "token %q", t.Label)
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			if cfg.Incentives == nil {
				return nil
			}
			if err := incentives.Instantiate(IncentivesAddress, st, cfg.Incentives.Owner); err != nil {
				return err
			}
			pools := incentives.New(IncentivesAddress, st)
			for _, p := range cfg.Incentives.Pools {
				asset, err := cfg.ResolveAsset(p.Asset)
				if err != nil {
					return err
				}
				var rewards []alliance.AssetInfo
				for _, r := range p.Rewards {
					info, err := cfg.ResolveAsset(r)
					if err != nil {
						return err
					}
					rewards = append(rewards, info)
				}
				if err := pools.SetupPool(asset, rewards); err != nil {
					return err
				}
			}
			return nil
		}).
		State(func(st *state.State) error {
			return lphub.Instantiate(HubAddress, st, cfg.HubContractConfig())
		})

	for _, v := range cfg.Validators {
		builder.Call(stakingmod.CreateValidator{Validator: v}, cfg.Hub.Governance)
	}

	if len(cfg.Whitelist) > 0 {
		var (
			modify  lphub.ModifyAssets
			weights lphub.SetAssetWeights
		)
		for _, w := range cfg.Whitelist {
			asset, err := cfg.ResolveAsset(w.Asset)
			if err != nil {
				return nil, err
			}
			reward := alliance.NativeAsset(cfg.Hub.RewardDenom)
			if w.Reward != "" {
				if reward, err = cfg.ResolveAsset(w.Reward); err != nil {
					return nil, err
				}
			}
			weight, err := w.weight()
			if err != nil {
				return nil, err
			}
			modify.Assets = append(modify.Assets, lphub.ModifyAsset{Asset: asset, RewardAsset: &reward})
			weights.Weights = append(weights.Weights, emissions.Entry{Asset: asset.Key(), Weight: weight})
		}
		builder.
			Call(wasm(modify), cfg.Hub.Governance).
			Call(wasm(weights), cfg.Hub.Governance)
	}

	if len(cfg.Delegations) > 0 {
		var delegate lphub.AllianceDelegate
		for _, d := range cfg.Delegations {
			delegate.Delegations = append(delegate.Delegations, lphub.Delegation{Validator: d.Validator, Amount: d.Amount})
		}
		builder.Call(wasm(delegate), cfg.Hub.Controller)
	}

	return builder.Build(rt)
}

func wasm(msg any) runtime.Msg {
	return runtime.WasmExecute{Contract: HubAddress, Msg: msg}
}

// DevAccounts returns the well-known accounts of the dev network.
func DevAccounts() []alliance.Address {
	accs := make([]alliance.Address, 0, 6)
	for _, name := range []string{"governance", "controller", "fee-collector", "alice", "bob", "carol"} {
		accs = append(accs, alliance.CreateContractAddress("dev/"+name))
	}
	return accs
}

// DevValidators returns the validators of the dev network.
func DevValidators() []alliance.Address {
	return []alliance.Address{
		alliance.CreateContractAddress("dev/validator-1"),
		alliance.CreateContractAddress("dev/validator-2"),
	}
}

// DevConfig is a ready to run network: two staked assets sharing 90% of the
// emissions, a token incentivized by the incentive contract and funded users.
func DevConfig() *Config {
	accs := DevAccounts()
	vals := DevValidators()
	gov, ctrl, fee := accs[0], accs[1], accs[2]
	users := accs[3:]

	supply := uint256.NewInt(1_000_000_000_000)
	cfg := &Config{
		Hub: HubConfig{
			Governance:          gov,
			Controller:          ctrl,
			FeeCollector:        fee,
			RewardDenom:         "uluna",
			AllianceTokenDenom:  "factory/lphub/ualliance",
			AllianceTokenSupply: supply,
		},
		Incentives: &IncentivesConfig{
			Owner: gov,
			Pools: []Pool{{Asset: TokenPrefix + "lp", Rewards: []string{"factory/astro"}}},
		},
		Validators: vals,
		Delegations: []Delegation{
			{Validator: vals[0], Amount: uint256.NewInt(600_000_000_000)},
			{Validator: vals[1], Amount: uint256.NewInt(400_000_000_000)},
		},
		Tokens: []Token{{
			Label:    "lp",
			Name:     "Pool LP",
			Symbol:   "LP",
			Decimals: 6,
			Minter:   gov,
			Balances: map[alliance.Address]*uint256.Int{},
		}},
		Whitelist: []WhitelistEntry{
			{Asset: "factory/pool/lp", Weight: "0.6"},
			{Asset: TokenPrefix + "lp", Weight: "0.3"},
		},
	}
	cfg.Accounts = append(cfg.Accounts,
		Account{Address: gov, Coins: "100000000000uluna,100000000000factory/astro"},
	)
	for _, u := range users {
		cfg.Accounts = append(cfg.Accounts, Account{Address: u, Coins: "10000000000factory/pool/lp,1000000uluna"})
		cfg.Tokens[0].Balances[u] = uint256.NewInt(10_000_000_000)
	}
	return cfg
}
