// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/runtime"
)

var (
	version   string
	gitCommit string

	logger = log.New("pkg", "allianced")
)

func fullVersion() string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("%s-commit%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "allianced",
		Usage:     "Alliance LP hub ledger node",
		Copyright: "2025 The VeChainThor developers",
		Flags: []cli.Flag{
			dataDirFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "write the genesis state into the data dir",
				Flags:  []cli.Flag{genesisFlag},
				Action: initAction,
			},
			{
				Name:   "stake",
				Usage:  "stake a whitelisted asset",
				Flags:  []cli.Flag{fromFlag, amountFlag},
				Action: stakeAction,
			},
			{
				Name:   "unstake",
				Usage:  "unstake a staked asset",
				Flags:  []cli.Flag{fromFlag, amountFlag},
				Action: unstakeAction,
			},
			{
				Name:   "claim",
				Usage:  "claim the rewards of a staked asset",
				Flags:  []cli.Flag{fromFlag, assetFlag},
				Action: claimAction,
			},
			{
				Name:   "harvest",
				Usage:  "collect validator and incentive rewards and distribute them",
				Flags:  []cli.Flag{fromFlag, donationFlag},
				Action: harvestAction,
			},
			{
				Name:   "delegate",
				Usage:  "bond alliance tokens to a validator (controller only)",
				Flags:  []cli.Flag{fromFlag, validatorFlag, amountFlag},
				Action: delegateAction,
			},
			{
				Name:   "rebalance",
				Usage:  "harvest then shift distribution weights (controller only)",
				Flags:  []cli.Flag{fromFlag, deltasFlag},
				Action: rebalanceAction,
			},
			{
				Name:   "fund",
				Usage:  "pay incentive rewards to the depositors of an asset",
				Flags:  []cli.Flag{fromFlag, assetFlag, amountFlag},
				Action: fundAction,
			},
			{
				Name:  "query",
				Usage: "read hub state",
				Subcommands: []cli.Command{
					{Name: "config", Action: queryAction(func(*cli.Context) (any, error) { return lphub.ConfigQuery{}, nil })},
					{Name: "validators", Action: queryAction(func(*cli.Context) (any, error) { return lphub.ValidatorsQuery{}, nil })},
					{Name: "assets", Action: queryAction(func(*cli.Context) (any, error) { return lphub.WhitelistedAssetsQuery{}, nil })},
					{Name: "distribution", Action: queryAction(func(*cli.Context) (any, error) { return lphub.RewardDistributionQuery{}, nil })},
					{Name: "staked", Action: queryAction(func(*cli.Context) (any, error) { return lphub.TotalStakedBalancesQuery{}, nil })},
					{
						Name:   "balances",
						Flags:  []cli.Flag{addressFlag},
						Action: queryAction(balancesQuery),
					},
					{
						Name:   "rewards",
						Flags:  []cli.Flag{addressFlag, assetFlag, rewardFlag},
						Action: queryAction(rewardsQuery),
					},
				},
			},
			{
				Name:  "serve",
				Usage: "serve the REST API",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					enableAPILogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					harvestIntervalFlag,
					harvestFromFlag,
				},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initAction(ctx *cli.Context) error {
	config := genesis.DevConfig()
	if path := ctx.String(genesisFlag.Name); path != "" {
		var err error
		if config, err = genesis.LoadConfig(path); err != nil {
			return err
		}
	}
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	node, events, err := initNode(dataDir, config)
	if err != nil {
		return err
	}
	defer node.Close()

	logger.Info("genesis built", "data-dir", dataDir, "events", len(events), "hub", genesis.HubAddress)
	return nil
}

// withNode runs send against the node of the data dir and prints its events.
func withNode(send func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error)) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		from, err := requireAddress(ctx, fromFlag)
		if err != nil {
			return err
		}
		node, err := openNodeFromFlags(ctx)
		if err != nil {
			return err
		}
		defer func() {
			logger.Debug("closing main database...")
			node.Close()
		}()

		res, err := send(ctx, node, from)
		if err != nil {
			return err
		}
		printResult(os.Stdout, res)
		return nil
	}
}

var stakeAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	asset, err := requireAsset(ctx, amountFlag)
	if err != nil {
		return nil, err
	}
	if asset.Info.IsNative() {
		return node.ExecuteHub(from, lphub.Stake{}, alliance.Coin{Denom: asset.Info.Denom, Amount: asset.Amount})
	}
	return node.Execute(from, runtime.WasmExecute{
		Contract: asset.Info.Contract,
		Msg:      cw20.Send{Contract: genesis.HubAddress, Amount: asset.Amount, Msg: lphub.Stake{}},
	})
})

var unstakeAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	asset, err := requireAsset(ctx, amountFlag)
	if err != nil {
		return nil, err
	}
	return node.ExecuteHub(from, lphub.Unstake{Asset: asset})
})

var claimAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	info, err := requireAssetInfo(ctx, assetFlag)
	if err != nil {
		return nil, err
	}
	return node.ExecuteHub(from, lphub.ClaimRewards{Asset: info})
})

var harvestAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	var funds alliance.Coins
	if s := ctx.String(donationFlag.Name); s != "" {
		var err error
		if funds, err = alliance.ParseCoins(s); err != nil {
			return nil, errors.Wrap(err, "--donation")
		}
	}
	return node.ExecuteHub(from, lphub.UpdateRewards{}, funds...)
})

var delegateAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	validator, err := requireAddress(ctx, validatorFlag)
	if err != nil {
		return nil, err
	}
	coin, err := alliance.ParseCoin(ctx.String(amountFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "--amount")
	}
	if coin.Denom != node.Config().Hub.AllianceTokenDenom {
		return nil, errors.Errorf("--amount: expected %v", node.Config().Hub.AllianceTokenDenom)
	}
	return node.ExecuteHub(from, lphub.AllianceDelegate{
		Delegations: []lphub.Delegation{{Validator: validator, Amount: coin.Amount}},
	})
})

var rebalanceAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	deltas, err := parseDeltas(ctx.String(deltasFlag.Name))
	if err != nil {
		return nil, errors.Wrap(err, "--deltas")
	}
	return node.ExecuteHub(from, lphub.RebalanceEmissions{Deltas: deltas})
})

var fundAction = withNode(func(ctx *cli.Context, node *Node, from alliance.Address) (*runtime.Result, error) {
	info, err := requireAssetInfo(ctx, assetFlag)
	if err != nil {
		return nil, err
	}
	reward, err := requireAsset(ctx, amountFlag)
	if err != nil {
		return nil, err
	}
	msg := incentives.Fund{Asset: info}
	if reward.Info.IsNative() {
		return node.Execute(from, runtime.WasmExecute{
			Contract: genesis.IncentivesAddress,
			Msg:      msg,
			Funds:    alliance.Coins{{Denom: reward.Info.Denom, Amount: reward.Amount}},
		})
	}
	return node.Execute(from, runtime.WasmExecute{
		Contract: reward.Info.Contract,
		Msg:      cw20.Send{Contract: genesis.IncentivesAddress, Amount: reward.Amount, Msg: msg},
	})
})

func queryAction(build func(ctx *cli.Context) (any, error)) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		msg, err := build(ctx)
		if err != nil {
			return err
		}
		node, err := openNodeFromFlags(ctx)
		if err != nil {
			return err
		}
		defer node.Close()

		res, err := node.QueryContract(genesis.HubAddress, msg)
		if err != nil {
			return err
		}
		return printJSON(os.Stdout, res)
	}
}

func balancesQuery(ctx *cli.Context) (any, error) {
	user, err := requireAddress(ctx, addressFlag)
	if err != nil {
		return nil, err
	}
	return lphub.AllStakedBalancesQuery{User: user}, nil
}

func rewardsQuery(ctx *cli.Context) (any, error) {
	user, err := requireAddress(ctx, addressFlag)
	if err != nil {
		return nil, err
	}
	if ctx.String(assetFlag.Name) == "" && ctx.String(rewardFlag.Name) == "" {
		return lphub.AllPendingRewardsQuery{User: user}, nil
	}
	asset, err := requireAssetInfo(ctx, assetFlag)
	if err != nil {
		return nil, err
	}
	reward, err := requireAssetInfo(ctx, rewardFlag)
	if err != nil {
		return nil, err
	}
	return lphub.PendingRewardsQuery{User: user, Asset: asset, Reward: reward}, nil
}
