// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for the ledger database",
		EnvVar: "ALLIANCED_DATA_DIR",
	}
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to a genesis file (the dev network when omitted)",
		EnvVar: "ALLIANCED_GENESIS",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Value:  64,
		Usage:  "megabytes of ram allocated to the database read cache",
		EnvVar: "ALLIANCED_CACHE",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "ALLIANCED_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: "ALLIANCED_JSON_LOGS",
	}

	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "address sending the message",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "asset amount, e.g. 1000factory/pool/lp or 1000<token address>",
	}
	assetFlag = cli.StringFlag{
		Name:  "asset",
		Usage: "staked asset, a native denom or a token address",
	}
	rewardFlag = cli.StringFlag{
		Name:  "reward",
		Usage: "reward asset, a native denom or a token address",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "account to query",
	}
	validatorFlag = cli.StringFlag{
		Name:  "validator",
		Usage: "validator address",
	}
	donationFlag = cli.StringFlag{
		Name:  "donation",
		Usage: "reward coins attached to the harvest, e.g. 1000uluna",
	}
	deltasFlag = cli.StringFlag{
		Name:  "deltas",
		Usage: "comma separated weight deltas, e.g. factory/pool/lp=-0.1,0x...=0.1",
	}

	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8670",
		Usage:  "API service listening address",
		EnvVar: "ALLIANCED_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "ALLIANCED_API_CORS",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "ALLIANCED_ENABLE_API_LOGS",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "ALLIANCED_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2113",
		Usage:  "metrics service listening address",
		EnvVar: "ALLIANCED_METRICS_ADDR",
	}
	harvestIntervalFlag = cli.DurationFlag{
		Name:   "harvest-interval",
		Value:  0,
		Usage:  "run update rewards periodically (disabled when zero)",
		EnvVar: "ALLIANCED_HARVEST_INTERVAL",
	}
	harvestFromFlag = cli.StringFlag{
		Name:   "harvest-from",
		Usage:  "address sending the periodic update rewards (the controller when omitted)",
		EnvVar: "ALLIANCED_HARVEST_FROM",
	}
)

// minHarvestInterval keeps a misconfigured node from spinning.
const minHarvestInterval = time.Second
