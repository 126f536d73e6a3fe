// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import "github.com/alliancehub/hub/metrics"

var (
	metricOperations       = metrics.LazyLoadCounterVec("hub_operation_count", []string{"op"})
	metricHarvestRounds    = metrics.LazyLoadCounterVec("hub_harvest_round_count", []string{"phase"})
	metricClaimFailures    = metrics.LazyLoadCounter("hub_validator_claim_failure_count")
	metricRewardsCollected = metrics.LazyLoadCounterVec("hub_rewards_collected", []string{"reward"})
)

func countOp(op string) {
	metricOperations().AddWithLabel(1, map[string]string{"op": op})
}
