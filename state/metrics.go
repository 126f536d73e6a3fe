// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/alliancehub/hub/metrics"

var (
	metricStateWrites = metrics.LazyLoadCounterVec("state_write_count", []string{"type"})
	metricCacheStats  = metrics.LazyLoadGaugeVec("state_cache_lookups", []string{"result"})
)
