// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hub_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/api/hub"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/test/testchain"
)

const poolDenom = "factory/pool/lp"

var (
	alice = genesis.DevAccounts()[3]
	pool  = alliance.NativeAsset(poolDenom)
	luna  = alliance.NativeAsset("uluna")
)

func initServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(func() { chain.Close() })

	_, err = chain.ExecuteHub(alice, lphub.Stake{}, alliance.NewCoin(poolDenom, 1_000))
	require.NoError(t, err)
	require.NoError(t, chain.AllocateRewards(genesis.DevValidators()[0], "uluna", 10_000))
	_, err = chain.ExecuteHub(alice, lphub.UpdateRewards{})
	require.NoError(t, err)

	router := mux.NewRouter()
	hub.New(chain.Runtime(), genesis.HubAddress).Mount(router, "/hub")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return chain, ts
}

func httpGetJSON(t *testing.T, url string, v any) int {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v), string(body))
	}
	return res.StatusCode
}

func TestHub(t *testing.T) {
	chain, ts := initServer(t)

	for name, tt := range map[string]func(*testing.T){
		"config":            func(t *testing.T) { testConfig(t, chain, ts) },
		"assets":            func(t *testing.T) { testAssets(t, ts) },
		"distribution":      func(t *testing.T) { testDistribution(t, ts) },
		"validators":        func(t *testing.T) { testValidators(t, ts) },
		"staked":            func(t *testing.T) { testStaked(t, ts) },
		"balances":          func(t *testing.T) { testBalances(t, ts) },
		"rewards":           func(t *testing.T) { testRewards(t, ts) },
		"invalid addresses": func(t *testing.T) { testInvalidAddress(t, ts) },
	} {
		t.Run(name, tt)
	}
}

func testConfig(t *testing.T, chain *testchain.Chain, ts *httptest.Server) {
	var cfg lphub.Config
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/config", &cfg))
	assert.Equal(t, chain.Config().HubContractConfig(), cfg)
}

func testAssets(t *testing.T, ts *httptest.Server) {
	var assets []alliance.AssetInfo
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/assets", &assets))
	assert.Equal(t, []alliance.AssetInfo{pool, alliance.CW20Asset(genesis.TokenAddress("lp"))}, assets)
}

func testDistribution(t *testing.T, ts *httptest.Server) {
	var entries []emissions.Entry
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/distribution", &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, pool.Key(), entries[0].Asset)
	assert.Equal(t, "0.600000000000000000", entries[0].Weight.String())
}

func testValidators(t *testing.T, ts *httptest.Server) {
	var vals []alliance.Address
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/validators", &vals))
	assert.Equal(t, genesis.DevValidators(), vals)
}

func testStaked(t *testing.T, ts *httptest.Server) {
	var totals []lphub.StakedBalance
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/staked", &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, uint64(1_000), totals[0].Balance.Uint64())
}

func testBalances(t *testing.T, ts *httptest.Server) {
	var all []lphub.StakedBalance
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/stakers/"+alice.String()+"/balances", &all))
	require.Len(t, all, 1)
	assert.Equal(t, pool, all[0].Asset)

	var one lphub.StakedBalance
	u := ts.URL + "/hub/stakers/" + alice.String() + "/balances?asset=" + url.QueryEscape(poolDenom)
	require.Equal(t, http.StatusOK, httpGetJSON(t, u, &one))
	assert.Equal(t, uint64(1_000), one.Balance.Uint64())

	u = ts.URL + "/hub/stakers/" + alice.String() + "/balances?asset="
	assert.Equal(t, http.StatusBadRequest, httpGetJSON(t, u, nil))
}

func testRewards(t *testing.T, ts *httptest.Server) {
	var all []lphub.PendingReward
	require.Equal(t, http.StatusOK, httpGetJSON(t, ts.URL+"/hub/stakers/"+alice.String()+"/rewards", &all))
	require.Len(t, all, 1)
	assert.Equal(t, luna, all[0].Reward)
	assert.Equal(t, uint64(6_000), all[0].Rewards.Uint64())

	var one lphub.PendingReward
	u := ts.URL + "/hub/stakers/" + alice.String() + "/rewards?asset=" + url.QueryEscape(poolDenom) + "&reward=uluna"
	require.Equal(t, http.StatusOK, httpGetJSON(t, u, &one))
	assert.Equal(t, uint64(6_000), one.Rewards.Uint64())

	// both parameters or none
	u = ts.URL + "/hub/stakers/" + alice.String() + "/rewards?asset=" + url.QueryEscape(poolDenom)
	assert.Equal(t, http.StatusBadRequest, httpGetJSON(t, u, nil))
}

func testInvalidAddress(t *testing.T, ts *httptest.Server) {
	assert.Equal(t, http.StatusBadRequest, httpGetJSON(t, ts.URL+"/hub/stakers/0x12/balances", nil))
	assert.Equal(t, http.StatusBadRequest, httpGetJSON(t, ts.URL+"/hub/stakers/alice/rewards", nil))
}
