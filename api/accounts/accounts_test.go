// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alliancehub/hub/api/accounts"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/test/testchain"
)

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func TestAccounts(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	accounts.New(chain.Runtime()).Mount(router, "/accounts")
	ts := httptest.NewServer(router)
	defer ts.Close()

	alice := genesis.DevAccounts()[3]
	token := genesis.TokenAddress("lp")

	body, code := httpGet(t, ts.URL+"/accounts/"+alice.String()+"/balances/factory/pool/lp")
	require.Equal(t, http.StatusOK, code)
	var bal accounts.Balance
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.Equal(t, "factory/pool/lp", bal.Asset)
	assert.Equal(t, uint64(10_000_000_000), bal.Balance.Uint64())

	body, code = httpGet(t, ts.URL+"/accounts/"+alice.String()+"/tokens/"+token.String())
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(body, &bal))
	assert.Equal(t, token.String(), bal.Asset)
	assert.Equal(t, uint64(10_000_000_000), bal.Balance.Uint64())

	_, code = httpGet(t, ts.URL+"/accounts/"+alice.String()+"/tokens/"+genesis.HubAddress.String()+"x")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = httpGet(t, ts.URL+"/accounts/"+alice.String()+"/tokens/"+alice.String())
	assert.Equal(t, http.StatusNotFound, code)
}
