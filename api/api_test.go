// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/metrics"
	"github.com/alliancehub/hub/test/testchain"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}

func TestMetricsMiddleware(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	ts := httptest.NewServer(New(chain.Runtime(), genesis.HubAddress, Options{AllowedOrigins: "*", EnableMetrics: true}))
	defer ts.Close()
	ms := httptest.NewServer(router)
	defer ms.Close()

	alice := genesis.DevAccounts()[3].String()
	_, code := httpGet(t, ts.URL+"/hub/stakers/"+alice+"/balances")
	assert.Equal(t, http.StatusOK, code)
	_, code = httpGet(t, ts.URL+"/hub/stakers/0x/balances")
	assert.Equal(t, http.StatusBadRequest, code)
	_, code = httpGet(t, ts.URL+"/unknown")
	assert.Equal(t, http.StatusNotFound, code)

	body, _ := httpGet(t, ms.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["alliance_hub_api_request_count"].GetMetric()
	require.Equal(t, 2, len(m), "unnamed routes are not recorded")

	codes := map[string]float64{}
	for _, metric := range m {
		labels := map[string]string{}
		for _, l := range metric.GetLabel() {
			labels[l.GetName()] = l.GetValue()
		}
		assert.Equal(t, "GET /hub/stakers/{address}/balances", labels["name"])
		assert.Equal(t, "GET", labels["method"])
		codes[labels["code"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"200": 1, "400": 1}, codes)
	assert.NotEmpty(t, families["alliance_hub_api_duration_ms"].GetMetric())
}

func TestCORS(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	ts := httptest.NewServer(New(chain.Runtime(), genesis.HubAddress, Options{AllowedOrigins: "https://example.org"}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/hub/config", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))
}
