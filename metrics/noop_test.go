// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()

	require.Equal(t, noop{}, m.GetOrCreateCountMeter("c"))
	require.Equal(t, noop{}, m.GetOrCreateCountVecMeter("cv", nil))
	require.Equal(t, noop{}, m.GetOrCreateGaugeVecMeter("gv", nil))
	require.Equal(t, noop{}, m.GetOrCreateHistogramVecMeter("h", nil, nil))

	rec := httptest.NewRecorder()
	m.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	lazy := LazyLoad(func() int { return 42 })
	require.Equal(t, 42, lazy())
}
