// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hub

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/api/utils"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/runtime"
)

type Hub struct {
	querier runtime.Querier
	addr    alliance.Address
}

func New(querier runtime.Querier, addr alliance.Address) *Hub {
	return &Hub{
		querier,
		addr,
	}
}

func (h *Hub) query(w http.ResponseWriter, msg any) error {
	res, err := h.querier.QueryContract(h.addr, msg)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (h *Hub) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	return h.query(w, lphub.ConfigQuery{})
}

func (h *Hub) handleGetValidators(w http.ResponseWriter, _ *http.Request) error {
	return h.query(w, lphub.ValidatorsQuery{})
}

func (h *Hub) handleGetAssets(w http.ResponseWriter, _ *http.Request) error {
	return h.query(w, lphub.WhitelistedAssetsQuery{})
}

func (h *Hub) handleGetDistribution(w http.ResponseWriter, _ *http.Request) error {
	return h.query(w, lphub.RewardDistributionQuery{})
}

func (h *Hub) handleGetTotalStaked(w http.ResponseWriter, _ *http.Request) error {
	return h.query(w, lphub.TotalStakedBalancesQuery{})
}

// handleGetBalances lists every position of the staker, or only the one
// named by the asset query parameter.
func (h *Hub) handleGetBalances(w http.ResponseWriter, req *http.Request) error {
	user, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	if !req.URL.Query().Has("asset") {
		return h.query(w, lphub.AllStakedBalancesQuery{User: user})
	}
	asset, err := utils.ParseAssetInfo(req, "asset")
	if err != nil {
		return err
	}
	return h.query(w, lphub.StakedBalanceQuery{User: user, Asset: asset})
}

// handleGetRewards lists the pending rewards of the staker. With both asset
// and reward set it answers for that single pair.
func (h *Hub) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	user, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	query := req.URL.Query()
	if !query.Has("asset") && !query.Has("reward") {
		return h.query(w, lphub.AllPendingRewardsQuery{User: user})
	}
	asset, err := utils.ParseAssetInfo(req, "asset")
	if err != nil {
		return err
	}
	reward, err := utils.ParseAssetInfo(req, "reward")
	if err != nil {
		return err
	}
	return h.query(w, lphub.PendingRewardsQuery{User: user, Asset: asset, Reward: reward})
}

func (h *Hub) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /hub/config").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetConfig))
	sub.Path("/validators").
		Methods(http.MethodGet).
		Name("GET /hub/validators").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetValidators))
	sub.Path("/assets").
		Methods(http.MethodGet).
		Name("GET /hub/assets").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetAssets))
	sub.Path("/distribution").
		Methods(http.MethodGet).
		Name("GET /hub/distribution").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetDistribution))
	sub.Path("/staked").
		Methods(http.MethodGet).
		Name("GET /hub/staked").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetTotalStaked))
	sub.Path("/stakers/{address}/balances").
		Methods(http.MethodGet).
		Name("GET /hub/stakers/{address}/balances").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetBalances))
	sub.Path("/stakers/{address}/rewards").
		Methods(http.MethodGet).
		Name("GET /hub/stakers/{address}/rewards").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetRewards))
}
