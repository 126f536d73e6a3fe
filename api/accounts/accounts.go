// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/api/utils"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/runtime"
)

type Accounts struct {
	querier runtime.Querier
}

func New(querier runtime.Querier) *Accounts {
	return &Accounts{querier}
}

// Balance is the holding of one denom or token.
type Balance struct {
	Asset   string       `json:"asset"`
	Balance *uint256.Int `json:"balance"`
}

func (a *Accounts) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	denom := mux.Vars(req)["denom"]
	bal, err := a.querier.QueryBalance(addr, denom)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{Asset: denom, Balance: bal})
}

func (a *Accounts) handleGetTokenBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	token, err := utils.ParseAddress(mux.Vars(req)["token"], "token")
	if err != nil {
		return err
	}
	res, err := a.querier.QueryContract(token, cw20.BalanceQuery{Address: addr})
	if err != nil {
		return utils.NotFound(errors.WithMessage(err, "token"))
	}
	return utils.WriteJSON(w, &Balance{Asset: token.String(), Balance: res.(*uint256.Int)})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/balances/{denom:.+}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/balances/{denom}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetBalance))
	sub.Path("/{address}/tokens/{token}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/tokens/{token}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTokenBalance))
}
