// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package lphub is the staking hub contract. Users stake whitelisted assets,
// the hub delegates its virtual token on their behalf, harvests rewards in two
// phases and credits them through per-asset reward rates settled lazily.
package lphub

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
	"github.com/alliancehub/hub/builtin/lphub/harvest"
	"github.com/alliancehub/hub/builtin/lphub/ledger"
	"github.com/alliancehub/hub/builtin/lphub/rewards"
	"github.com/alliancehub/hub/builtin/lphub/unclaimed"
	"github.com/alliancehub/hub/builtin/storage"
	"github.com/alliancehub/hub/state"
)

var logger = log.New("pkg", "lphub")

func SetLogger(l log.Logger) {
	logger = l
}

var slotConfig = storage.Slot("config")

const (
	// ClaimRewardErrorReplyID tags validator claims whose failure is ignored.
	ClaimRewardErrorReplyID uint64 = 2
	// ClaimIncentiveRewardsReplyID tags the incentive contract claim.
	ClaimIncentiveRewardsReplyID uint64 = 3
)

// Hub binds the hub storage at one address.
type Hub struct {
	addr      alliance.Address
	config    *storage.Item[*Config]
	ledger    *ledger.Service
	rewards   *rewards.Service
	unclaimed *unclaimed.Service
	emissions *emissions.Service
	harvest   *harvest.Service
}

func New(addr alliance.Address, st *state.State) *Hub {
	sctx := storage.NewContext(addr, st)
	balances := ledger.New(sctx)
	return &Hub{
		addr:      addr,
		config:    storage.NewItem[*Config](sctx, slotConfig),
		ledger:    balances,
		rewards:   rewards.New(sctx, balances),
		unclaimed: unclaimed.New(sctx),
		emissions: emissions.New(sctx),
		harvest:   harvest.New(sctx),
	}
}

// Instantiate validates and stores cfg.
func Instantiate(addr alliance.Address, st *state.State, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := New(addr, st).config.Set(&cfg); err != nil {
		return errors.Wrap(err, "set config")
	}
	logger.Info("hub instantiated", "address", addr, "reward", cfg.RewardDenom, "token", cfg.AllianceTokenDenom)
	return nil
}

func (h *Hub) Address() alliance.Address { return h.addr }

func (h *Hub) Config() (*Config, error) {
	cfg, exists, err := h.config.Lookup()
	if err != nil {
		return nil, errors.Wrap(err, "get config")
	}
	if !exists {
		return nil, errors.New("hub not instantiated")
	}
	return cfg, nil
}

func (h *Hub) Ledger() *ledger.Service       { return h.ledger }
func (h *Hub) Rewards() *rewards.Service     { return h.rewards }
func (h *Hub) Unclaimed() *unclaimed.Service { return h.unclaimed }
func (h *Hub) Emissions() *emissions.Service { return h.emissions }
func (h *Hub) Harvest() *harvest.Service     { return h.harvest }
