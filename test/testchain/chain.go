// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/builtin/lphub"
	"github.com/alliancehub/hub/builtin/stakingmod"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/lvldb"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

// distributor funds validator reward pots in tests.
var distributor = alliance.CreateContractAddress("testchain/distributor")

// Chain is a runtime with every contract of a genesis config deployed over
// an in-memory store.
type Chain struct {
	db     *lvldb.LevelDB
	config *genesis.Config
	state  *state.State
	rt     *runtime.Runtime
}

// NewDefault creates a Chain from the dev network config.
func NewDefault() (*Chain, error) {
	return New(genesis.DevConfig())
}

// New creates a Chain from config.
func New(config *genesis.Config) (*Chain, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis: %w", err)
	}
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	st := state.New(db)
	rt := genesis.NewRuntime(config, st, 0)
	if _, err := genesis.Build(config, rt); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to build genesis: %w", err)
	}
	return &Chain{db: db, config: config, state: st, rt: rt}, nil
}

func (c *Chain) Close() error { return c.db.Close() }

func (c *Chain) Config() *genesis.Config          { return c.config }
func (c *Chain) State() *state.State              { return c.state }
func (c *Chain) Runtime() *runtime.Runtime        { return c.rt }
func (c *Chain) Hub() *lphub.Hub                  { return lphub.New(genesis.HubAddress, c.state) }
func (c *Chain) StakingModule() *stakingmod.Module { return stakingmod.New(c.state) }

// Execute runs msg from sender and commits on success, like a block with a
// single transaction.
func (c *Chain) Execute(sender alliance.Address, msg runtime.Msg) (*runtime.Result, error) {
	c.rt.SetHeight(c.rt.Height() + 1)
	res, err := c.rt.Execute(sender, msg)
	if err != nil {
		return nil, err
	}
	return res, c.state.Commit()
}

// ExecuteHub sends msg to the hub with funds attached.
func (c *Chain) ExecuteHub(sender alliance.Address, msg any, funds ...alliance.Coin) (*runtime.Result, error) {
	return c.Execute(sender, runtime.WasmExecute{Contract: genesis.HubAddress, Msg: msg, Funds: funds})
}

// QueryHub runs a hub query.
func (c *Chain) QueryHub(msg any) (any, error) {
	return c.rt.QueryContract(genesis.HubAddress, msg)
}

// Mint credits native coins out of thin air.
func (c *Chain) Mint(to alliance.Address, denom string, amount uint64) error {
	if err := c.state.AddBalance(to, denom, uint256.NewInt(amount)); err != nil {
		return err
	}
	return c.state.Commit()
}

// Balance returns the native balance of addr.
func (c *Chain) Balance(addr alliance.Address, denom string) *uint256.Int {
	bal, err := c.state.GetBalance(addr, denom)
	if err != nil {
		panic(err)
	}
	return bal
}

// TokenBalance returns the balance of holder in the token declared with label.
func (c *Chain) TokenBalance(label string, holder alliance.Address) *uint256.Int {
	bal, err := cw20.NewToken(genesis.TokenAddress(label), c.state).Balance(holder)
	if err != nil {
		panic(err)
	}
	return bal
}

// AllocateRewards pays amount of denom to the delegators of validator.
func (c *Chain) AllocateRewards(validator alliance.Address, denom string, amount uint64) error {
	if err := c.Mint(distributor, denom, amount); err != nil {
		return err
	}
	_, err := c.Execute(distributor, stakingmod.AllocateRewards{
		Validator: validator,
		Amount:    alliance.NewCoin(denom, amount),
	})
	return err
}
