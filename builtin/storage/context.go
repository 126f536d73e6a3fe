// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/state"
)

// Context binds storage primitives to the slots of one contract.
type Context struct {
	address alliance.Address
	state   *state.State
}

func NewContext(address alliance.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() alliance.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

// Slot derives a named base slot.
func Slot(name string) alliance.Bytes32 {
	return alliance.BytesToBytes32([]byte(name))
}
