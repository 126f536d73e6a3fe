// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

// Builder helper to build genesis state.
type Builder struct {
	stateProcs []func(state *state.State) error
	calls      []call
}

type call struct {
	msg    runtime.Msg
	caller alliance.Address
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a message executed after every state process.
func (b *Builder) Call(msg runtime.Msg, caller alliance.Address) *Builder {
	b.calls = append(b.calls, call{msg, caller})
	return b
}

// Build applies the presets through rt and commits the state.
func (b *Builder) Build(rt *runtime.Runtime) (events []runtime.Event, err error) {
	st := rt.State()
	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return nil, errors.Wrap(err, "state process")
		}
	}
	for _, call := range b.calls {
		res, err := rt.Execute(call.caller, call.msg)
		if err != nil {
			return nil, errors.Wrapf(err, "genesis call %T", call.msg)
		}
		events = append(events, res.Events...)
	}
	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	return events, nil
}
