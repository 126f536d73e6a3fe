// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/metrics"
	"github.com/alliancehub/hub/state"
)

const maxCallDepth = 16

var (
	logger = log.New("pkg", "runtime")

	metricExecutionCount = metrics.LazyLoadCounterVec("runtime_execution_count", []string{"outcome"})
	metricSubMsgFailures = metrics.LazyLoadCounter("runtime_submsg_failure_count")

	ErrCallDepth = errors.New("max call depth exceeded")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Env is handed to a contract or module on every call.
type Env struct {
	Contract alliance.Address
	State    *state.State
	Querier  Querier
	Height   uint64
}

// MessageInfo describes who called and which funds were attached.
// The funds are already credited to the contract when it runs.
type MessageInfo struct {
	Sender alliance.Address
	Funds  alliance.Coins
}

// Contract is a message driven contract.
type Contract interface {
	Execute(env *Env, info MessageInfo, msg any) (*Response, error)
	Query(env *Env, msg any) (any, error)
}

// Replier is implemented by contracts dispatching sub messages with a reply policy.
type Replier interface {
	Reply(env *Env, reply Reply) (*Response, error)
}

// Module handles the chain-native message routes.
type Module interface {
	Handle(env *Env, sender alliance.Address, msg Msg) ([]Event, error)
}

// Querier gives contracts read access to other contracts and to the bank.
type Querier interface {
	QueryContract(addr alliance.Address, msg any) (any, error)
	QueryBalance(addr alliance.Address, denom string) (*uint256.Int, error)
}

type module struct {
	addr alliance.Address
	impl Module
}

// Runtime executes messages one at a time. Every top-level execution is atomic,
// and the sub messages a contract returns run in order, depth first, each under
// its own checkpoint. A contract therefore observes the completion of every
// message it dispatched before any message appended after them runs.
type Runtime struct {
	state     *state.State
	height    uint64
	contracts map[alliance.Address]Contract
	modules   map[string]module
}

// New create a Runtime object.
func New(st *state.State, height uint64) *Runtime {
	return &Runtime{
		state:     st,
		height:    height,
		contracts: make(map[alliance.Address]Contract),
		modules:   make(map[string]module),
	}
}

func (rt *Runtime) State() *state.State { return rt.state }
func (rt *Runtime) Height() uint64      { return rt.height }

// SetHeight moves the runtime to another block height.
func (rt *Runtime) SetHeight(h uint64) { rt.height = h }

// Register binds a contract implementation to addr.
func (rt *Runtime) Register(addr alliance.Address, c Contract) {
	rt.contracts[addr] = c
}

// RegisterModule binds a chain-native module, owning addr, to route.
func (rt *Runtime) RegisterModule(route string, addr alliance.Address, m Module) {
	rt.modules[route] = module{addr: addr, impl: m}
}

func (rt *Runtime) env(addr alliance.Address) *Env {
	return &Env{Contract: addr, State: rt.state, Querier: rt, Height: rt.height}
}

// Execute runs msg as a transaction signed by sender.
// On failure every state change made by the transaction is reverted.
func (rt *Runtime) Execute(sender alliance.Address, msg Msg) (*Result, error) {
	checkpoint := rt.state.NewCheckpoint()
	events, err := rt.dispatch(sender, msg, 0)
	if err != nil {
		rt.state.RevertTo(checkpoint)
		metricExecutionCount().AddWithLabel(1, map[string]string{"outcome": "reverted"})
		logger.Debug("execution reverted", "sender", sender, "route", msg.Route(), "error", err)
		return nil, err
	}
	metricExecutionCount().AddWithLabel(1, map[string]string{"outcome": "success"})
	return &Result{Events: events}, nil
}

func (rt *Runtime) dispatch(sender alliance.Address, msg Msg, depth int) ([]Event, error) {
	if depth > maxCallDepth {
		return nil, ErrCallDepth
	}
	switch m := msg.(type) {
	case BankSend:
		if err := rt.state.Transfer(sender, m.To, m.Amount); err != nil {
			return nil, err
		}
		return []Event{NewEvent("transfer").
			AddAttribute("recipient", m.To.String()).
			AddAttribute("sender", sender.String()).
			AddAttribute("amount", m.Amount.String())}, nil
	case WasmExecute:
		return rt.executeWasm(sender, m, depth)
	}

	mod, ok := rt.modules[msg.Route()]
	if !ok {
		return nil, errors.Errorf("no handler for route %q", msg.Route())
	}
	return mod.impl.Handle(rt.env(mod.addr), sender, msg)
}

func (rt *Runtime) executeWasm(sender alliance.Address, m WasmExecute, depth int) ([]Event, error) {
	c, ok := rt.contracts[m.Contract]
	if !ok {
		return nil, errors.Errorf("no contract at %v", m.Contract)
	}
	if err := rt.state.Transfer(sender, m.Contract, m.Funds); err != nil {
		return nil, err
	}
	resp, err := c.Execute(rt.env(m.Contract), MessageInfo{Sender: sender, Funds: m.Funds}, m.Msg)
	if err != nil {
		return nil, err
	}
	return rt.handleResponse(m.Contract, "execute", resp, depth)
}

func (rt *Runtime) handleResponse(contract alliance.Address, typ string, resp *Response, depth int) ([]Event, error) {
	addrAttr := Attribute{Key: ContractAddressKey, Value: contract.String()}

	events := []Event{{Type: typ, Attributes: []Attribute{addrAttr}}}
	if len(resp.Attributes) > 0 {
		events = append(events, Event{
			Type:       "wasm",
			Attributes: append([]Attribute{addrAttr}, resp.Attributes...),
		})
	}
	for _, e := range resp.Events {
		events = append(events, Event{
			Type:       "wasm-" + e.Type,
			Attributes: append([]Attribute{addrAttr}, e.Attributes...),
		})
	}

	for _, sub := range resp.Messages {
		subEvents, err := rt.executeSubMsg(contract, sub, depth+1)
		if err != nil {
			return nil, err
		}
		events = append(events, subEvents...)
	}
	return events, nil
}

func (rt *Runtime) executeSubMsg(contract alliance.Address, sub SubMsg, depth int) ([]Event, error) {
	checkpoint := rt.state.NewCheckpoint()
	events, err := rt.dispatch(contract, sub.Msg, depth)
	if err != nil {
		rt.state.RevertTo(checkpoint)
		if !sub.ReplyOn.onError() {
			return nil, err
		}
		metricSubMsgFailures().Add(1)
		logger.Debug("sub message failed", "contract", contract, "id", sub.ID, "error", err)
		return rt.reply(contract, Reply{ID: sub.ID, Result: SubMsgResult{Err: err.Error()}}, depth)
	}
	if !sub.ReplyOn.onSuccess() {
		return events, nil
	}
	replyEvents, err := rt.reply(contract, Reply{ID: sub.ID, Result: SubMsgResult{Events: events}}, depth)
	if err != nil {
		return nil, err
	}
	return append(events, replyEvents...), nil
}

func (rt *Runtime) reply(contract alliance.Address, reply Reply, depth int) ([]Event, error) {
	replier, ok := rt.contracts[contract].(Replier)
	if !ok {
		return nil, fmt.Errorf("contract %v does not handle replies", contract)
	}
	resp, err := replier.Reply(rt.env(contract), reply)
	if err != nil {
		return nil, err
	}
	return rt.handleResponse(contract, "reply", resp, depth)
}

// QueryContract implements Querier.
func (rt *Runtime) QueryContract(addr alliance.Address, msg any) (any, error) {
	c, ok := rt.contracts[addr]
	if !ok {
		return nil, errors.Errorf("no contract at %v", addr)
	}
	return c.Query(rt.env(addr), msg)
}

// QueryBalance implements Querier.
func (rt *Runtime) QueryBalance(addr alliance.Address, denom string) (*uint256.Int, error) {
	return rt.state.GetBalance(addr, denom)
}
