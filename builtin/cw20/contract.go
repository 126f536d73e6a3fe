// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package cw20 is a fungible token contract addressed by its own address.
// Tokens it issues can be staked in the hub like native coins.
package cw20

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

var (
	slotBalances = storage.Slot("balances")
	slotInfo     = storage.Slot("token-info")
	slotMinter   = storage.Slot("minter")
)

type storedInfo struct {
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply *uint256.Int
}

// Token binds the storage of one token contract.
type Token struct {
	sctx     *storage.Context
	balances *storage.Mapping[alliance.Address, *uint256.Int]
	info     *storage.Item[*storedInfo]
	minter   *storage.Item[alliance.Address]
}

func NewToken(addr alliance.Address, st *state.State) *Token {
	sctx := storage.NewContext(addr, st)
	return &Token{
		sctx:     sctx,
		balances: storage.NewMapping[alliance.Address, *uint256.Int](sctx, slotBalances),
		info:     storage.NewItem[*storedInfo](sctx, slotInfo),
		minter:   storage.NewItem[alliance.Address](sctx, slotMinter),
	}
}

// Instantiate writes the token metadata, minter and initial balances.
func Instantiate(addr alliance.Address, st *state.State, info TokenInfo, minter alliance.Address, initial map[alliance.Address]*uint256.Int) error {
	t := NewToken(addr, st)
	if err := t.info.Set(&storedInfo{Name: info.Name, Symbol: info.Symbol, Decimals: info.Decimals, TotalSupply: new(uint256.Int)}); err != nil {
		return errors.Wrap(err, "set token info")
	}
	if err := t.minter.Set(minter); err != nil {
		return errors.Wrap(err, "set minter")
	}
	for holder, amount := range initial {
		if err := t.mint(holder, amount); err != nil {
			return err
		}
	}
	return nil
}

func (t *Token) Balance(holder alliance.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(holder)
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	return bal, nil
}

func (t *Token) Info() (*TokenInfo, error) {
	info, err := t.info.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get token info")
	}
	return &TokenInfo{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: alliance.AmountOrZero(info.TotalSupply),
	}, nil
}

func (t *Token) mint(to alliance.Address, amount *uint256.Int) error {
	info, err := t.info.Get()
	if err != nil {
		return errors.Wrap(err, "get token info")
	}
	supply, err := alliance.AddAmount(alliance.AmountOrZero(info.TotalSupply), amount)
	if err != nil {
		return reverts.Arith(err)
	}
	bal, err := t.Balance(to)
	if err != nil {
		return err
	}
	if bal, err = alliance.AddAmount(bal, amount); err != nil {
		return reverts.Arith(err)
	}
	info.TotalSupply = supply
	if err := t.info.Set(info); err != nil {
		return errors.Wrap(err, "set token info")
	}
	return t.balances.Set(to, bal)
}

func (t *Token) transfer(from, to alliance.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return reverts.New(reverts.AmountCannotBeZero, "transfer")
	}
	fromBal, err := t.Balance(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return reverts.Newf(reverts.InsufficientBalance, "%v has %v, needs %v", from, fromBal, amount)
	}
	if err := t.balances.Set(from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.Balance(to)
	if err != nil {
		return err
	}
	if toBal, err = alliance.AddAmount(toBal, amount); err != nil {
		return reverts.Arith(err)
	}
	return t.balances.Set(to, toBal)
}

// Contract is the runtime entry point shared by every token address.
type Contract struct{}

func (Contract) Execute(env *runtime.Env, info runtime.MessageInfo, msg any) (*runtime.Response, error) {
	t := NewToken(env.Contract, env.State)
	switch m := msg.(type) {
	case Transfer:
		if err := t.transfer(info.Sender, m.Recipient, m.Amount); err != nil {
			return nil, err
		}
		return runtime.NewResponse().
			AddAttribute("action", "transfer").
			AddAttribute("from", info.Sender.String()).
			AddAttribute("to", m.Recipient.String()).
			AddAttribute("amount", m.Amount.Dec()), nil
	case Send:
		if err := t.transfer(info.Sender, m.Contract, m.Amount); err != nil {
			return nil, err
		}
		return runtime.NewResponse().
			AddAttribute("action", "send").
			AddAttribute("from", info.Sender.String()).
			AddAttribute("to", m.Contract.String()).
			AddAttribute("amount", m.Amount.Dec()).
			AddMessage(runtime.WasmExecute{
				Contract: m.Contract,
				Msg:      Receive{Sender: info.Sender, Amount: m.Amount, Msg: m.Msg},
			}), nil
	case Mint:
		minter, err := t.minter.Get()
		if err != nil {
			return nil, err
		}
		if info.Sender != minter {
			return nil, reverts.New(reverts.Unauthorized, "not the minter")
		}
		if err := t.mint(m.Recipient, m.Amount); err != nil {
			return nil, err
		}
		return runtime.NewResponse().
			AddAttribute("action", "mint").
			AddAttribute("to", m.Recipient.String()).
			AddAttribute("amount", m.Amount.Dec()), nil
	}
	return nil, errors.Errorf("cw20: unsupported message %T", msg)
}

func (Contract) Query(env *runtime.Env, msg any) (any, error) {
	t := NewToken(env.Contract, env.State)
	switch m := msg.(type) {
	case BalanceQuery:
		return t.Balance(m.Address)
	case TokenInfoQuery:
		return t.Info()
	}
	return nil, errors.Errorf("cw20: unsupported query %T", msg)
}
