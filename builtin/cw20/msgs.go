// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cw20

import (
	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/runtime"
)

// Transfer moves tokens from the sender to Recipient.
type Transfer struct {
	Recipient alliance.Address
	Amount    *uint256.Int
}

// Send moves tokens to Contract and invokes its Receive hook with Msg.
type Send struct {
	Contract alliance.Address
	Amount   *uint256.Int
	Msg      any
}

// Mint creates tokens. Only the minter may send it.
type Mint struct {
	Recipient alliance.Address
	Amount    *uint256.Int
}

// Receive is delivered to the target of a Send. The token contract is the
// message sender, Sender is the original holder.
type Receive struct {
	Sender alliance.Address
	Amount *uint256.Int
	Msg    any
}

// BalanceQuery returns the balance of Address as *uint256.Int.
type BalanceQuery struct {
	Address alliance.Address
}

// TokenInfoQuery returns a TokenInfo.
type TokenInfoQuery struct{}

type TokenInfo struct {
	Name        string       `json:"name" yaml:"name"`
	Symbol      string       `json:"symbol" yaml:"symbol"`
	Decimals    uint8        `json:"decimals" yaml:"decimals"`
	TotalSupply *uint256.Int `json:"total_supply" yaml:"-"`
}

// TransferMsg returns the message paying asset to recipient: a bank send for
// native coins, a token Transfer otherwise.
func TransferMsg(asset alliance.Asset, recipient alliance.Address) runtime.Msg {
	if asset.Info.IsNative() {
		return runtime.BankSend{
			To:     recipient,
			Amount: alliance.Coins{{Denom: asset.Info.Denom, Amount: asset.Amount}},
		}
	}
	return runtime.WasmExecute{
		Contract: asset.Info.Contract,
		Msg:      Transfer{Recipient: recipient, Amount: asset.Amount},
	}
}
