// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/alliancehub/hub/alliance"

// Routes of the built-in message families.
const (
	RouteBank         = "bank"
	RouteWasm         = "wasm"
	RouteStaking      = "staking"
	RouteDistribution = "distribution"
)

// Msg is a message a transaction or a contract response can dispatch.
type Msg interface {
	Route() string
}

// BankSend moves native coins from the sender to To.
type BankSend struct {
	To     alliance.Address
	Amount alliance.Coins
}

func (BankSend) Route() string { return RouteBank }

// WasmExecute calls Contract with the given payload and attached funds.
type WasmExecute struct {
	Contract alliance.Address
	Msg      any
	Funds    alliance.Coins
}

func (WasmExecute) Route() string { return RouteWasm }

// StakingDelegate bonds Amount to Validator on behalf of the sender.
type StakingDelegate struct {
	Validator alliance.Address
	Amount    alliance.Coin
}

func (StakingDelegate) Route() string { return RouteStaking }

// StakingUndelegate unbonds Amount from Validator.
type StakingUndelegate struct {
	Validator alliance.Address
	Amount    alliance.Coin
}

func (StakingUndelegate) Route() string { return RouteStaking }

// StakingRedelegate moves bonded Amount from Src to Dst.
type StakingRedelegate struct {
	Src    alliance.Address
	Dst    alliance.Address
	Amount alliance.Coin
}

func (StakingRedelegate) Route() string { return RouteStaking }

// ClaimDelegationRewards withdraws the sender's rewards accrued at Validator
// for the delegation of Denom. Rewards land in the sender's bank balance.
type ClaimDelegationRewards struct {
	Validator alliance.Address
	Denom     string
}

func (ClaimDelegationRewards) Route() string { return RouteDistribution }

// ReplyOn tells when the dispatching contract wants to see the sub message result.
type ReplyOn uint8

const (
	ReplyNever ReplyOn = iota
	ReplySuccess
	ReplyError
	ReplyAlways
)

func (r ReplyOn) onSuccess() bool { return r == ReplySuccess || r == ReplyAlways }
func (r ReplyOn) onError() bool   { return r == ReplyError || r == ReplyAlways }

// SubMsg is a message dispatched by a contract, with its reply policy.
type SubMsg struct {
	ID      uint64
	Msg     Msg
	ReplyOn ReplyOn
}

// Reply is delivered to the dispatching contract after a sub message completes.
type Reply struct {
	ID     uint64
	Result SubMsgResult
}

// SubMsgResult holds either the events of a successful sub message or its error.
type SubMsgResult struct {
	Events []Event
	Err    string
}

func (r SubMsgResult) IsErr() bool { return r.Err != "" }
