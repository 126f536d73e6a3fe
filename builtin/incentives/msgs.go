// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package incentives

import (
	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
)

// Deposit stakes the single native coin attached, or the tokens of a cw20
// Send carrying it, on behalf of Recipient (the sender when nil).
type Deposit struct {
	Recipient *alliance.Address
}

// Withdraw returns Amount of a deposited Asset to the sender.
type Withdraw struct {
	Asset  alliance.AssetInfo
	Amount *uint256.Int
}

// ClaimRewards pays every pending reward of the sender's Assets positions.
type ClaimRewards struct {
	Assets []alliance.AssetInfo
}

// SetupPool declares the reward assets of an incentivized Asset. Owner only.
type SetupPool struct {
	Asset   alliance.AssetInfo
	Rewards []alliance.AssetInfo
}

// Fund spreads the attached coins, or the tokens of a cw20 Send carrying it,
// over the current depositors of Asset.
type Fund struct {
	Asset alliance.AssetInfo
}

// RewardInfoQuery returns the reward assets of Asset as []alliance.AssetInfo.
// An empty result means the asset is not incentivized.
type RewardInfoQuery struct {
	Asset alliance.AssetInfo
}

// DepositQuery returns the deposit of User in Asset as *uint256.Int.
type DepositQuery struct {
	Asset alliance.AssetInfo
	User  alliance.Address
}

// PendingRewardsQuery returns what ClaimRewards would pay User for Asset, as []alliance.Asset.
type PendingRewardsQuery struct {
	Asset alliance.AssetInfo
	User  alliance.Address
}
