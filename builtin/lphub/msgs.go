// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"github.com/holiman/uint256"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/lphub/emissions"
)

// Stake deposits the single native coin attached. Token assets are staked
// by a cw20 Send carrying Stake as its hook message.
type Stake struct{}

type Unstake struct {
	Asset alliance.Asset
}

// UnstakeCallback pays out an unstake once the incentive contract returned
// the funds. Self only.
type UnstakeCallback struct {
	Asset alliance.Asset
	User  alliance.Address
}

type ClaimRewards struct {
	Asset alliance.AssetInfo
}

// UpdateRewards opens a harvest round. Reward coins attached are a donation
// distributed in the same round.
type UpdateRewards struct{}

// UpdateRewardsCallback closes a harvest round. Self only.
type UpdateRewardsCallback struct{}

type ModifyAsset struct {
	Asset       alliance.AssetInfo
	RewardAsset *alliance.AssetInfo
	Delete      bool
}

// ModifyAssets adds or removes whitelist entries. Governance only.
type ModifyAssets struct {
	Assets []ModifyAsset
}

// SetAssetWeights assigns absolute distribution weights. Governance only.
type SetAssetWeights struct {
	Weights []emissions.Entry
}

// RebalanceEmissions applies signed weight deltas after harvesting under the
// current weights. Controller only.
type RebalanceEmissions struct {
	Deltas []emissions.Delta
}

// RebalanceEmissionsCallback applies the deltas. Self only.
type RebalanceEmissionsCallback struct {
	Deltas []emissions.Delta
}

type Delegation struct {
	Validator alliance.Address
	Amount    *uint256.Int
}

type Redelegation struct {
	Src    alliance.Address
	Dst    alliance.Address
	Amount *uint256.Int
}

// AllianceDelegate bonds virtual tokens. Controller only.
type AllianceDelegate struct {
	Delegations []Delegation
}

// AllianceUndelegate unbonds virtual tokens. Controller only.
type AllianceUndelegate struct {
	Undelegations []Delegation
}

// AllianceRedelegate moves virtual tokens between validators. Controller only.
type AllianceRedelegate struct {
	Redelegations []Redelegation
}
