// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lphub

import (
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
)

// Config is written once at instantiation.
type Config struct {
	Governance         alliance.Address `json:"governance"`
	Controller         alliance.Address `json:"controller"`
	FeeCollector       alliance.Address `json:"fee_collector"`
	IncentivesContract alliance.Address `json:"incentives_contract"`
	RewardDenom        string           `json:"reward_denom"`
	AllianceTokenDenom string           `json:"alliance_token_denom"`
}

// HasIncentives reports whether an external incentive contract is configured.
func (c *Config) HasIncentives() bool {
	return !c.IncentivesContract.IsZero()
}

func (c *Config) Validate() error {
	if c.Governance.IsZero() {
		return errors.New("governance address required")
	}
	if c.Controller.IsZero() {
		return errors.New("controller address required")
	}
	if c.FeeCollector.IsZero() {
		return errors.New("fee collector address required")
	}
	if _, err := alliance.ParseAssetInfo(c.RewardDenom); err != nil {
		return errors.Wrap(err, "reward denom")
	}
	if _, err := alliance.ParseAssetInfo(c.AllianceTokenDenom); err != nil {
		return errors.Wrap(err, "alliance token denom")
	}
	return nil
}

// RewardAsset is the base reward paid by the staking module.
func (c *Config) RewardAsset() alliance.AssetInfo {
	return alliance.NativeAsset(c.RewardDenom)
}
