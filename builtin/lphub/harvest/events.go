// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package harvest

import (
	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/incentives"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/runtime"
)

// Claim is the set of rewards an incentive source paid for one deposited asset.
type Claim struct {
	Position alliance.AssetInfo
	Rewards  []alliance.Asset
}

// ParseClaims reads the claim log emitted by the incentive contract at source.
//
// The log is the first "wasm" event. It must be attributed to source, and once
// the first claimed_position is seen every following attribute is either
// another claimed_position or a claimed_reward belonging to the latest one.
// Anything else fails with InvalidContractCallback.
func ParseClaims(events []runtime.Event, source alliance.Address) ([]Claim, error) {
	var log *runtime.Event
	for i := range events {
		if events[i].Type == "wasm" {
			log = &events[i]
			break
		}
	}
	if log == nil {
		return nil, reverts.New(reverts.InvalidContractCallback, "cannot find `wasm` event")
	}
	if len(log.Attributes) == 0 {
		return nil, reverts.New(reverts.InvalidContractCallback, "empty `wasm` event")
	}
	if first := log.Attributes[0]; first.Key != runtime.ContractAddressKey || first.Value != source.String() {
		return nil, reverts.Newf(reverts.InvalidContractCallback, "%s=%s", first.Key, first.Value)
	}

	var claims []Claim
	for _, attr := range log.Attributes[1:] {
		switch attr.Key {
		case incentives.AttrClaimedPosition:
			position, err := alliance.ParseAssetInfo(attr.Value)
			if err != nil {
				return nil, reverts.Newf(reverts.InvalidContractCallback, "claimed position %q: %v", attr.Value, err)
			}
			claims = append(claims, Claim{Position: position})
		case incentives.AttrClaimedReward:
			if len(claims) == 0 {
				return nil, reverts.Newf(reverts.InvalidContractCallback, "reward %q without position", attr.Value)
			}
			reward, err := alliance.ParseAsset(attr.Value)
			if err != nil {
				return nil, reverts.Newf(reverts.InvalidContractCallback, "claimed reward %q: %v", attr.Value, err)
			}
			last := &claims[len(claims)-1]
			last.Rewards = append(last.Rewards, reward)
		default:
			if len(claims) > 0 {
				return nil, reverts.Newf(reverts.InvalidContractCallback, "unexpected attribute %q", attr.Key)
			}
		}
	}
	return claims, nil
}
