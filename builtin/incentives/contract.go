// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package incentives is an external incentive contract: it takes deposits of
// pool assets and streams funded rewards to depositors. Claims are reported
// through claimed_position / claimed_reward attributes.
package incentives

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/cw20"
	"github.com/alliancehub/hub/builtin/lphub/ledger"
	"github.com/alliancehub/hub/builtin/lphub/rewards"
	"github.com/alliancehub/hub/builtin/lphub/unclaimed"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

var logger = log.New("pkg", "incentives")

func SetLogger(l log.Logger) {
	logger = l
}

var slotOwner = storage.Slot("owner")

// Claim log attribute keys. Every claimed_reward belongs to the latest
// claimed_position before it.
const (
	AttrClaimedPosition = "claimed_position"
	AttrClaimedReward   = "claimed_reward"
)

// Pool accounting reuses the hub's ledger and accumulator under this
// contract's own storage.
type Incentives struct {
	owner     *storage.Item[alliance.Address]
	deposits  *ledger.Service
	rewards   *rewards.Service
	unclaimed *unclaimed.Service
}

func New(addr alliance.Address, st *state.State) *Incentives {
	sctx := storage.NewContext(addr, st)
	deposits := ledger.New(sctx)
	return &Incentives{
		owner:     storage.NewItem[alliance.Address](sctx, slotOwner),
		deposits:  deposits,
		rewards:   rewards.New(sctx, deposits),
		unclaimed: unclaimed.New(sctx),
	}
}

// Instantiate records the owner allowed to set up pools.
func Instantiate(addr alliance.Address, st *state.State, owner alliance.Address) error {
	return New(addr, st).owner.Set(owner)
}

// SetupPool tracks the reward assets of asset.
func (c *Incentives) SetupPool(asset alliance.AssetInfo, rewardAssets []alliance.AssetInfo) error {
	for _, r := range rewardAssets {
		if _, err := c.rewards.Track(asset.Key(), r); err != nil {
			return err
		}
	}
	return nil
}

// settle folds everything user accrued on asset into the unclaimed store.
func (c *Incentives) settle(user alliance.Address, asset alliance.AssetKey) error {
	infos, err := c.rewards.Rewards(asset)
	if err != nil {
		return err
	}
	for _, r := range infos {
		delta, err := c.rewards.Settle(user, asset, r.Key())
		if err != nil {
			return err
		}
		if err := c.unclaimed.Add(user, asset, r.Key(), delta); err != nil {
			return err
		}
	}
	return nil
}

func (c *Incentives) fastForward(user alliance.Address, asset alliance.AssetKey) error {
	infos, err := c.rewards.Rewards(asset)
	if err != nil {
		return err
	}
	for _, r := range infos {
		if err := c.rewards.FastForward(user, asset, r.Key()); err != nil {
			return err
		}
	}
	return nil
}

func (c *Incentives) deposit(user alliance.Address, asset alliance.Asset) (*runtime.Response, error) {
	if asset.Amount.IsZero() {
		return nil, reverts.New(reverts.AmountCannotBeZero, "deposit")
	}
	key := asset.Info.Key()
	if err := c.settle(user, key); err != nil {
		return nil, err
	}
	if err := c.deposits.Increase(user, key, asset.Amount); err != nil {
		return nil, err
	}
	if err := c.fastForward(user, key); err != nil {
		return nil, err
	}
	return runtime.NewResponse().
		AddAttribute("action", "deposit").
		AddAttribute("user", user.String()).
		AddAttribute("asset", asset.String()), nil
}

func (c *Incentives) withdraw(user alliance.Address, asset alliance.Asset) (*runtime.Response, error) {
	key := asset.Info.Key()
	if err := c.settle(user, key); err != nil {
		return nil, err
	}
	if err := c.deposits.Decrease(user, key, asset.Amount); err != nil {
		return nil, err
	}
	if err := c.fastForward(user, key); err != nil {
		return nil, err
	}
	return runtime.NewResponse().
		AddAttribute("action", "withdraw").
		AddAttribute("user", user.String()).
		AddAttribute("asset", asset.String()).
		AddMessage(cw20.TransferMsg(asset, user)), nil
}

func (c *Incentives) claim(user alliance.Address, assets []alliance.AssetInfo) (*runtime.Response, error) {
	resp := runtime.NewResponse().AddAttribute("action", "claim_rewards")
	for _, asset := range assets {
		key := asset.Key()
		if err := c.settle(user, key); err != nil {
			return nil, err
		}
		resp.AddAttribute(AttrClaimedPosition, asset.String())

		infos, err := c.rewards.Rewards(key)
		if err != nil {
			return nil, err
		}
		for _, r := range infos {
			amount, err := c.unclaimed.Take(user, key, r.Key())
			if err != nil {
				return nil, err
			}
			if amount.IsZero() {
				continue
			}
			paid := alliance.NewAsset(r, amount)
			resp.AddAttribute(AttrClaimedReward, paid.String())
			resp.AddMessage(cw20.TransferMsg(paid, user))
		}
	}
	return resp, nil
}

func (c *Incentives) fund(asset alliance.AssetInfo, reward alliance.Asset) (*runtime.Response, error) {
	bumped, err := c.rewards.BumpRate(asset.Key(), reward.Info, reward.Amount)
	if err != nil {
		return nil, err
	}
	if !bumped {
		return nil, errors.Errorf("pool %v has no deposits", asset)
	}
	logger.Debug("pool funded", "pool", asset, "reward", reward)
	return runtime.NewResponse().
		AddAttribute("action", "fund").
		AddAttribute("pool", asset.String()).
		AddAttribute("reward", reward.String()), nil
}

// Pending returns the rewards user could claim for asset.
func (c *Incentives) Pending(user alliance.Address, asset alliance.AssetInfo) ([]alliance.Asset, error) {
	key := asset.Key()
	infos, err := c.rewards.Rewards(key)
	if err != nil {
		return nil, err
	}
	var out []alliance.Asset
	for _, r := range infos {
		pending, err := c.rewards.Pending(user, key, r.Key())
		if err != nil {
			return nil, err
		}
		stored, err := c.unclaimed.Get(user, key, r.Key())
		if err != nil {
			return nil, err
		}
		total, err := alliance.AddAmount(pending, stored)
		if err != nil {
			return nil, reverts.Arith(err)
		}
		out = append(out, alliance.NewAsset(r, total))
	}
	return out, nil
}

func singleCoin(funds alliance.Coins) (alliance.Coin, error) {
	if len(funds) != 1 {
		return alliance.Coin{}, reverts.Newf(reverts.OnlySingleAssetAllowed, "%d coins attached", len(funds))
	}
	return funds[0], nil
}

// Contract is the runtime entry point.
type Contract struct{}

func (Contract) Execute(env *runtime.Env, info runtime.MessageInfo, msg any) (*runtime.Response, error) {
	c := New(env.Contract, env.State)
	switch m := msg.(type) {
	case Deposit:
		coin, err := singleCoin(info.Funds)
		if err != nil {
			return nil, err
		}
		recipient := info.Sender
		if m.Recipient != nil {
			recipient = *m.Recipient
		}
		return c.deposit(recipient, coin.Asset())

	case cw20.Receive:
		token := alliance.CW20Asset(info.Sender)
		switch hook := m.Msg.(type) {
		case Deposit:
			recipient := m.Sender
			if hook.Recipient != nil {
				recipient = *hook.Recipient
			}
			return c.deposit(recipient, alliance.NewAsset(token, m.Amount))
		case Fund:
			return c.fund(hook.Asset, alliance.NewAsset(token, m.Amount))
		}
		return nil, errors.Errorf("incentives: unsupported receive hook %T", m.Msg)

	case Withdraw:
		return c.withdraw(info.Sender, alliance.NewAsset(m.Asset, m.Amount))

	case ClaimRewards:
		return c.claim(info.Sender, m.Assets)

	case SetupPool:
		owner, err := c.owner.Get()
		if err != nil {
			return nil, err
		}
		if info.Sender != owner {
			return nil, reverts.New(reverts.Unauthorized, "not the owner")
		}
		if err := c.SetupPool(m.Asset, m.Rewards); err != nil {
			return nil, err
		}
		return runtime.NewResponse().
			AddAttribute("action", "setup_pool").
			AddAttribute("pool", m.Asset.String()), nil

	case Fund:
		coin, err := singleCoin(info.Funds)
		if err != nil {
			return nil, err
		}
		return c.fund(m.Asset, coin.Asset())
	}
	return nil, errors.Errorf("incentives: unsupported message %T", msg)
}

func (Contract) Query(env *runtime.Env, msg any) (any, error) {
	c := New(env.Contract, env.State)
	switch m := msg.(type) {
	case RewardInfoQuery:
		return c.rewards.Rewards(m.Asset.Key())
	case DepositQuery:
		return c.deposits.Balance(m.User, m.Asset.Key())
	case PendingRewardsQuery:
		return c.Pending(m.User, m.Asset)
	}
	return nil, errors.Errorf("incentives: unsupported query %T", msg)
}
