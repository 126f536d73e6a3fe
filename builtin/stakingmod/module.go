// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package stakingmod is the chain staking module: validators, delegations
// and per-delegator reward pots. Undelegated tokens are returned at once.
package stakingmod

import (
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/builtin/storage"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

var logger = log.New("pkg", "stakingmod")

func SetLogger(l log.Logger) {
	logger = l
}

var (
	slotValidators  = storage.Slot("validators")
	slotDelegations = storage.Slot("delegations")
	slotDelegators  = storage.Slot("validator-delegators")
	slotPots        = storage.Slot("reward-pots")
	slotPotDenoms   = storage.Slot("reward-pot-denoms")
	slotBondDenoms  = storage.Slot("bonded-denoms")
)

// Address is the module account holding bonded tokens and undistributed rewards.
var Address = alliance.CreateContractAddress("staking-module")

// CreateValidator registers a validator. Any sender may create one.
type CreateValidator struct {
	Validator alliance.Address
}

func (CreateValidator) Route() string { return runtime.RouteStaking }

// AllocateRewards pays Amount from the sender into the reward pots of the
// delegators of Validator, proportionally to their delegation.
type AllocateRewards struct {
	Validator alliance.Address
	Amount    alliance.Coin
}

func (AllocateRewards) Route() string { return runtime.RouteStaking }

// Module keeps its state under Address.
type Module struct {
	validators  *storage.Set
	delegations *storage.Mapping[storage.CompositeKey, *uint256.Int]
	delegators  *storage.MappingSet[alliance.Address]
	pots        *storage.Mapping[storage.CompositeKey, *uint256.Int]
	potDenoms   *storage.MappingSet[storage.CompositeKey]
	bondDenoms  *storage.MappingSet[storage.CompositeKey]
}

func New(st *state.State) *Module {
	sctx := storage.NewContext(Address, st)
	return &Module{
		validators:  storage.NewSet(sctx, slotValidators),
		delegations: storage.NewMapping[storage.CompositeKey, *uint256.Int](sctx, slotDelegations),
		delegators:  storage.NewMappingSet[alliance.Address](sctx, slotDelegators),
		pots:        storage.NewMapping[storage.CompositeKey, *uint256.Int](sctx, slotPots),
		potDenoms:   storage.NewMappingSet[storage.CompositeKey](sctx, slotPotDenoms),
		bondDenoms:  storage.NewMappingSet[storage.CompositeKey](sctx, slotBondDenoms),
	}
}

func delegationKey(delegator, validator alliance.Address, denom string) storage.CompositeKey {
	return storage.Join(delegator, validator, storage.StringKey(denom))
}

func potKey(validator, delegator alliance.Address, denom string) storage.CompositeKey {
	return storage.Join(validator, delegator, storage.StringKey(denom))
}

func (m *Module) IsValidator(validator alliance.Address) (bool, error) {
	return m.validators.Contains(validator.String())
}

// Delegation returns the amount of denom delegator bonded to validator.
func (m *Module) Delegation(delegator, validator alliance.Address, denom string) (*uint256.Int, error) {
	amount, err := m.delegations.Get(delegationKey(delegator, validator, denom))
	if err != nil {
		return nil, errors.Wrap(err, "get delegation")
	}
	return amount, nil
}

// PendingRewards returns the unclaimed pot of delegator at validator.
func (m *Module) PendingRewards(delegator, validator alliance.Address) (alliance.Coins, error) {
	denoms, err := m.potDenoms.At(storage.Join(validator, delegator)).Members()
	if err != nil {
		return nil, err
	}
	var coins alliance.Coins
	for _, denom := range denoms {
		amount, err := m.pots.Get(potKey(validator, delegator, denom))
		if err != nil {
			return nil, err
		}
		if !amount.IsZero() {
			coins = append(coins, alliance.Coin{Denom: denom, Amount: amount})
		}
	}
	return coins, nil
}

func (m *Module) setDelegation(delegator, validator alliance.Address, denom string, amount *uint256.Int) error {
	key := delegationKey(delegator, validator, denom)
	if amount.IsZero() {
		m.delegations.Delete(key)
		return nil
	}
	if _, err := m.delegators.At(validator).Add(delegator.String()); err != nil {
		return err
	}
	if _, err := m.bondDenoms.At(storage.Join(delegator, validator)).Add(denom); err != nil {
		return err
	}
	return m.delegations.Set(key, amount)
}

func (m *Module) requireValidator(validator alliance.Address) error {
	ok, err := m.IsValidator(validator)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Errorf("validator %v does not exist", validator)
	}
	return nil
}

func (m *Module) bond(delegator, validator alliance.Address, coin alliance.Coin) error {
	if err := m.requireValidator(validator); err != nil {
		return err
	}
	current, err := m.Delegation(delegator, validator, coin.Denom)
	if err != nil {
		return err
	}
	sum, err := alliance.AddAmount(current, coin.Amount)
	if err != nil {
		return reverts.Arith(err)
	}
	return m.setDelegation(delegator, validator, coin.Denom, sum)
}

func (m *Module) unbond(delegator, validator alliance.Address, coin alliance.Coin) error {
	current, err := m.Delegation(delegator, validator, coin.Denom)
	if err != nil {
		return err
	}
	if current.Lt(coin.Amount) {
		return errors.Errorf("delegation of %v to %v is %v, below %v", delegator, validator, current, coin.Amount)
	}
	return m.setDelegation(delegator, validator, coin.Denom, new(uint256.Int).Sub(current, coin.Amount))
}

// Handle serves both the staking and the distribution routes.
func (m *Module) Handle(env *runtime.Env, sender alliance.Address, msg runtime.Msg) ([]runtime.Event, error) {
	switch msg := msg.(type) {
	case CreateValidator:
		if _, err := m.validators.Add(msg.Validator.String()); err != nil {
			return nil, err
		}
		return []runtime.Event{runtime.NewEvent("create_validator").
			AddAttribute("validator", msg.Validator.String())}, nil

	case runtime.StakingDelegate:
		if msg.Amount.Amount.IsZero() {
			return nil, errors.New("invalid delegation amount")
		}
		if err := m.bond(sender, msg.Validator, msg.Amount); err != nil {
			return nil, err
		}
		if err := env.State.Transfer(sender, env.Contract, alliance.Coins{msg.Amount}); err != nil {
			return nil, err
		}
		return []runtime.Event{runtime.NewEvent("delegate").
			AddAttribute("validator", msg.Validator.String()).
			AddAttribute("delegator", sender.String()).
			AddAttribute("amount", msg.Amount.String())}, nil

	case runtime.StakingUndelegate:
		if err := m.unbond(sender, msg.Validator, msg.Amount); err != nil {
			return nil, err
		}
		if err := env.State.Transfer(env.Contract, sender, alliance.Coins{msg.Amount}); err != nil {
			return nil, err
		}
		return []runtime.Event{runtime.NewEvent("unbond").
			AddAttribute("validator", msg.Validator.String()).
			AddAttribute("delegator", sender.String()).
			AddAttribute("amount", msg.Amount.String())}, nil

	case runtime.StakingRedelegate:
		if err := m.unbond(sender, msg.Src, msg.Amount); err != nil {
			return nil, err
		}
		if err := m.bond(sender, msg.Dst, msg.Amount); err != nil {
			return nil, err
		}
		return []runtime.Event{runtime.NewEvent("redelegate").
			AddAttribute("source_validator", msg.Src.String()).
			AddAttribute("destination_validator", msg.Dst.String()).
			AddAttribute("amount", msg.Amount.String())}, nil

	case AllocateRewards:
		if err := env.State.Transfer(sender, env.Contract, alliance.Coins{msg.Amount}); err != nil {
			return nil, err
		}
		if err := m.allocate(msg.Validator, msg.Amount); err != nil {
			return nil, err
		}
		return []runtime.Event{runtime.NewEvent("rewards").
			AddAttribute("validator", msg.Validator.String()).
			AddAttribute("amount", msg.Amount.String())}, nil

	case runtime.ClaimDelegationRewards:
		coins, err := m.claim(sender, msg.Validator, msg.Denom)
		if err != nil {
			return nil, err
		}
		if err := env.State.Transfer(env.Contract, sender, coins); err != nil {
			return nil, err
		}
		return []runtime.Event{runtime.NewEvent("withdraw_rewards").
			AddAttribute("validator", msg.Validator.String()).
			AddAttribute("delegator", sender.String()).
			AddAttribute("amount", coins.String())}, nil
	}
	return nil, errors.Errorf("stakingmod: unsupported message %T", msg)
}

// allocate splits coin across the delegators of validator by bonded amount,
// whatever the bonded denom. The remainder of the integer division goes to
// the last delegator.
func (m *Module) allocate(validator alliance.Address, coin alliance.Coin) error {
	delegators, err := m.delegators.At(validator).Members()
	if err != nil {
		return err
	}
	type share struct {
		delegator alliance.Address
		bonded    *uint256.Int
	}
	var (
		shares []share
		total  = new(uint256.Int)
	)
	for _, d := range delegators {
		addr, err := alliance.ParseAddress(d)
		if err != nil {
			return err
		}
		bonded, err := m.bondedTotal(addr, validator)
		if err != nil {
			return err
		}
		if bonded.IsZero() {
			continue
		}
		shares = append(shares, share{addr, bonded})
		total.Add(total, bonded)
	}
	if len(shares) == 0 {
		return errors.Errorf("validator %v has no delegations", validator)
	}

	remaining := new(uint256.Int).Set(coin.Amount)
	for i, s := range shares {
		part := new(uint256.Int).Set(remaining)
		if i < len(shares)-1 {
			part.Mul(coin.Amount, s.bonded)
			part.Div(part, total)
		}
		remaining.Sub(remaining, part)
		if err := m.addToPot(validator, s.delegator, coin.Denom, part); err != nil {
			return err
		}
	}
	logger.Debug("allocated rewards", "validator", validator, "amount", coin, "delegators", len(shares))
	return nil
}

func (m *Module) bondedTotal(delegator, validator alliance.Address) (*uint256.Int, error) {
	denoms, err := m.bondDenoms.At(storage.Join(delegator, validator)).Members()
	if err != nil {
		return nil, err
	}
	total := new(uint256.Int)
	for _, denom := range denoms {
		amount, err := m.Delegation(delegator, validator, denom)
		if err != nil {
			return nil, err
		}
		total.Add(total, amount)
	}
	return total, nil
}

func (m *Module) addToPot(validator, delegator alliance.Address, denom string, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	key := potKey(validator, delegator, denom)
	current, err := m.pots.Get(key)
	if err != nil {
		return err
	}
	sum, err := alliance.AddAmount(current, amount)
	if err != nil {
		return reverts.Arith(err)
	}
	if _, err := m.potDenoms.At(storage.Join(validator, delegator)).Add(denom); err != nil {
		return err
	}
	return m.pots.Set(key, sum)
}

// claim empties the pot of delegator at validator. It fails when delegator
// holds no delegation of denom there.
func (m *Module) claim(delegator, validator alliance.Address, denom string) (alliance.Coins, error) {
	bonded, err := m.Delegation(delegator, validator, denom)
	if err != nil {
		return nil, err
	}
	if bonded.IsZero() {
		return nil, errors.Errorf("no delegation for (%v, %v)", delegator, validator)
	}
	coins, err := m.PendingRewards(delegator, validator)
	if err != nil {
		return nil, err
	}
	for _, c := range coins {
		m.pots.Delete(potKey(validator, delegator, c.Denom))
	}
	return coins, nil
}
