// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package incentives

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/builtin/reverts"
	"github.com/alliancehub/hub/lvldb"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
	"github.com/alliancehub/hub/test/datagen"
)

var (
	pool  = alliance.NativeAsset("factory/pool/lp")
	astro = alliance.NativeAsset("factory/astro")
)

type fixture struct {
	rt    *runtime.Runtime
	st    *state.State
	addr  alliance.Address
	owner alliance.Address
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	f := &fixture{rt: runtime.New(st, 0), st: st, addr: datagen.RandAddress(), owner: datagen.RandAddress()}
	require.NoError(t, Instantiate(f.addr, st, f.owner))
	f.rt.Register(f.addr, Contract{})

	require.NoError(t, st.AddBalance(f.owner, astro.Denom, uint256.NewInt(1_000_000)))
	_, err = f.exec(f.owner, SetupPool{Asset: pool, Rewards: []alliance.AssetInfo{astro}})
	require.NoError(t, err)
	return f
}

func (f *fixture) exec(sender alliance.Address, msg any, funds ...alliance.Coin) (*runtime.Result, error) {
	return f.rt.Execute(sender, runtime.WasmExecute{Contract: f.addr, Msg: msg, Funds: funds})
}

func (f *fixture) deposit(t *testing.T, user alliance.Address, amount uint64) {
	require.NoError(t, f.st.AddBalance(user, pool.Denom, uint256.NewInt(amount)))
	_, err := f.exec(user, Deposit{}, alliance.NewCoin(pool.Denom, amount))
	require.NoError(t, err)
}

// claimLog lists the claim attributes of res in emission order.
func claimLog(res *runtime.Result) []string {
	var out []string
	for _, ev := range res.EventsOf("wasm") {
		for _, a := range ev.Attributes {
			if a.Key == AttrClaimedPosition || a.Key == AttrClaimedReward {
				out = append(out, a.Key+"="+a.Value)
			}
		}
	}
	return out
}

func TestSetupPool(t *testing.T) {
	f := newFixture(t)

	_, err := f.exec(datagen.RandAddress(), SetupPool{Asset: astro})
	assert.True(t, reverts.Is(err, reverts.Unauthorized))

	res, err := f.rt.QueryContract(f.addr, RewardInfoQuery{Asset: pool})
	require.NoError(t, err)
	assert.Equal(t, []alliance.AssetInfo{astro}, res)

	res, err = f.rt.QueryContract(f.addr, RewardInfoQuery{Asset: astro})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestFundAndClaim(t *testing.T) {
	f := newFixture(t)
	alice, bob := datagen.RandAddress(), datagen.RandAddress()

	_, err := f.exec(f.owner, Fund{Asset: pool}, alliance.NewCoin(astro.Denom, 100))
	assert.Error(t, err, "no deposits yet")

	f.deposit(t, alice, 1_000)
	f.deposit(t, bob, 3_000)
	_, err = f.exec(f.owner, Fund{Asset: pool}, alliance.NewCoin(astro.Denom, 4_000))
	require.NoError(t, err)

	res, err := f.rt.QueryContract(f.addr, PendingRewardsQuery{Asset: pool, User: bob})
	require.NoError(t, err)
	assert.Equal(t, []alliance.Asset{alliance.NewAsset(astro, uint256.NewInt(3_000))}, res)

	out, err := f.exec(alice, ClaimRewards{Assets: []alliance.AssetInfo{pool}})
	require.NoError(t, err)
	bal, err := f.st.GetBalance(alice, astro.Denom)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), bal.Uint64())

	assert.Equal(t, []string{
		"claimed_position=" + pool.String(),
		"claimed_reward=" + alliance.NewAsset(astro, uint256.NewInt(1_000)).String(),
	}, claimLog(out))

	// a second claim reports the position without rewards
	out, err = f.exec(alice, ClaimRewards{Assets: []alliance.AssetInfo{pool}})
	require.NoError(t, err)
	assert.Equal(t, []string{"claimed_position=" + pool.String()}, claimLog(out))
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	alice := datagen.RandAddress()
	f.deposit(t, alice, 500)

	_, err := f.exec(alice, Withdraw{Asset: pool, Amount: uint256.NewInt(501)})
	assert.True(t, reverts.Is(err, reverts.InsufficientBalance))

	_, err = f.exec(alice, Withdraw{Asset: pool, Amount: uint256.NewInt(200)})
	require.NoError(t, err)

	bal, err := f.st.GetBalance(alice, pool.Denom)
	require.NoError(t, err)
	assert.Equal(t, uint64(200), bal.Uint64())

	res, err := f.rt.QueryContract(f.addr, DepositQuery{Asset: pool, User: alice})
	require.NoError(t, err)
	assert.Equal(t, uint64(300), res.(*uint256.Int).Uint64())
}

func TestDepositValidation(t *testing.T) {
	f := newFixture(t)
	alice := datagen.RandAddress()
	require.NoError(t, f.st.AddBalance(alice, pool.Denom, uint256.NewInt(10)))
	require.NoError(t, f.st.AddBalance(alice, astro.Denom, uint256.NewInt(10)))

	_, err := f.exec(alice, Deposit{})
	assert.True(t, reverts.Is(err, reverts.OnlySingleAssetAllowed))
	_, err = f.exec(alice, Deposit{}, alliance.NewCoin(pool.Denom, 1), alliance.NewCoin(astro.Denom, 1))
	assert.True(t, reverts.Is(err, reverts.OnlySingleAssetAllowed))
	_, err = f.exec(alice, Deposit{}, alliance.NewCoin(pool.Denom, 0))
	assert.True(t, reverts.Is(err, reverts.AmountCannotBeZero))

	bob := datagen.RandAddress()
	_, err = f.exec(alice, Deposit{Recipient: &bob}, alliance.NewCoin(pool.Denom, 10))
	require.NoError(t, err)
	res, err := f.rt.QueryContract(f.addr, DepositQuery{Asset: pool, User: bob})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), res.(*uint256.Int).Uint64())
}
