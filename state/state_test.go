// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/lvldb"
)

func newState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStorage(t *testing.T) {
	st, db := newState(t)

	addr := alliance.BytesToAddress([]byte("contract"))
	key := alliance.BytesToBytes32([]byte("slot"))

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)

	st.SetRawStorage(addr, key, []byte{1, 2, 3})
	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	require.NoError(t, st.Commit())

	// a fresh state over the same db sees the committed value
	raw, err = New(db).GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	st.SetRawStorage(addr, key, nil)
	require.NoError(t, st.Commit())
	raw, err = New(db).GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestCheckpoint(t *testing.T) {
	st, _ := newState(t)

	addr := alliance.BytesToAddress([]byte("user"))
	require.NoError(t, st.AddBalance(addr, "uluna", uint256.NewInt(100)))

	cp := st.NewCheckpoint()
	require.NoError(t, st.SubBalance(addr, "uluna", uint256.NewInt(40)))
	inner := st.NewCheckpoint()
	require.NoError(t, st.SubBalance(addr, "uluna", uint256.NewInt(10)))

	bal, err := st.GetBalance(addr, "uluna")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), bal.Uint64())

	st.RevertTo(inner)
	bal, _ = st.GetBalance(addr, "uluna")
	assert.Equal(t, uint64(60), bal.Uint64())

	st.RevertTo(cp)
	bal, _ = st.GetBalance(addr, "uluna")
	assert.Equal(t, uint64(100), bal.Uint64())
}

func TestTransfer(t *testing.T) {
	st, _ := newState(t)

	alice := alliance.BytesToAddress([]byte("alice"))
	bob := alliance.BytesToAddress([]byte("bob"))
	require.NoError(t, st.AddBalance(alice, "uluna", uint256.NewInt(10)))

	err := st.Transfer(alice, bob, alliance.Coins{alliance.NewCoin("uluna", 11)})
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	require.NoError(t, st.Transfer(alice, bob, alliance.Coins{alliance.NewCoin("uluna", 4), alliance.NewCoin("uatom", 0)}))
	bal, _ := st.GetBalance(bob, "uluna")
	assert.Equal(t, uint64(4), bal.Uint64())
	bal, _ = st.GetBalance(alice, "uluna")
	assert.Equal(t, uint64(6), bal.Uint64())

	err = st.AddBalance(bob, "uluna", alliance.MaxAmount)
	assert.ErrorIs(t, err, alliance.ErrAmountOverflow)
}
