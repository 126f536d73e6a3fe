// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package alliance

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssetInfo(t *testing.T) {
	token := BytesToAddress([]byte("token"))

	tests := []struct {
		in      string
		want    AssetInfo
		wantErr bool
	}{
		{"uluna", NativeAsset("uluna"), false},
		{"factory/astro", NativeAsset("factory/astro"), false},
		{"ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2", NativeAsset("ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2"), false},
		{token.String(), CW20Asset(token), false},
		{"", AssetInfo{}, true},
		{"1abc", AssetInfo{}, true},
		{"a b", AssetInfo{}, true},
	}
	for _, tt := range tests {
		got, err := ParseAssetInfo(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.in, got.String())
		assert.Equal(t, AssetKey(tt.in), got.Key())
	}
}

func TestParseAsset(t *testing.T) {
	token := BytesToAddress([]byte("token"))

	a, err := ParseAsset("1factory/astro")
	require.NoError(t, err)
	assert.Equal(t, NativeAsset("factory/astro"), a.Info)
	assert.Equal(t, uint64(1), a.Amount.Uint64())

	a, err = ParseAsset("100" + token.String())
	require.NoError(t, err)
	assert.Equal(t, CW20Asset(token), a.Info)
	assert.Equal(t, uint64(100), a.Amount.Uint64())
	assert.Equal(t, "100"+token.String(), a.String())

	a, err = ParseAsset("10xyz")
	require.NoError(t, err)
	assert.Equal(t, NativeAsset("xyz"), a.Info)
	assert.Equal(t, uint64(10), a.Amount.Uint64())

	_, err = ParseAsset("uluna")
	assert.Error(t, err)

	_, err = ParseAsset("340282366920938463463374607431768211456uluna")
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestCoins(t *testing.T) {
	coins, err := ParseCoins("10uluna, 5uatom,3uluna")
	require.NoError(t, err)
	assert.Len(t, coins, 3)
	assert.Equal(t, uint256.NewInt(13), coins.AmountOf("uluna"))
	assert.True(t, coins.AmountOf("uosmo").IsZero())
	assert.Equal(t, "10uluna,5uatom,3uluna", coins.String())

	_, err = ParseCoin("1" + BytesToAddress([]byte("token")).String())
	assert.Error(t, err)
}

func TestAddressText(t *testing.T) {
	addr := CreateContractAddress("hub")
	text, err := addr.MarshalText()
	require.NoError(t, err)

	var back Address
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, addr, back)
	assert.NotEqual(t, addr, CreateContractAddress("incentives"))

	_, err = ParseAddress("0x1234")
	assert.Error(t, err)
}
