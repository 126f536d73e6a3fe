// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package alliance

import (
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Coin is an amount of a bank denom.
type Coin struct {
	Denom  string
	Amount *uint256.Int
}

func NewCoin(denom string, amount uint64) Coin {
	return Coin{Denom: denom, Amount: uint256.NewInt(amount)}
}

func (c Coin) String() string {
	return c.Amount.Dec() + c.Denom
}

// Asset converts the coin into a native asset.
func (c Coin) Asset() Asset {
	return Asset{Info: NativeAsset(c.Denom), Amount: c.Amount}
}

// ParseCoin parses the "<amount><denom>" form.
func ParseCoin(s string) (Coin, error) {
	asset, err := ParseAsset(s)
	if err != nil {
		return Coin{}, err
	}
	if !asset.Info.IsNative() {
		return Coin{}, errors.Errorf("not a native coin: %q", s)
	}
	return Coin{Denom: asset.Info.Denom, Amount: asset.Amount}, nil
}

// Coins is a list of coins, typically the funds attached to a message.
type Coins []Coin

// ParseCoins parses a comma separated list of coins.
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var coins Coins
	for _, part := range strings.Split(s, ",") {
		c, err := ParseCoin(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		coins = append(coins, c)
	}
	return coins, nil
}

// AmountOf returns the summed amount of denom, zero if absent.
func (cs Coins) AmountOf(denom string) *uint256.Int {
	sum := new(uint256.Int)
	for _, c := range cs {
		if c.Denom == denom {
			sum.Add(sum, c.Amount)
		}
	}
	return sum
}

func (cs Coins) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}
