// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package alliance

import (
	"fmt"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// AssetKind tells native bank denoms apart from token contracts.
type AssetKind uint8

const (
	NativeKind AssetKind = iota
	CW20Kind
)

// AssetInfo identifies a depositable or payable asset, either a bank denom
// or a token contract address.
type AssetInfo struct {
	Kind     AssetKind
	Denom    string
	Contract Address
}

// NativeAsset returns the asset info of a bank denom.
func NativeAsset(denom string) AssetInfo {
	return AssetInfo{Kind: NativeKind, Denom: denom}
}

// CW20Asset returns the asset info of a token contract.
func CW20Asset(contract Address) AssetInfo {
	return AssetInfo{Kind: CW20Kind, Contract: contract}
}

func (a AssetInfo) IsNative() bool { return a.Kind == NativeKind }

// String returns the denom for native assets and the hex contract address for tokens.
func (a AssetInfo) String() string {
	if a.Kind == CW20Kind {
		return a.Contract.String()
	}
	return a.Denom
}

// Key returns the canonical storage key of the asset.
func (a AssetInfo) Key() AssetKey {
	return AssetKey(a.String())
}

// IsZero reports whether the info is unset.
func (a AssetInfo) IsZero() bool {
	return a.Kind == NativeKind && a.Denom == ""
}

func (a AssetInfo) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AssetInfo) UnmarshalText(text []byte) error {
	info, err := ParseAssetInfo(string(text))
	if err != nil {
		return err
	}
	*a = info
	return nil
}

// ParseAssetInfo parses a denom or a 0x-prefixed token contract address.
func ParseAssetInfo(s string) (AssetInfo, error) {
	if len(s) == AddressLength*2+2 && strings.HasPrefix(s, "0x") {
		addr, err := ParseAddress(s)
		if err == nil {
			return CW20Asset(addr), nil
		}
	}
	if err := validateDenom(s); err != nil {
		return AssetInfo{}, err
	}
	return NativeAsset(s), nil
}

func validateDenom(denom string) error {
	if len(denom) < 2 || len(denom) > 128 {
		return fmt.Errorf("invalid denom length: %q", denom)
	}
	first := denom[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return fmt.Errorf("denom must start with a letter: %q", denom)
	}
	for _, c := range denom[1:] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '/', c == ':', c == '.', c == '_', c == '-':
		default:
			return fmt.Errorf("invalid denom character %q in %q", c, denom)
		}
	}
	return nil
}

// AssetKey is the canonical string identity of an asset, used in storage keys.
type AssetKey string

func (k AssetKey) Bytes() []byte { return []byte(k) }

func (k AssetKey) String() string { return string(k) }

// Info parses the key back into an AssetInfo.
func (k AssetKey) Info() (AssetInfo, error) {
	return ParseAssetInfo(string(k))
}

// Asset is an amount of a given asset.
type Asset struct {
	Info   AssetInfo
	Amount *uint256.Int
}

func NewAsset(info AssetInfo, amount *uint256.Int) Asset {
	return Asset{Info: info, Amount: amount}
}

// String renders the asset as "<amount><info>", e.g. "1factory/astro".
func (a Asset) String() string {
	return a.Amount.Dec() + a.Info.String()
}

// ParseAsset parses the "<amount><info>" form.
func ParseAsset(s string) (Asset, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Asset{}, errors.Errorf("missing amount in %q", s)
	}
	// a token address starts with "0x", whose leading zero belongs to the info
	if i < len(s) && s[i] == 'x' && s[i-1] == '0' && len(s)-i+1 == AddressLength*2+2 {
		i--
	}
	amount, err := uint256.FromDecimal(s[:i])
	if err != nil {
		return Asset{}, errors.Wrapf(err, "parse amount of %q", s)
	}
	if amount.Cmp(MaxAmount) > 0 {
		return Asset{}, ErrAmountOverflow
	}
	info, err := ParseAssetInfo(s[i:])
	if err != nil {
		return Asset{}, err
	}
	return Asset{Info: info, Amount: amount}, nil
}
