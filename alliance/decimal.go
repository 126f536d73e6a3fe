// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package alliance

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// ErrDecimalOverflow is returned when fixed-point arithmetic leaves the representable range.
var ErrDecimalOverflow = errors.New("decimal overflow")

// DecFromBits restores an 18-decimal fixed-point value from its stored integer form.
// A nil input yields zero.
func DecFromBits(bits *big.Int) math.LegacyDec {
	if bits == nil {
		return math.LegacyZeroDec()
	}
	return math.LegacyNewDecFromBigIntWithPrec(bits, math.LegacyPrecision)
}

// DecBits returns the integer form of d suitable for storage.
func DecBits(d math.LegacyDec) *big.Int {
	return d.BigInt()
}

// DecFromAmount converts an integral amount into a decimal.
func DecFromAmount(a *uint256.Int) math.LegacyDec {
	return math.LegacyNewDecFromInt(math.NewIntFromBigInt(a.ToBig()))
}

// TruncateAmount floors d into an amount. Negative or oversized values fail.
func TruncateAmount(d math.LegacyDec) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, ErrAmountUnderflow
	}
	amount, overflow := uint256.FromBig(d.TruncateInt().BigInt())
	if overflow || amount.Cmp(MaxAmount) > 0 {
		return nil, ErrAmountOverflow
	}
	return amount, nil
}

// MulAmountFloor computes floor(d * a).
func MulAmountFloor(d math.LegacyDec, a *uint256.Int) (out *uint256.Int, err error) {
	err = GuardDec(func() error {
		var e error
		out, e = TruncateAmount(d.MulInt(math.NewIntFromBigInt(a.ToBig())))
		return e
	})
	return
}

// QuoAmountFloor computes a / b truncated to 18 decimals.
func QuoAmountFloor(a, b *uint256.Int) (out math.LegacyDec, err error) {
	if b.IsZero() {
		return math.LegacyDec{}, errors.Wrap(ErrDecimalOverflow, "division by zero")
	}
	err = GuardDec(func() error {
		out = DecFromAmount(a).QuoTruncate(DecFromAmount(b))
		return nil
	})
	return
}

// GuardDec runs fn, converting the panics math.LegacyDec raises on overflow into ErrDecimalOverflow.
func GuardDec(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(ErrDecimalOverflow, fmt.Sprint(r))
		}
	}()
	return fn()
}
