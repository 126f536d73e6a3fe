// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
)

// Kind names a contract-visible failure.
type Kind uint8

const (
	Unauthorized Kind = iota + 1
	AssetNotWhitelisted
	AmountCannotBeZero
	OnlySingleAssetAllowed
	InsufficientBalance
	InvalidTotalDistribution
	InvalidWeight
	MissingRewardAsset
	InvalidContractCallback
	EmptyDelegation
	InvalidReplyID
	Overflow
)

var kindNames = map[Kind]string{
	Unauthorized:             "Unauthorized",
	AssetNotWhitelisted:      "AssetNotWhitelisted",
	AmountCannotBeZero:       "AmountCannotBeZero",
	OnlySingleAssetAllowed:   "OnlySingleAssetAllowed",
	InsufficientBalance:      "InsufficientBalance",
	InvalidTotalDistribution: "InvalidTotalDistribution",
	InvalidWeight:            "InvalidWeight",
	MissingRewardAsset:       "MissingRewardAsset",
	InvalidContractCallback:  "InvalidContractCallback",
	EmptyDelegation:          "EmptyDelegation",
	InvalidReplyID:           "InvalidReplyID",
	Overflow:                 "Overflow",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.message
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Is reports whether err carries a revert of the given kind.
func Is(err error, kind Kind) bool {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind == kind
	}
	return false
}

// Arith converts amount and decimal range failures into Overflow reverts.
// Other errors pass through untouched.
func Arith(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, alliance.ErrAmountOverflow),
		errors.Is(err, alliance.ErrAmountUnderflow),
		errors.Is(err, alliance.ErrDecimalOverflow):
		return New(Overflow, err.Error())
	}
	return err
}
