// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package datagen

import (
	"crypto/rand"

	"github.com/alliancehub/hub/alliance"
)

func RandomHash() alliance.Bytes32 {
	var b32 alliance.Bytes32

	rand.Read(b32[:])
	return b32
}

func RandAddress() (addr alliance.Address) {
	rand.Read(addr[:])
	return
}
