// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/alliancehub/hub/alliance"
	"github.com/alliancehub/hub/genesis"
	"github.com/alliancehub/hub/lvldb"
	"github.com/alliancehub/hub/runtime"
	"github.com/alliancehub/hub/state"
)

const genesisFileName = "genesis.yaml"

// heightKey lives outside the state key space.
var heightKey = []byte("n.height")

// Node owns the database and runtime of a local network. Every message is a
// block of its own.
type Node struct {
	mu     sync.Mutex
	db     *lvldb.LevelDB
	config *genesis.Config
	state  *state.State
	rt     *runtime.Runtime
}

// initNode writes config into dataDir and builds its genesis state.
func initNode(dataDir string, config *genesis.Config) (*Node, []runtime.Event, error) {
	if err := config.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid genesis")
	}
	if _, err := os.Stat(filepath.Join(dataDir, genesisFileName)); err == nil {
		return nil, nil, errors.Errorf("data dir %v already initialized", dataDir)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, nil, errors.Wrap(err, "create data dir")
	}
	data, err := config.Marshal()
	if err != nil {
		return nil, nil, err
	}

	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{})
	if err != nil {
		return nil, nil, err
	}
	st := state.New(db)
	rt := genesis.NewRuntime(config, st, 0)
	events, err := genesis.Build(config, rt)
	if err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "build genesis")
	}
	n := &Node{db: db, config: config, state: st, rt: rt}
	if err := n.saveHeight(0); err != nil {
		db.Close()
		return nil, nil, err
	}
	// written last so a failed build can be retried
	if err := os.WriteFile(filepath.Join(dataDir, genesisFileName), data, 0o600); err != nil {
		db.Close()
		return nil, nil, errors.Wrap(err, "write genesis")
	}
	return n, events, nil
}

// openNode opens a data dir prepared by initNode.
func openNode(dataDir string, opts lvldb.Options) (*Node, error) {
	config, err := genesis.LoadConfig(filepath.Join(dataDir, genesisFileName))
	if err != nil {
		return nil, errors.Wrap(err, "data dir not initialized")
	}
	db, err := lvldb.New(filepath.Join(dataDir, "main.db"), opts)
	if err != nil {
		return nil, err
	}
	height, err := loadHeight(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	st := state.New(db)
	return &Node{
		db:     db,
		config: config,
		state:  st,
		rt:     genesis.NewRuntime(config, st, height),
	}, nil
}

func loadHeight(db *lvldb.LevelDB) (uint64, error) {
	data, err := db.Get(heightKey)
	if err != nil {
		if db.IsNotFound(err) {
			return 0, nil
		}
		return 0, errors.Wrap(err, "load height")
	}
	if len(data) != 8 {
		return 0, errors.New("corrupted height")
	}
	return binary.BigEndian.Uint64(data), nil
}

func (n *Node) saveHeight(height uint64) error {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], height)
	return n.db.Put(heightKey, data[:])
}

func (n *Node) Close() error {
	return n.db.Close()
}

func (n *Node) Config() *genesis.Config {
	return n.config
}

func (n *Node) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rt.Height()
}

// Execute runs msg from sender at the next height and commits it.
// A failed message leaves state and height untouched.
func (n *Node) Execute(sender alliance.Address, msg runtime.Msg) (*runtime.Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	height := n.rt.Height()
	n.rt.SetHeight(height + 1)
	res, err := n.rt.Execute(sender, msg)
	if err != nil {
		n.rt.SetHeight(height)
		return nil, err
	}
	if err := n.state.Commit(); err != nil {
		return nil, err
	}
	if err := n.saveHeight(height + 1); err != nil {
		return nil, err
	}
	return res, nil
}

// ExecuteHub sends msg to the hub with funds attached.
func (n *Node) ExecuteHub(sender alliance.Address, msg any, funds ...alliance.Coin) (*runtime.Result, error) {
	return n.Execute(sender, runtime.WasmExecute{Contract: genesis.HubAddress, Msg: msg, Funds: funds})
}

func (n *Node) QueryContract(addr alliance.Address, msg any) (any, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rt.QueryContract(addr, msg)
}

func (n *Node) QueryBalance(addr alliance.Address, denom string) (*uint256.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rt.QueryBalance(addr, denom)
}
