// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"os"
	"strings"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/alliancehub/hub/alliance"
)

// TokenPrefix refers to a token declared in the same config, e.g. "cw20:astro".
const TokenPrefix = "cw20:"

// Config describes a network: the hub, its collaborators and initial balances.
type Config struct {
	Hub         HubConfig          `yaml:"hub"`
	Incentives  *IncentivesConfig  `yaml:"incentives,omitempty"`
	Validators  []alliance.Address `yaml:"validators"`
	Delegations []Delegation       `yaml:"delegations,omitempty"`
	Tokens      []Token            `yaml:"tokens,omitempty"`
	Whitelist   []WhitelistEntry   `yaml:"whitelist"`
	Accounts    []Account          `yaml:"accounts,omitempty"`
}

type HubConfig struct {
	Governance          alliance.Address `yaml:"governance"`
	Controller          alliance.Address `yaml:"controller"`
	FeeCollector        alliance.Address `yaml:"fee_collector"`
	RewardDenom         string           `yaml:"reward_denom"`
	AllianceTokenDenom  string           `yaml:"alliance_token_denom"`
	AllianceTokenSupply *uint256.Int     `yaml:"alliance_token_supply"`
}

type IncentivesConfig struct {
	Owner alliance.Address `yaml:"owner"`
	Pools []Pool           `yaml:"pools,omitempty"`
}

// Pool declares the reward assets of an incentivized asset.
type Pool struct {
	Asset   string   `yaml:"asset"`
	Rewards []string `yaml:"rewards"`
}

// Delegation is bonded by the controller right after genesis.
type Delegation struct {
	Validator alliance.Address `yaml:"validator"`
	Amount    *uint256.Int     `yaml:"amount"`
}

type Token struct {
	Label    string                            `yaml:"label"`
	Name     string                            `yaml:"name"`
	Symbol   string                            `yaml:"symbol"`
	Decimals uint8                             `yaml:"decimals"`
	Minter   alliance.Address                  `yaml:"minter"`
	Balances map[alliance.Address]*uint256.Int `yaml:"balances,omitempty"`
}

// WhitelistEntry lists Asset paying Reward (the hub reward denom when empty)
// with distribution Weight.
type WhitelistEntry struct {
	Asset  string `yaml:"asset"`
	Reward string `yaml:"reward,omitempty"`
	Weight string `yaml:"weight"`
}

type Account struct {
	Address alliance.Address `yaml:"address"`
	Coins   string           `yaml:"coins"`
}

// ParseConfig decodes YAML, rejecting unknown fields.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfig reads and parses the file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseConfig(data)
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ResolveAsset parses a denom, a token address or a TokenPrefix reference.
func (c *Config) ResolveAsset(s string) (alliance.AssetInfo, error) {
	if label, ok := strings.CutPrefix(s, TokenPrefix); ok {
		for _, t := range c.Tokens {
			if t.Label == label {
				return alliance.CW20Asset(TokenAddress(label)), nil
			}
		}
		return alliance.AssetInfo{}, errors.Errorf("unknown token %q", label)
	}
	return alliance.ParseAssetInfo(s)
}

func (c *Config) Validate() error {
	if c.Hub.AllianceTokenSupply == nil || c.Hub.AllianceTokenSupply.IsZero() {
		return errors.New("hub: alliance_token_supply must be set")
	}
	labels := make(map[string]bool)
	for _, t := range c.Tokens {
		if t.Label == "" {
			return errors.New("token: label must be set")
		}
		if labels[t.Label] {
			return errors.Errorf("token %q declared twice", t.Label)
		}
		labels[t.Label] = true
	}

	total := math.LegacyZeroDec()
	for _, w := range c.Whitelist {
		if _, err := c.ResolveAsset(w.Asset); err != nil {
			return errors.Wrapf(err, "whitelist %q", w.Asset)
		}
		if w.Reward != "" {
			if _, err := c.ResolveAsset(w.Reward); err != nil {
				return errors.Wrapf(err, "whitelist %q reward", w.Asset)
			}
		}
		weight, err := w.weight()
		if err != nil {
			return errors.Wrapf(err, "whitelist %q weight", w.Asset)
		}
		total = total.Add(weight)
	}
	if total.GT(math.LegacyOneDec()) {
		return errors.Errorf("whitelist: weights sum to %v", total)
	}

	if c.Incentives != nil {
		for _, p := range c.Incentives.Pools {
			if _, err := c.ResolveAsset(p.Asset); err != nil {
				return errors.Wrapf(err, "pool %q", p.Asset)
			}
			for _, r := range p.Rewards {
				if _, err := c.ResolveAsset(r); err != nil {
					return errors.Wrapf(err, "pool %q reward", p.Asset)
				}
			}
		}
	}
	for _, a := range c.Accounts {
		if _, err := alliance.ParseCoins(a.Coins); err != nil {
			return errors.Wrapf(err, "account %v", a.Address)
		}
	}
	for _, d := range c.Delegations {
		if d.Amount == nil || d.Amount.IsZero() {
			return errors.Errorf("delegation to %v: amount must be set", d.Validator)
		}
	}
	return nil
}

func (w WhitelistEntry) weight() (math.LegacyDec, error) {
	if w.Weight == "" {
		return math.LegacyZeroDec(), nil
	}
	d, err := math.LegacyNewDecFromStr(w.Weight)
	if err != nil {
		return math.LegacyDec{}, err
	}
	if d.IsNegative() || d.GT(math.LegacyOneDec()) {
		return math.LegacyDec{}, errors.Errorf("%v out of [0, 1]", d)
	}
	return d, nil
}
