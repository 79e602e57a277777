// Package contract restricts a graph to the identities a previous build
// exposed, so a later build of a dependent library keeps the same surface.
package contract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/tsbindgen/errors"
)

// Contract lists the allowed type and member identity strings.
type Contract struct {
	// GeneratorVersion is the version that produced the contract, empty for
	// hand-written contracts.
	GeneratorVersion string   `json:"generatorVersion,omitempty" toml:"generator_version"`
	Types            []string `json:"types" toml:"types"`
	Members          []string `json:"members" toml:"members"`

	types   map[string]bool
	members map[string]bool
}

// New builds a contract from identity lists.
func New(version string, types, members []string) *Contract {
	c := &Contract{GeneratorVersion: version, Types: types, Members: members}
	c.index()
	return c
}

func (c *Contract) index() {
	c.types = make(map[string]bool, len(c.Types))
	for _, t := range c.Types {
		c.types[strings.TrimSpace(t)] = true
	}
	c.members = make(map[string]bool, len(c.Members))
	for _, m := range c.Members {
		c.members[strings.TrimSpace(m)] = true
	}
}

// AllowsType reports whether a type identity string is in the contract.
func (c *Contract) AllowsType(id string) bool {
	return c.types[id]
}

// AllowsMember reports whether a member identity string is in the contract.
func (c *Contract) AllowsMember(id string) bool {
	return c.members[id]
}

// Load reads a contract file. ".toml" files are decoded as TOML, anything
// else as JSON.
func Load(path string) (*Contract, error) {
	var c Contract
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &c); err != nil {
			return nil, errors.Wrapf(err, "failed to decode contract %s", path)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read contract %s", path)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, errors.Wrapf(err, "failed to decode contract %s", path)
		}
	}
	if len(c.Types) == 0 {
		return nil, errors.WithHint(
			errors.NewInvalidInputf("contract %s lists no types", path),
			"a contract with no types would drop the whole graph")
	}
	c.index()
	return &c, nil
}

// Save writes the contract as JSON with sorted identity lists.
func (c *Contract) Save(path string) error {
	out := Contract{GeneratorVersion: c.GeneratorVersion}
	out.Types = append([]string(nil), c.Types...)
	out.Members = append([]string(nil), c.Members...)
	sort.Strings(out.Types)
	sort.Strings(out.Members)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal contract")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.Wrapf(err, "failed to write contract %s", path)
	}
	return nil
}
