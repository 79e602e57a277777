package policy

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/tsbindgen/errors"
)

// FileName is the project policy file searched for upward from the working
// directory.
const FileName = "tsbindgen.toml"

// EnvPrefix prefixes environment overrides (TSBINDGEN_EMISSION_MODE=facade).
const EnvPrefix = "TSBINDGEN"

// Load builds the effective policy: defaults, then the policy file (explicit
// path, or tsbindgen.toml found upward from the working directory), then
// environment overrides. The returned path is the file used, empty when
// none was found.
func Load(explicitPath string) (*Policy, string, error) {
	v := NewViper()

	path := explicitPath
	if path == "" {
		path = FindProjectPolicy()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, "", errors.Wrapf(err, "failed to read policy file %s", path)
		}
	}

	p, err := LoadWithViper(v)
	if err != nil {
		return nil, "", err
	}
	return p, path, nil
}

// NewViper returns a viper instance with defaults and environment binding,
// without any file read.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// LoadWithViper decodes and validates a policy from a prepared viper instance
func LoadWithViper(v *viper.Viper) (*Policy, error) {
	var p Policy
	if err := v.Unmarshal(&p); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal policy")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFromFile loads a policy from one file, with defaults but without
// environment overrides.
func LoadFromFile(path string) (*Policy, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read policy file %s", path)
	}
	p, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "policy file %s", path)
	}
	return p, nil
}

// FindProjectPolicy walks up from the working directory looking for
// tsbindgen.toml. Returns "" when none is found.
func FindProjectPolicy() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findUpward(dir)
}

func findUpward(dir string) string {
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
