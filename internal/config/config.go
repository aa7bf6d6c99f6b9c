// Package config loads the optional YAML defaults file described in
// SPEC_FULL.md §10.3. It never overrides a flag the user actually set; the
// CLI layer is responsible for applying that precedence.
package config

import (
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Defaults holds the subset of CLI flags a config file may supply a
// default for. Fields the file leaves out keep their zero value, except
// ConflictLimit, which defaults to -1 meaning unbounded (matching the CLI
// flag's own default). A zero value alone does not tell an absent key from
// an explicit one; Set records which keys the file actually contained.
type Defaults struct {
	ConflictLimit int    `yaml:"conflict_limit" mapstructure:"conflict_limit"`
	Witness       bool   `yaml:"witness" mapstructure:"witness"`
	LogFile       string `yaml:"log_file" mapstructure:"log_file"`

	Set map[string]bool `yaml:"-" mapstructure:"-"`
}

// Load reads and decodes a YAML config file from r.
func Load(r io.Reader) (*Defaults, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "config: reading file")
	}

	var loose map[string]interface{}
	if err := yaml.Unmarshal(raw, &loose); err != nil {
		return nil, errors.Wrap(err, "config: parsing yaml")
	}

	d := &Defaults{ConflictLimit: -1, Set: map[string]bool{}}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           d,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "config: building decoder")
	}
	if err := dec.Decode(loose); err != nil {
		return nil, errors.Wrap(err, "config: decoding fields")
	}
	for k := range loose {
		d.Set[k] = true
	}
	return d, nil
}

// LoadFile opens path and decodes it with Load. A missing file is not an
// error: it is reported via the returned bool so the CLI can silently fall
// back to flag-only defaults.
func LoadFile(path string) (*Defaults, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "config: opening %s", path)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}
