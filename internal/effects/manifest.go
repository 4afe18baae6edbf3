package effects

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest is an optional, pre-parsed capability-grant file
// (`ferrule.caps.yaml`) naming which capability tokens a run should
// treat as pre-granted to a toplevel entry point — e.g. a script's
// `main` that the CLI collaborator invokes without requiring it to
// declare its own capability parameters. This does not change the
// static checking rules: the effect checker still requires the
// function's declared effects to be covered by *some* capability
// source, granted manifest or explicit parameter; it only changes what
// counts as "covered" for the entry point named in the manifest.
//
// Example file:
//
//	entry: main
//	grants: [Io, Fs]
type Manifest struct {
	Entry      string   `yaml:"entry"`
	GrantsList []string `yaml:"grants"`
}

// ParseManifest decodes a capability manifest from YAML bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("effects: parsing capability manifest: %w", err)
	}
	for _, g := range m.GrantsList {
		valid := false
		for _, name := range capabilityTokenNames {
			if name == g {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("effects: manifest grants unknown capability token %q", g)
		}
	}
	return &m, nil
}

var capabilityTokenNames = []string{"Fs", "Net", "Io", "Time", "Rng", "Alloc", "Cpu", "Atomics", "Simd", "Ffi"}

// Grants reports whether the manifest grants the named capability
// token for the given entry point function name. A nil manifest grants
// nothing.
func (m *Manifest) Grants(entryFunc, token string) bool {
	if m == nil || m.Entry != entryFunc {
		return false
	}
	for _, g := range m.GrantsList {
		if g == token {
			return true
		}
	}
	return false
}
