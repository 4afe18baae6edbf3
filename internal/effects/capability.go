// Package effects defines the fixed effect name set, the effect→
// capability-token pairing table used by the effect checker (§4.10),
// and the capability-grant manifest decoder.
package effects

// FixedEffects is the complete α1 effect vocabulary (§9). Any effect
// name the declaration pass sees outside this set is a DCL002 diagnostic.
var FixedEffects = []string{"fs", "net", "io", "time", "rng", "alloc", "cpu", "atomics", "simd", "ffi"}

// capabilityByEffect pairs the six effects that require a capability
// parameter with their capability-token type name. The remaining four
// fixed effects (alloc, cpu, atomics, simd) are effects without a
// capability pairing (§9) — declaring them is legal without any matching
// parameter.
var capabilityByEffect = map[string]string{
	"fs":   "Fs",
	"net":  "Net",
	"io":   "Io",
	"time": "Time",
	"rng":  "Rng",
	"ffi":  "Ffi",
}

// IsFixedEffect reports whether name is one of the ten α1 effect names.
func IsFixedEffect(name string) bool {
	for _, e := range FixedEffects {
		if e == name {
			return true
		}
	}
	return false
}

// RequiredCapability returns the capability-token type name name's
// effect requires a matching parameter for, and whether that effect
// requires one at all.
func RequiredCapability(effect string) (string, bool) {
	token, ok := capabilityByEffect[effect]
	return token, ok
}

// Capability is a grant token: a name ("Fs", "Net", ...) plus optional
// metadata, mirroring the teacher's capability-as-value model. The core
// only uses Capability statically (as a type, via
// internal/types.CapToken); a runtime Capability value is what a future
// evaluator collaborator would thread through calls.
type Capability struct {
	Name string
	Meta map[string]any
}

// NewCapability creates a capability grant for the given token name.
func NewCapability(name string) Capability {
	return Capability{Name: name, Meta: make(map[string]any)}
}
