package ctx

import "github.com/karol-broda/ferrule/internal/types"

// TypeInterner stores exactly one canonical instance per distinct
// structural fingerprint, so that two handles returned for
// structurally-equal types are == comparable as interfaces holding the
// identical pointer (idempotence: InternType(InternType(t)) ==
// InternType(t), §8).
type TypeInterner struct {
	byFingerprint map[string]types.Type
}

func newTypeInterner() *TypeInterner {
	return &TypeInterner{byFingerprint: make(map[string]types.Type)}
}

// Intern returns the canonical handle for t: if a structurally-identical
// type has already been interned, that existing instance is returned;
// otherwise t itself becomes the canonical instance.
func (ti *TypeInterner) Intern(t types.Type) types.Type {
	fp := t.Fingerprint()
	if existing, ok := ti.byFingerprint[fp]; ok {
		return existing
	}
	ti.byFingerprint[fp] = t
	return t
}

// Len returns the number of distinct canonical types interned so far.
func (ti *TypeInterner) Len() int { return len(ti.byFingerprint) }

// StringInterner stores exactly one canonical Go string per distinct
// byte content, with the same handle-equality contract as TypeInterner.
type StringInterner struct {
	pool map[string]string
}

func newStringInterner() *StringInterner {
	return &StringInterner{pool: make(map[string]string)}
}

// Intern returns the canonical instance of s.
func (si *StringInterner) Intern(s string) string {
	if existing, ok := si.pool[s]; ok {
		return existing
	}
	si.pool[s] = s
	return s
}

// Len returns the number of distinct strings interned so far.
func (si *StringInterner) Len() int { return len(si.pool) }
