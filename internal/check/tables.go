package check

import (
	"sort"

	"github.com/karol-broda/ferrule/internal/ast"
	"github.com/karol-broda/ferrule/internal/types"
)

// domainInfo is one named error domain's variant set (§4.7, §4.11): an
// error declaration and a domain declaration are both entered here under
// their own name, since a domain declared as a union of error types
// behaves identically to one declared inline once its variant set is
// known.
type domainInfo struct {
	name       string
	variants   []string
	fieldNames map[string][]string
	fieldTypes map[string][]types.Type
}

// DomainTable is the error-domain table (§4.7, §4.11): a name→variant-set
// map supporting the subset relation the domain checker and the `check`
// expression rely on.
type DomainTable struct {
	domains map[string]*domainInfo
}

func newDomainTable() *DomainTable {
	return &DomainTable{domains: make(map[string]*domainInfo)}
}

// register installs name with the given variant list if name is not
// already present; it returns false if name was already registered
// (duplicate declaration, caught by the declaration pass).
func (t *DomainTable) register(name string, variants []ast.ErrorVariant) bool {
	if _, exists := t.domains[name]; exists {
		return false
	}
	info := &domainInfo{
		name:       name,
		fieldNames: make(map[string][]string),
		fieldTypes: make(map[string][]types.Type),
	}
	for _, v := range variants {
		info.variants = append(info.variants, v.Name)
		for _, f := range v.Fields {
			info.fieldNames[v.Name] = append(info.fieldNames[v.Name], f.Name)
		}
	}
	t.domains[name] = info
	return true
}

// registerUnion installs name as the union of the variant sets of the
// domains named by members (the `domain Name = X, Y;` form). Members not
// yet registered (unknown names, or error types declared later in the
// file) contribute nothing, and no diagnostic is reported for them.
func (t *DomainTable) registerUnion(name string, members []string) bool {
	if _, exists := t.domains[name]; exists {
		return false
	}
	info := &domainInfo{
		name:       name,
		fieldNames: make(map[string][]string),
		fieldTypes: make(map[string][]types.Type),
	}
	for _, m := range members {
		member, ok := t.domains[m]
		if !ok {
			continue
		}
		info.variants = append(info.variants, member.variants...)
		for vname, fnames := range member.fieldNames {
			info.fieldNames[vname] = fnames
			info.fieldTypes[vname] = member.fieldTypes[vname]
		}
	}
	t.domains[name] = info
	return true
}

// setFieldTypes records the resolved field types for one variant of
// domain, filled in by the type resolver once field type expressions
// have been resolved (the declaration pass only knows field names).
func (t *DomainTable) setFieldTypes(domain, variant string, fieldTypes []types.Type) {
	info, ok := t.domains[domain]
	if !ok {
		return
	}
	info.fieldTypes[variant] = fieldTypes
}

// Has reports whether domain is a registered error domain name.
func (t *DomainTable) Has(domain string) bool {
	_, ok := t.domains[domain]
	return ok
}

// Variants returns domain's variant names in declaration order, or nil if
// domain is not registered.
func (t *DomainTable) Variants(domain string) []string {
	info, ok := t.domains[domain]
	if !ok {
		return nil
	}
	return info.variants
}

// HasVariant reports whether variant belongs to domain.
func (t *DomainTable) HasVariant(domain, variant string) bool {
	for _, v := range t.Variants(domain) {
		if v == variant {
			return true
		}
	}
	return false
}

// FieldTypes returns the resolved field names/types of one variant of
// domain, in declaration order.
func (t *DomainTable) FieldTypes(domain, variant string) ([]string, []types.Type) {
	info, ok := t.domains[domain]
	if !ok {
		return nil, nil
	}
	return info.fieldNames[variant], info.fieldTypes[variant]
}

// IsSubset reports whether every variant name of domain a appears in
// domain b (§8 "Subset monotonicity"). A name is always a subset of
// itself; otherwise an unknown domain on either side is not a subset of
// anything.
func (t *DomainTable) IsSubset(a, b string) bool {
	if a == b {
		return true
	}
	av, aok := t.domains[a]
	_, bok := t.domains[b]
	if !aok || !bok {
		return false
	}
	for _, v := range av.variants {
		if !t.HasVariant(b, v) {
			return false
		}
	}
	return true
}

// HoverEntry is one recorded definition or use site (§4.14 "Hover
// table").
type HoverEntry struct {
	Pos         ast.Pos
	Name        string
	Kind        string
	Type        string
	ParamNames  []string
	ParamTypes  []string
	Effects     []string
	ErrorDomain string
}

// HoverTable records a HoverEntry at every name definition and use site
// and supports point lookup.
type HoverTable struct {
	entries []HoverEntry
}

func newHoverTable() *HoverTable { return &HoverTable{} }

func (h *HoverTable) add(e HoverEntry) { h.entries = append(h.entries, e) }

// FindAt returns the hover entry whose span contains (line, col), if any.
func (h *HoverTable) FindAt(line, col int) (HoverEntry, bool) {
	for _, e := range h.entries {
		if e.Pos.Line == line && col >= e.Pos.Column && col < e.Pos.Column+e.Pos.Length {
			return e, true
		}
	}
	return HoverEntry{}, false
}

// Entries returns every recorded entry, in recording order.
func (h *HoverTable) Entries() []HoverEntry { return h.entries }

// LocationTable is the symbol-location table (§4.14): one definition span
// and a list of reference spans per global symbol name.
type LocationTable struct {
	definitions map[string]ast.Pos
	references  map[string][]ast.Pos
}

func newLocationTable() *LocationTable {
	return &LocationTable{definitions: make(map[string]ast.Pos), references: make(map[string][]ast.Pos)}
}

func (l *LocationTable) recordDefinition(name string, pos ast.Pos) {
	l.definitions[name] = pos
}

func (l *LocationTable) recordReference(name string, pos ast.Pos) {
	l.references[name] = append(l.references[name], pos)
}

// GetDefinition returns name's recorded definition span, if any.
func (l *LocationTable) GetDefinition(name string) (ast.Pos, bool) {
	pos, ok := l.definitions[name]
	return pos, ok
}

// GetReferences returns every recorded reference span for name, in
// recording order.
func (l *LocationTable) GetReferences(name string) []ast.Pos {
	return l.references[name]
}

// FindSymbolAt returns the name of the global symbol whose definition or
// one of whose references contains (line, col).
func (l *LocationTable) FindSymbolAt(line, col int) (string, bool) {
	for name, pos := range l.definitions {
		if within(pos, line, col) {
			return name, true
		}
	}
	for name, refs := range l.references {
		for _, pos := range refs {
			if within(pos, line, col) {
				return name, true
			}
		}
	}
	return "", false
}

func within(pos ast.Pos, line, col int) bool {
	return pos.Line == line && col >= pos.Column && col < pos.Column+pos.Length
}

// sortedNames is a small helper used by passes that need deterministic
// iteration order over a name set for reproducible diagnostic ordering.
func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
