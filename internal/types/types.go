// Package types defines the resolved, semantic type representation
// produced by the type resolver — distinct from the syntactic type
// expressions in package ast. Every Type is interned by
// internal/ctx.Context, so after interning, equality between two
// interned handles reduces to pointer/fingerprint comparison.
package types

import (
	"fmt"
	"strings"
)

// Type is implemented by every resolved type variant. Fingerprint
// returns a string that is equal for two types iff they are
// structurally identical, which is exactly the interning key the
// compilation context uses.
type Type interface {
	String() string
	Fingerprint() string
	Equals(other Type) bool
}

// ---- Scalars ----

// Scalar is a fixed-width integer/float, or one of bool/char/string/
// bytes/unit.
type Scalar struct {
	Name string // "i8","i16","i32","i64","u8","u16","u32","u64","usize","f32","f64","bool","char","string","bytes","unit"
}

func (s *Scalar) String() string      { return s.Name }
func (s *Scalar) Fingerprint() string { return "scalar:" + s.Name }
func (s *Scalar) Equals(o Type) bool {
	other, ok := o.(*Scalar)
	return ok && other.Name == s.Name
}

var (
	I8     = &Scalar{"i8"}
	I16    = &Scalar{"i16"}
	I32    = &Scalar{"i32"}
	I64    = &Scalar{"i64"}
	U8     = &Scalar{"u8"}
	U16    = &Scalar{"u16"}
	U32    = &Scalar{"u32"}
	U64    = &Scalar{"u64"}
	Usize  = &Scalar{"usize"}
	F32    = &Scalar{"f32"}
	F64    = &Scalar{"f64"}
	Bool   = &Scalar{"bool"}
	Char   = &Scalar{"char"}
	String = &Scalar{"string"}
	Bytes  = &Scalar{"bytes"}
	Unit   = &Scalar{"unit"}
)

// scalarsByName backs the type resolver's name lookup for builtin
// scalar type names.
var scalarsByName = map[string]*Scalar{
	"i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"u8": U8, "u16": U16, "u32": U32, "u64": U64, "usize": Usize,
	"f32": F32, "f64": F64,
	"bool": Bool, "char": Char, "string": String, "bytes": Bytes, "unit": Unit,
}

// LookupScalar returns the builtin scalar named name, if any.
func LookupScalar(name string) (*Scalar, bool) {
	s, ok := scalarsByName[name]
	return s, ok
}

// IsNumeric reports whether s is an integer or float scalar (used by
// literal unification).
func IsNumeric(t Type) bool {
	s, ok := t.(*Scalar)
	if !ok {
		return false
	}
	switch s.Name {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64", "usize", "f32", "f64":
		return true
	}
	return false
}

// IsFloat reports whether s is a float scalar.
func IsFloat(t Type) bool {
	s, ok := t.(*Scalar)
	return ok && (s.Name == "f32" || s.Name == "f64")
}

// ---- Capability tokens ----

// CapabilityNames are the ten fixed capability-token type names (§3).
var CapabilityNames = []string{"Fs", "Net", "Io", "Time", "Rng", "Alloc", "Cpu", "Atomics", "Simd", "Ffi"}

// CapToken is a capability token type: Fs, Net, Io, Time, Rng, Alloc,
// Cpu, Atomics, Simd, Ffi.
type CapToken struct {
	Name string
}

func (c *CapToken) String() string      { return c.Name }
func (c *CapToken) Fingerprint() string { return "cap:" + c.Name }
func (c *CapToken) Equals(o Type) bool {
	other, ok := o.(*CapToken)
	return ok && other.Name == c.Name
}

// IsCapabilityName reports whether name is one of the fixed capability
// token type names.
func IsCapabilityName(name string) bool {
	for _, n := range CapabilityNames {
		if n == name {
			return true
		}
	}
	return false
}

// ---- Compound types ----

// Array is a fixed-size, element-homogeneous aggregate: Array<T, N>.
type Array struct {
	Elem Type
	Size int
}

func (a *Array) String() string { return fmt.Sprintf("Array<%s, %d>", a.Elem.String(), a.Size) }
func (a *Array) Fingerprint() string {
	return fmt.Sprintf("array:%s:%d", a.Elem.Fingerprint(), a.Size)
}
func (a *Array) Equals(o Type) bool {
	other, ok := o.(*Array)
	return ok && other.Size == a.Size && other.Elem.Equals(a.Elem)
}

// Vector is a SIMD-flavored fixed-size aggregate: Vector<T, N>.
type Vector struct {
	Elem Type
	Size int
}

func (v *Vector) String() string { return fmt.Sprintf("Vector<%s, %d>", v.Elem.String(), v.Size) }
func (v *Vector) Fingerprint() string {
	return fmt.Sprintf("vector:%s:%d", v.Elem.Fingerprint(), v.Size)
}
func (v *Vector) Equals(o Type) bool {
	other, ok := o.(*Vector)
	return ok && other.Size == v.Size && other.Elem.Equals(v.Elem)
}

// View is a possibly-mutable borrowed slice view: View<T> / View<mut T>.
type View struct {
	Elem    Type
	Mutable bool
}

func (v *View) String() string {
	if v.Mutable {
		return fmt.Sprintf("View<mut %s>", v.Elem.String())
	}
	return fmt.Sprintf("View<%s>", v.Elem.String())
}
func (v *View) Fingerprint() string {
	return fmt.Sprintf("view:%s:%v", v.Elem.Fingerprint(), v.Mutable)
}
func (v *View) Equals(o Type) bool {
	other, ok := o.(*View)
	return ok && other.Mutable == v.Mutable && other.Elem.Equals(v.Elem)
}

// Nullable is T?.
type Nullable struct {
	Inner Type
}

func (n *Nullable) String() string      { return n.Inner.String() + "?" }
func (n *Nullable) Fingerprint() string { return "nullable:" + n.Inner.Fingerprint() }
func (n *Nullable) Equals(o Type) bool {
	other, ok := o.(*Nullable)
	return ok && other.Inner.Equals(n.Inner)
}

// Function is a (possibly generic, possibly effectful, possibly
// error-domain-returning) function type.
type Function struct {
	TypeParams  []string
	Params      []Type
	Return      Type
	Effects     []string
	ErrorDomain string // empty if the function declares no error domain
}

func (f *Function) String() string {
	var b strings.Builder
	b.WriteString("function(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	b.WriteString(") -> ")
	b.WriteString(f.Return.String())
	if f.ErrorDomain != "" {
		b.WriteString(" error " + f.ErrorDomain)
	}
	if len(f.Effects) > 0 {
		b.WriteString(" effects [" + strings.Join(f.Effects, ", ") + "]")
	}
	return b.String()
}

func (f *Function) Fingerprint() string {
	parts := make([]string, 0, len(f.Params)+4)
	parts = append(parts, "function", strings.Join(f.TypeParams, ","))
	for _, p := range f.Params {
		parts = append(parts, p.Fingerprint())
	}
	parts = append(parts, "->", f.Return.Fingerprint())
	parts = append(parts, "effects:"+strings.Join(f.Effects, ","))
	parts = append(parts, "error:"+f.ErrorDomain)
	return strings.Join(parts, "|")
}

func (f *Function) Equals(o Type) bool {
	other, ok := o.(*Function)
	if !ok || len(other.Params) != len(f.Params) || other.ErrorDomain != f.ErrorDomain {
		return false
	}
	for i, p := range f.Params {
		if !p.Equals(other.Params[i]) {
			return false
		}
	}
	if !f.Return.Equals(other.Return) {
		return false
	}
	if len(f.Effects) != len(other.Effects) {
		return false
	}
	for i, e := range f.Effects {
		if other.Effects[i] != e {
			return false
		}
	}
	return true
}

// Named wraps an underlying type with a name, e.g. `Region` or an
// error/domain name. A `type Point = { x: i32, y: i32 };` alias is not
// wrapped: it resolves to its underlying type directly.
type Named struct {
	Name       string
	Underlying Type
}

func (n *Named) String() string      { return n.Name }
func (n *Named) Fingerprint() string { return "named:" + n.Name }
func (n *Named) Equals(o Type) bool {
	other, ok := o.(*Named)
	return ok && other.Name == n.Name
}

// Record is a nominal-free structural record type: field names paired
// with field types, in declaration order.
type Record struct {
	FieldNames []string
	FieldTypes []Type
}

func (r *Record) String() string {
	var b strings.Builder
	b.WriteString("{ ")
	for i, name := range r.FieldNames {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name + ": " + r.FieldTypes[i].String())
	}
	b.WriteString(" }")
	return b.String()
}

func (r *Record) Fingerprint() string {
	parts := make([]string, len(r.FieldNames))
	for i, name := range r.FieldNames {
		parts[i] = name + ":" + r.FieldTypes[i].Fingerprint()
	}
	return "record:{" + strings.Join(parts, ",") + "}"
}

func (r *Record) Equals(o Type) bool {
	other, ok := o.(*Record)
	if !ok || len(other.FieldNames) != len(r.FieldNames) {
		return false
	}
	for i, name := range r.FieldNames {
		if other.FieldNames[i] != name || !other.FieldTypes[i].Equals(r.FieldTypes[i]) {
			return false
		}
	}
	return true
}

// FieldType looks up a record field's type by name.
func (r *Record) FieldType(name string) (Type, bool) {
	for i, n := range r.FieldNames {
		if n == name {
			return r.FieldTypes[i], true
		}
	}
	return nil, false
}

// UnionVariant is one arm of a union type: a name plus its (possibly
// empty) ordered field list.
type UnionVariant struct {
	Name       string
	FieldNames []string
	FieldTypes []Type
}

// Union is a closed, nominal-or-anonymous sum type.
type Union struct {
	Variants []UnionVariant
}

func (u *Union) String() string {
	names := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		names[i] = v.Name
	}
	return "| " + strings.Join(names, " | ")
}

func (u *Union) Fingerprint() string {
	parts := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		fields := make([]string, len(v.FieldNames))
		for j, n := range v.FieldNames {
			fields[j] = n + ":" + v.FieldTypes[j].Fingerprint()
		}
		parts[i] = v.Name + "{" + strings.Join(fields, ",") + "}"
	}
	return "union:[" + strings.Join(parts, ",") + "]"
}

func (u *Union) Equals(o Type) bool {
	other, ok := o.(*Union)
	if !ok || len(other.Variants) != len(u.Variants) {
		return false
	}
	for i, v := range u.Variants {
		ov := other.Variants[i]
		if ov.Name != v.Name || len(ov.FieldNames) != len(v.FieldNames) {
			return false
		}
		for j := range v.FieldNames {
			if ov.FieldNames[j] != v.FieldNames[j] || !ov.FieldTypes[j].Equals(v.FieldTypes[j]) {
				return false
			}
		}
	}
	return true
}

// VariantNames returns the ordered list of this union's variant names.
func (u *Union) VariantNames() []string {
	names := make([]string, len(u.Variants))
	for i, v := range u.Variants {
		names[i] = v.Name
	}
	return names
}

// HasVariant reports whether name is one of u's variants.
func (u *Union) HasVariant(name string) bool {
	for _, v := range u.Variants {
		if v.Name == name {
			return true
		}
	}
	return false
}

// Range is the type of a `start..end` / `start..=end` range expression.
type Range struct {
	Elem Type
}

func (r *Range) String() string      { return "Range<" + r.Elem.String() + ">" }
func (r *Range) Fingerprint() string { return "range:" + r.Elem.Fingerprint() }
func (r *Range) Equals(o Type) bool {
	other, ok := o.(*Range)
	return ok && other.Elem.Equals(r.Elem)
}

// Result is Result<Ok, ErrorDomain>, the wrapper type produced by
// ok/err/check/ensure/map_error and by calls to error-domain functions.
type Result struct {
	Ok     Type
	Domain string
}

func (r *Result) String() string { return fmt.Sprintf("Result<%s, %s>", r.Ok.String(), r.Domain) }
func (r *Result) Fingerprint() string {
	return fmt.Sprintf("result:%s:%s", r.Ok.Fingerprint(), r.Domain)
}
func (r *Result) Equals(o Type) bool {
	other, ok := o.(*Result)
	return ok && other.Domain == r.Domain && other.Ok.Equals(r.Ok)
}

// TypeParam is an as-yet-unresolved generic type parameter reference
// within the body of a generic declaration.
type TypeParam struct {
	Name string
}

func (t *TypeParam) String() string      { return t.Name }
func (t *TypeParam) Fingerprint() string { return "typeparam:" + t.Name }
func (t *TypeParam) Equals(o Type) bool {
	other, ok := o.(*TypeParam)
	return ok && other.Name == t.Name
}
