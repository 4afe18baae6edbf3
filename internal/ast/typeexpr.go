package ast

// SimpleTypeExpr names a type by identifier: `i32`, `string`, `Foo`.
type SimpleTypeExpr struct {
	Name    string
	TypePos Pos
}

func (t *SimpleTypeExpr) Pos() Pos      { return t.TypePos }
func (t *SimpleTypeExpr) typeExprNode() {}

// GenericArg is one argument to a generic type, which may itself be a
// type expression or (for const-generic positions like `Array<_, 8>`) a
// bare integer literal lexeme.
type GenericArg struct {
	Type    TypeExpr // nil if this argument is a const int
	IntLit  string   // non-empty if this argument is a const-generic int
}

// GenericTypeExpr names a parametric type such as `Array<T, 8>`.
// `View<[mut] T>` is parsed as ViewTypeExpr and `T?` as NullableTypeExpr,
// not as GenericTypeExpr.
type GenericTypeExpr struct {
	Name    string
	Args    []GenericArg
	TypePos Pos
}

func (t *GenericTypeExpr) Pos() Pos      { return t.TypePos }
func (t *GenericTypeExpr) typeExprNode() {}

// NullableTypeExpr is `T?`.
type NullableTypeExpr struct {
	Inner   TypeExpr
	TypePos Pos
}

func (t *NullableTypeExpr) Pos() Pos      { return t.TypePos }
func (t *NullableTypeExpr) typeExprNode() {}

// ViewTypeExpr is `View<[mut] T>`.
type ViewTypeExpr struct {
	Mutable bool
	Inner   TypeExpr
	TypePos Pos
}

func (t *ViewTypeExpr) Pos() Pos      { return t.TypePos }
func (t *ViewTypeExpr) typeExprNode() {}

// RecordFieldType is one `name: Type` member of a record type literal.
type RecordFieldType struct {
	Name string
	Type TypeExpr
	Pos  Pos
}

// RecordTypeExpr is an inline record type literal: `{ x: i32, y: i32 }`.
type RecordTypeExpr struct {
	Fields  []RecordFieldType
	TypePos Pos
}

func (t *RecordTypeExpr) Pos() Pos      { return t.TypePos }
func (t *RecordTypeExpr) typeExprNode() {}

// UnionVariantType is one `Name [{ fields }]` arm of a union type literal.
type UnionVariantType struct {
	Name   string
	Fields []RecordFieldType // empty if the variant carries no fields
}

// UnionTypeExpr is an inline union type literal: `| Red | Green | Blue`.
type UnionTypeExpr struct {
	Variants []UnionVariantType
	TypePos  Pos
}

func (t *UnionTypeExpr) Pos() Pos      { return t.TypePos }
func (t *UnionTypeExpr) typeExprNode() {}
