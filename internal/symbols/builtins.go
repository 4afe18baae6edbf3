package symbols

import "github.com/karol-broda/ferrule/internal/types"

// installBuiltins installs the fixed builtin set into the global scope
// (§4.6): the print family, debug printers, and read_char, each declaring
// effect "io", plus createRegion, which declares "alloc" and returns a
// Region. These are intrinsics supplied by the runtime collaborator, not
// user code, and take no capability parameter themselves. A call to one
// adds its effect to the caller's used set like any other call, so a
// caller of the "io" builtins must declare "io" and, with it, an Io
// capability parameter (§4.10).
func installBuiltins(global *Scope) {
	builtin := func(name string, params []types.Type, ret types.Type) *Symbol {
		return &Symbol{
			Kind:       FunctionSym,
			Name:       name,
			ParamTypes: params,
			ParamNames: anonParamNames(len(params)),
			ReturnType: ret,
			Effects:    []string{"io"},
		}
	}

	_ = global.Insert(builtin("print", []types.Type{types.String}, types.Unit))
	_ = global.Insert(builtin("println", []types.Type{types.String}, types.Unit))
	_ = global.Insert(builtin("debug_print", []types.Type{types.String}, types.Unit))
	_ = global.Insert(builtin("debug_print_i32", []types.Type{types.I32}, types.Unit))
	_ = global.Insert(builtin("read_char", nil, types.Char))

	region := &Symbol{
		Kind:       FunctionSym,
		Name:       "createRegion",
		ParamTypes: nil,
		ParamNames: nil,
		ReturnType: &types.Named{Name: "Region", Underlying: types.Unit},
		Effects:    []string{"alloc"},
	}
	_ = global.Insert(region)
}

func anonParamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "_"
	}
	return names
}

// IsBuiltinName reports whether name is one of the fixed builtin
// functions installed by installBuiltins, for callers that need to
// distinguish builtins from user declarations without a scope lookup.
func IsBuiltinName(name string) bool {
	switch name {
	case "print", "println", "debug_print", "debug_print_i32", "read_char", "createRegion":
		return true
	}
	return false
}
