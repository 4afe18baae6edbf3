package ctx

import "github.com/karol-broda/ferrule/internal/types"

// Context is the compilation context (§4.1): it owns the arena, the type
// interner, and the string interner for one compilation unit's entire
// lifetime. There is no ambient singleton — every pass receives the
// Context as an explicit parameter (§9 "Context passing").
type Context struct {
	Arena   *Arena
	Types   *TypeInterner
	Strings *StringInterner
}

// New creates a Context at the start of analysis.
func New() *Context {
	return &Context{
		Arena:   NewArena(),
		Types:   newTypeInterner(),
		Strings: newStringInterner(),
	}
}

// InternType interns a resolved type and records the allocation against
// the arena.
func (c *Context) InternType(t types.Type) types.Type {
	canon := c.Types.Intern(t)
	if canon == t {
		c.Arena.Alloc()
	}
	return canon
}

// InternString interns a string and records the allocation against the
// arena.
func (c *Context) InternString(s string) string {
	before := c.Strings.Len()
	canon := c.Strings.Intern(s)
	if c.Strings.Len() > before {
		c.Arena.Alloc()
	}
	return canon
}

// Destroy tears the context down: a single bulk free. No pass may use
// the context, or any type/string handle it returned, afterward.
func (c *Context) Destroy() {
	c.Arena.Destroy()
}
