// Package ctx provides the compilation context (§4.1): a process-wide,
// per-compilation-unit arena, a structural type interner, and a string
// interner. A Context is created before pass 1 and destroyed once after
// all passes run; individual types and strings are never freed on their
// own, only as part of the single bulk Destroy.
package ctx

// Arena is an append-only slab that tracks live allocation counts so the
// "single bulk teardown, no per-value free" discipline (§4.1, §5) is
// observable and testable. Go's garbage collector makes a literal
// bump-allocator unnecessary for memory safety; Arena's job is to make
// the ownership discipline explicit and enforceable rather than to
// manage raw bytes.
type Arena struct {
	live      int
	destroyed bool
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc records one arena-owned allocation. Passes call this when they
// hand a freshly built value to the arena's ownership rather than
// allocating it independently; it panics if the arena has already been
// destroyed, since no pass may retain or create arena values afterward.
func (a *Arena) Alloc() {
	if a.destroyed {
		panic("ctx: Alloc on a destroyed arena")
	}
	a.live++
}

// Live returns the number of values currently tracked as arena-owned.
func (a *Arena) Live() int { return a.live }

// Destroy performs the single bulk teardown. After Destroy, the arena
// may not be used again.
func (a *Arena) Destroy() {
	a.live = 0
	a.destroyed = true
}

// Destroyed reports whether Destroy has already been called.
func (a *Arena) Destroyed() bool { return a.destroyed }
