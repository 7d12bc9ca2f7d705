package host

// Regex abstracts the engine's regex engine behind an interface (spec §9
// design note: "Regex engine dependency: abstract behind an interface.
// Pre-compile literal patterns at compile time, not per-invocation.").
//
// Index-returning methods report code-unit offsets into the Go string;
// callers in builtin/string.go convert these to codepoint positions, since
// spec §4.E.2 requires codepoint indices at the East surface.
type Regex interface {
	// Compile precompiles pattern with the given flags (a host-defined
	// flag string; the stdlib implementation only looks for the letters
	// "i" (case-insensitive) and "s" (dot matches newline) anywhere in it
	// and ignores every other character).
	Compile(pattern, flags string) (CompiledRegex, error)
}

// CompiledRegex is a precompiled pattern (spec §4.E.2: "implementations
// MUST precompile once" for literal patterns).
type CompiledRegex interface {
	Contains(s string) bool
	// FindIndex returns the code-unit [start,end) of the first match, or
	// ok=false if none.
	FindIndex(s string) (start, end int, ok bool)
	// ReplaceAll performs a global replace using template, which has
	// already been validated by builtin/string.go's
	// validReplacementTemplate to contain only $$, $N,
	// and $<name> escapes.
	ReplaceAll(s, template string) string
}
