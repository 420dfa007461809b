package filter

// Env is the variable environment one record exposes to an expression.
type Env = map[string]any

// EnvFunc builds the expression environment of a record.
type EnvFunc[T any] func(record T) Env

// CompiledFilter represents a pre-compiled filter ready for evaluation
type CompiledFilter interface {
	// Match evaluates the filter against a record environment
	Match(env Env) (bool, error)

	// Expression returns the original filter expression
	Expression() string
}

// Compiler compiles filter expressions into executable filters
type Compiler interface {
	// Compile parses and compiles a filter expression
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler provides caching for compiled filters
type CachingCompiler interface {
	Compiler

	// Clear removes all cached filters
	Clear()

	// Size returns the number of cached filters
	Size() int
}
