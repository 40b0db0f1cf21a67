package evalbackend

// Func is the "custom callable" backend variant from §4.2: a caller
// supplies a plain two-argument function instead of a Backend
// implementation. It recompiles on every Run; callers that need
// compile-once/run-many should implement Backend directly instead (the
// "custom class" variant), which needs no adapter here.
type Func func(source string, b Bindings) (any, error)

func (f Func) Tag() string { return "custom" }

func (f Func) Compile(source string) (Program, error) {
	return funcProgram{fn: f, source: source}, nil
}

type funcProgram struct {
	fn     Func
	source string
}

func (p funcProgram) Run(b Bindings) (any, error) {
	return p.fn(p.source, b)
}
