package evalbackend

import "errors"

// ErrNoHostRuntime is returned by Native.Compile: this build carries no
// embedded script VM. A host-native backend is a real dependency choice
// (a JS or Lua VM, wired in by whoever needs it) and is deliberately not
// bundled here; per §9, its absence is only an error once the caller
// actually selects it.
var ErrNoHostRuntime = errors.New("jsonpath: native expression backend not compiled in")

// Native is a placeholder for the "native" backend variant: delegating
// filter/script evaluation to a host scripting runtime running arbitrary
// code in a fresh context per invocation. Wire a real VM in by replacing
// this type with one satisfying Backend.
type Native struct{}

func (Native) Tag() string { return "native" }

func (Native) Compile(string) (Program, error) {
	return nil, ErrNoHostRuntime
}
