// Package safe implements the default expression backend named in the
// engine's contract: a small tree-walking interpreter over a whitelisted
// grammar of identifiers, member/index access, comparison, arithmetic,
// and boolean operators. It refuses everything else; there is no
// facility to call arbitrary functions or reach outside the bindings it
// is given.
package safe

import "github.com/pathkit/jsonpath/internal/evalbackend"

const tag = "safe"

// Backend is the default evalbackend.Backend.
type Backend struct{}

// New returns the safe backend.
func New() Backend { return Backend{} }

func (Backend) Tag() string { return tag }

func (Backend) Compile(source string) (evalbackend.Program, error) {
	root, err := parse(source)
	if err != nil {
		return nil, err
	}
	return program{root: root}, nil
}

type program struct {
	root node
}

func (p program) Run(b evalbackend.Bindings) (any, error) {
	return evaluate(p.root, b.ToMap())
}
