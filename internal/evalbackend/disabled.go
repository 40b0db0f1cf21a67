package evalbackend

// Disabled is the backend selected by Options.Eval == false (or
// "disabled"): any filter or script step fails the query rather than
// silently matching nothing, since a caller that disabled expressions
// almost certainly wants to know their query still tried to use one.
type Disabled struct{}

func (Disabled) Tag() string { return "disabled" }

func (Disabled) Compile(string) (Program, error) {
	return nil, ErrDisabled
}
