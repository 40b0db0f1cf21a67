package jsonpath

import (
	"errors"

	"github.com/pathkit/jsonpath/internal/evalbackend"
	"github.com/pathkit/jsonpath/internal/shape"
	"github.com/pathkit/jsonpath/internal/token"
	"github.com/pathkit/jsonpath/internal/trace"
)

// Error kinds surfaced to callers, per the facade's error contract:
// every error a query can return wraps exactly one of these, so a
// caller can classify a failure with errors.Is without depending on
// message text.
var (
	// ErrConfiguration covers bad options: an unknown resultType, an
	// unknown eval backend selector, or a missing required option.
	ErrConfiguration = errors.New("jsonpath: configuration error")

	// ErrPolicy covers a filter or script step encountered while the
	// expression backend is disabled.
	ErrPolicy = errors.New("jsonpath: policy error")

	// ErrClassifier covers @other() used without an OtherTypeCallback.
	ErrClassifier = errors.New("jsonpath: classifier error")

	// ErrExpression covers a filter/script backend compile or run
	// failure, and any other failure no other kind claims, such as a raw
	// JSON document that does not decode. The underlying error survives
	// through wrapping and its message is returned unchanged; the text of
	// the offending fragment is not added to it.
	ErrExpression = errors.New("jsonpath: expression error")

	// ErrSyntax covers a malformed path expression.
	ErrSyntax = token.ErrSyntax
)

// classify maps an internal error into the facade's public error kind,
// wrapping the original error so errors.Is still finds the concrete
// cause underneath the classification.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, token.ErrSyntax):
		return err
	case errors.Is(err, ErrConfiguration):
		return err
	case errors.Is(err, shape.ErrUnknownResultType):
		return joinf(ErrConfiguration, err)
	case errors.Is(err, evalbackend.ErrDisabled), errors.Is(err, trace.ErrEvalDisabled):
		return joinf(ErrPolicy, err)
	case errors.Is(err, trace.ErrClassifierMissing):
		return joinf(ErrClassifier, err)
	default:
		return joinf(ErrExpression, err)
	}
}

func joinf(kind, cause error) error {
	return &kindError{kind: kind, cause: cause}
}

type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string { return e.cause.Error() }

func (e *kindError) Unwrap() []error { return []error{e.kind, e.cause} }
