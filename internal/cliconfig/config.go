// Package cliconfig parses jpq's command-line arguments into a Config,
// following the same flag.FlagSet-with-suppressed-output pattern the
// rest of this module's command-line tools use.
package cliconfig

import (
	"errors"
	"flag"
	"io"

	"github.com/pathkit/jsonpath/internal/exit"
)

var (
	ErrNoArguments  = errors.New("no arguments provided")
	ErrNoExpression = errors.New("no path expression specified")
	ErrConflicting  = errors.New("-manifest and a positional path expression are mutually exclusive")
)

// Config is the fully parsed and validated configuration for a jpq run.
type Config struct {
	// DocFile is the JSON document to query. Empty means read from
	// stdin.
	DocFile string

	// Expression is the single path expression to run, taken from the
	// first positional argument. Empty when Manifest is set instead.
	Expression string

	// Manifest, when non-empty, names a YAML file listing multiple
	// named queries to run against the same document in one pass.
	Manifest string

	ResultType string
	Flatten    bool
	NoWrap     bool
	Format     string // "text" or "json"
	CacheSize  int
}

// Parse parses command-line arguments (excluding the program name) into
// a validated Config. If parsing fails or help is requested, it returns
// a nil Config and an exit.Result describing what to print.
func Parse(args []string) (*Config, *exit.Result) {
	fs := flag.NewFlagSet("jpq", flag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		docFile    = fs.String("doc", "", "Path to the JSON document to query (default: stdin)")
		manifest   = fs.String("manifest", "", "Path to a YAML manifest of named queries to run against the document")
		resultType = fs.String("result-type", "", "Result shape: value, path, pointer, parent, parentProperty, all")
		flatten    = fs.Bool("flatten", false, "Flatten one level of nested array results")
		noWrap     = fs.Bool("no-wrap", false, "Unwrap a single non-multi-match result instead of returning a sequence")
		format     = fs.String("format", "text", "Output format: text or json")
		cacheSize  = fs.Int("cache-size", 0, "Bound on cached compiled paths and programs (0 for default)")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	positional := fs.Args()

	cfg := &Config{
		DocFile:    *docFile,
		Manifest:   *manifest,
		ResultType: *resultType,
		Flatten:    *flatten,
		NoWrap:     *noWrap,
		Format:     *format,
		CacheSize:  *cacheSize,
	}

	switch {
	case cfg.Manifest != "" && len(positional) > 0:
		return nil, exit.Errorf("Error: %v\n\n%s", ErrConflicting, Usage())
	case cfg.Manifest != "":
		return cfg, nil
	case len(positional) == 0:
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoExpression, Usage())
	default:
		cfg.Expression = positional[0]
		return cfg, nil
	}
}

// Usage returns jpq's help text.
func Usage() string {
	return `jpq - JSONPath query tool

Usage: jpq [options] <expression>
       jpq [options] -manifest queries.yaml

Options:
  --doc FILE            Path to the JSON document to query (default: stdin)
  --manifest FILE       Run every named query in a YAML manifest against the document
  --result-type TYPE    Result shape: value, path, pointer, parent, parentProperty, all
  --flatten             Flatten one level of nested array results
  --no-wrap             Unwrap a single non-multi-match result
  --format FORMAT       Output format: text or json (default: text)
  --cache-size N        Bound on cached compiled paths and programs
  -h, --help            Show this help message

Examples:
  jpq --doc data.json '$.store.book[*].author'
  cat data.json | jpq '$..price'
  jpq --doc data.json --manifest queries.yaml --format json`
}
