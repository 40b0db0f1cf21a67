// Command jpq runs JSONPath queries against a JSON document from the
// command line, either a single expression or a manifest of named
// queries run together against the same document.
package main

import (
	"io"
	"os"

	"github.com/pathkit/jsonpath"
	"github.com/pathkit/jsonpath/internal/cliconfig"
	"github.com/pathkit/jsonpath/internal/render"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, exitResult := cliconfig.Parse(args)
	if exitResult != nil {
		if exitResult.ExitCode == 0 {
			exitResult.Output = stdout
		} else {
			exitResult.Output = stderr
		}
		exitResult.Print()
		return exitResult.ExitCode
	}

	format, err := render.Parse(cfg.Format)
	if err != nil {
		return fail(stderr, err)
	}

	doc, err := readDocument(cfg.DocFile, stdin)
	if err != nil {
		return fail(stderr, err)
	}

	wrap := !cfg.NoWrap
	opts := jsonpath.Options{
		ResultType: cfg.ResultType,
		Flatten:    cfg.Flatten,
		Wrap:       &wrap,
		CacheSize:  cfg.CacheSize,
	}

	engine, err := jsonpath.New(opts)
	if err != nil {
		return fail(stderr, err)
	}

	if cfg.Manifest != "" {
		return runManifest(engine, cfg, doc, format, stdout, stderr)
	}
	return runSingle(engine, cfg, doc, format, stdout, stderr)
}

func runSingle(engine *jsonpath.Engine, cfg *cliconfig.Config, doc any, format render.Format, stdout, stderr io.Writer) int {
	result, err := engine.Query(doc, cfg.Expression, nil)
	if err != nil {
		return fail(stderr, err)
	}
	if err := render.One(stdout, format, result); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func runManifest(engine *jsonpath.Engine, cfg *cliconfig.Config, doc any, format render.Format, stdout, stderr io.Writer) int {
	f, err := os.Open(cfg.Manifest)
	if err != nil {
		return fail(stderr, err)
	}
	defer f.Close()

	queries, err := cliconfig.ParseManifest(f)
	if err != nil {
		return fail(stderr, err)
	}

	wrap := !cfg.NoWrap
	results := make([]render.Named, len(queries))
	for i, q := range queries {
		result, err := engine.Query(doc, q.Path, &jsonpath.Options{
			ResultType: q.ResultType,
			Flatten:    q.Flatten,
			Wrap:       &wrap,
		})
		if err != nil {
			results[i] = render.Named{Name: q.Name, Error: err.Error()}
			continue
		}
		results[i] = render.Named{Name: q.Name, Result: result}
	}

	if err := render.Batch(stdout, format, results); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func readDocument(path string, stdin io.Reader) (any, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func fail(w io.Writer, err error) int {
	io.WriteString(w, "Error: "+err.Error()+"\n")
	return 1
}
