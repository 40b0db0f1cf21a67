// Package render formats jpq query results for a terminal or for
// machine consumption, mirroring the two-format (text/JSON) convention
// this module's other command-line output uses.
package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pathkit/jsonpath"
)

// Format selects how a result set is rendered.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
)

// Parse validates a format name, defaulting an empty string to Text.
func Parse(name string) (Format, error) {
	switch Format(name) {
	case "", Text:
		return Text, nil
	case JSON:
		return JSON, nil
	default:
		return "", fmt.Errorf("jpq: unknown output format %q", name)
	}
}

// Named is one manifest entry's result, keyed by the name the caller
// gave the query.
type Named struct {
	Name   string `json:"name"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// One writes a single query's result to w.
func One(w io.Writer, format Format, result any) error {
	if format == JSON {
		return writeJSON(w, jsonSafe(result))
	}
	return writeText(w, "", result)
}

// Batch writes a manifest run's named results to w.
func Batch(w io.Writer, format Format, results []Named) error {
	if format == JSON {
		safe := make([]Named, len(results))
		for i, r := range results {
			r.Result = jsonSafe(r.Result)
			safe[i] = r
		}
		return writeJSON(w, safe)
	}
	for _, r := range results {
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: error: %s\n", r.Name, r.Error); err != nil {
				return err
			}
			continue
		}
		if err := writeText(w, r.Name+": ", r.Result); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, prefix string, result any) error {
	if jsonpath.IsNotFound(result) {
		_, err := fmt.Fprintf(w, "%s(not found)\n", prefix)
		return err
	}
	if seq, ok := result.([]any); ok {
		if len(seq) == 0 {
			_, err := fmt.Fprintf(w, "%s(no matches)\n", prefix)
			return err
		}
		for _, v := range seq {
			if _, err := fmt.Fprintf(w, "%s%v\n", prefix, v); err != nil {
				return err
			}
		}
		return nil
	}
	_, err := fmt.Fprintf(w, "%s%v\n", prefix, result)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// jsonSafe replaces the engine's not-found marker, which is not itself
// JSON-serializable, with a plain nil.
func jsonSafe(v any) any {
	if jsonpath.IsNotFound(v) {
		return nil
	}
	return v
}
