package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformed is returned when the input is not well-formed JSON.
var ErrMalformed = errors.New("value: malformed JSON")

// Decode reads a single JSON document from r into the engine's value
// model: nil, bool, string, json.Number for scalars, []any for arrays,
// and *Object for objects. json.Number is used throughout (rather than
// float64) so that @integer()/@nonFinite() type predicates and large
// integers survive round-tripping intact.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrMalformed)
		}
		return nil, err
	}

	val, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	return val, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	if d, ok := tok.(json.Delim); ok {
		switch d {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("%w: unexpected delimiter %q", ErrMalformed, d)
		}
	}
	return tok, nil
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	obj := NewObject()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: object key is not a string", ErrMalformed)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		val, err := decodeValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
	}
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		if d, ok := tok.(json.Delim); ok && d == ']' {
			return arr, nil
		}

		val, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
}

// DecodeBytes is a convenience wrapper over Decode for callers that
// already have the document in memory.
func DecodeBytes(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}
