// Package value holds the JSON data model the tracer walks: scalars as
// plain Go values (nil, bool, string, json.Number), arrays as []any, and
// objects as the order-preserving Object type defined here. The standard
// library's map[string]any cannot serve as the object representation
// because wildcard and descendant iteration must visit children in
// source order (§3 of the engine's invariants), and Go map iteration
// order is intentionally randomized.
package value

import "iter"

// Object is an insertion-ordered string-keyed map. It is the JSON object
// representation used throughout the engine, in place of map[string]any.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object ready for use.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// NewObjectWithCapacity pre-sizes the backing storage.
func NewObjectWithCapacity(capacity int) *Object {
	return &Object{
		keys: make([]string, 0, capacity),
		vals: make(map[string]any, capacity),
	}
}

// Set records val under key, appending key to the insertion order the
// first time it is seen. Setting an existing key again updates the value
// in place without moving it.
func (o *Object) Set(key string, val any) {
	if _, exists := o.vals[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = val
}

// Get returns the value stored under key and whether it was present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// All iterates key/value pairs in insertion order.
func (o *Object) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}
