// Package shape projects records onto a client-selected subset of their
// attributes (the ?fields= query parameter).
package shape

import (
	"bytes"
	"encoding/json"
	"strings"

	"CompanyAPI/internal/apperror"
)

type attr[T any] struct {
	name string
	get  func(T) any
}

// Descriptor lists the public attributes of T in declaration order.
type Descriptor[T any] struct {
	typeName string
	attrs    []attr[T]
	index    map[string]int
}

func NewDescriptor[T any](typeName string) *Descriptor[T] {
	return &Descriptor[T]{typeName: typeName, index: map[string]int{}}
}

// Attr appends an attribute. name is the output key as it appears in JSON.
func (d *Descriptor[T]) Attr(name string, get func(T) any) *Descriptor[T] {
	d.index[strings.ToLower(name)] = len(d.attrs)
	d.attrs = append(d.attrs, attr[T]{name: name, get: get})
	return d
}

func (d *Descriptor[T]) TypeName() string { return d.typeName }

// Names returns attribute names in declaration order.
func (d *Descriptor[T]) Names() []string {
	out := make([]string, len(d.attrs))
	for i, a := range d.attrs {
		out[i] = a.name
	}
	return out
}

func (d *Descriptor[T]) lookup(name string) (attr[T], bool) {
	i, ok := d.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return attr[T]{}, false
	}
	return d.attrs[i], true
}

// resolve turns a fields list into attributes. A blank list selects
// everything; an empty name inside a list is unknown like any other.
func (d *Descriptor[T]) resolve(fields string) ([]attr[T], error) {
	if strings.TrimSpace(fields) == "" {
		return d.attrs, nil
	}
	var out []attr[T]
	for _, raw := range strings.Split(fields, ",") {
		name := strings.TrimSpace(raw)
		a, ok := d.lookup(name)
		if !ok {
			return nil, &apperror.UnknownFieldError{Field: name, Type: d.typeName}
		}
		out = append(out, a)
	}
	return out, nil
}

// Record is a shaped record. Keys keep their insertion order when encoded.
type Record struct {
	keys   []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{values: map[string]any{}}
}

// Set adds or replaces a key. Replacing keeps the original position.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Record) Len() int { return len(r.keys) }

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Data shapes every item. The field list is checked before any item is read,
// so an unknown field fails even for an empty slice. A nil slice is rejected.
func Data[T any](items []T, fields string, d *Descriptor[T]) ([]*Record, error) {
	if items == nil {
		return nil, apperror.InvalidArgument("items")
	}
	if d == nil {
		return nil, apperror.InvalidArgument("descriptor")
	}
	attrs, err := d.resolve(fields)
	if err != nil {
		return nil, err
	}
	out := make([]*Record, 0, len(items))
	for _, item := range items {
		out = append(out, build(item, attrs))
	}
	return out, nil
}

// One shapes a single item.
func One[T any](item T, fields string, d *Descriptor[T]) (*Record, error) {
	if d == nil {
		return nil, apperror.InvalidArgument("descriptor")
	}
	attrs, err := d.resolve(fields)
	if err != nil {
		return nil, err
	}
	return build(item, attrs), nil
}

func build[T any](item T, attrs []attr[T]) *Record {
	r := &Record{keys: make([]string, 0, len(attrs)), values: make(map[string]any, len(attrs))}
	for _, a := range attrs {
		r.Set(a.name, a.get(item))
	}
	return r
}

// HasAllProperties reports whether every name in fields is an attribute of the
// described type. A blank list is accepted.
func HasAllProperties[T any](d *Descriptor[T], fields string) bool {
	if d == nil {
		return false
	}
	_, err := d.resolve(fields)
	return err == nil
}
