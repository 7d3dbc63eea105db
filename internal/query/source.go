// Package query holds the storage-neutral list pipeline: filter conditions,
// order-by translation through property mappings, and pagination over a
// lazily composed Source.
package query

import (
	"context"
	"strings"
)

// Op is a filter operator.
type Op int

const (
	// OpEq matches exact equality.
	OpEq Op = iota
	// OpIn matches any of the values in a []any.
	OpIn
	// OpContains matches a case-insensitive substring of a string value.
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "eq"
	case OpIn:
		return "in"
	case OpContains:
		return "contains"
	}
	return "unknown"
}

// Cond is a filter on one or more backing fields. Multiple fields are OR-ed.
type Cond struct {
	Fields []string
	Op     Op
	Value  any
}

func Eq(field string, value any) Cond {
	return Cond{Fields: []string{field}, Op: OpEq, Value: value}
}

func In(field string, values []any) Cond {
	return Cond{Fields: []string{field}, Op: OpIn, Value: values}
}

// Contains matches text against any of the fields.
func Contains(text string, fields ...string) Cond {
	return Cond{Fields: fields, Op: OpContains, Value: text}
}

// Source is a composable, lazily evaluated query over records of type T.
// Builders never mutate the receiver. Nothing touches storage until Count or
// Fetch is called.
type Source[T any] interface {
	Where(c Cond) Source[T]
	// OrderBy appends a sort key with lower priority than the keys already added.
	OrderBy(field string, descending bool) Source[T]
	Count(ctx context.Context) (int, error)
	// Fetch returns up to limit records starting at offset. limit <= 0 means no bound.
	Fetch(ctx context.Context, offset, limit int) ([]T, error)
}

// Column describes one backing field: its entity name, the storage column and
// an accessor used by in-memory sources.
type Column[T any] struct {
	Name string
	SQL  string
	Get  func(T) any
}

// Columns is an ordered, case-insensitive table of the backing fields of T.
type Columns[T any] struct {
	table string
	list  []Column[T]
	index map[string]int
}

func NewColumns[T any](table string) *Columns[T] {
	return &Columns[T]{table: table, index: map[string]int{}}
}

func (c *Columns[T]) Add(name, sql string, get func(T) any) *Columns[T] {
	c.index[strings.ToLower(name)] = len(c.list)
	c.list = append(c.list, Column[T]{Name: name, SQL: sql, Get: get})
	return c
}

func (c *Columns[T]) Table() string { return c.table }

func (c *Columns[T]) Lookup(name string) (Column[T], bool) {
	i, ok := c.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Column[T]{}, false
	}
	return c.list[i], true
}

// SQLNames lists storage columns in declaration order.
func (c *Columns[T]) SQLNames() []string {
	out := make([]string, len(c.list))
	for i, col := range c.list {
		out[i] = col.SQL
	}
	return out
}
