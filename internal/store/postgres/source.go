// Package postgres is the Store backed by PostgreSQL. Queries are built with
// squirrel and run through pgx.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"CompanyAPI/internal/query"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// source builds one SELECT lazily. Errors from Where or OrderBy (unknown
// columns) are held until Count or Fetch.
type source[T any] struct {
	db    Querier
	cols  *query.Columns[T]
	where []sq.Sqlizer
	order []string
	err   error
}

func newSource[T any](db Querier, cols *query.Columns[T]) *source[T] {
	return &source[T]{db: db, cols: cols}
}

func (s *source[T]) clone() *source[T] {
	next := *s
	next.where = append([]sq.Sqlizer(nil), s.where...)
	next.order = append([]string(nil), s.order...)
	return &next
}

func (s *source[T]) column(name string) (string, error) {
	col, ok := s.cols.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown column %q on %s", name, s.cols.Table())
	}
	return col.SQL, nil
}

func (s *source[T]) Where(c query.Cond) query.Source[T] {
	next := s.clone()
	if next.err != nil {
		return next
	}
	pred, err := s.predicate(c)
	if err != nil {
		next.err = err
		return next
	}
	next.where = append(next.where, pred)
	return next
}

func (s *source[T]) predicate(c query.Cond) (sq.Sqlizer, error) {
	or := sq.Or{}
	for _, f := range c.Fields {
		col, err := s.column(f)
		if err != nil {
			return nil, err
		}
		switch c.Op {
		case query.OpEq:
			or = append(or, sq.Eq{col: c.Value})
		case query.OpIn:
			values, ok := c.Value.([]any)
			if !ok {
				return nil, fmt.Errorf("in on %s needs []any, got %T", col, c.Value)
			}
			if len(values) == 0 {
				or = append(or, sq.Expr("FALSE"))
				continue
			}
			or = append(or, sq.Eq{col: values})
		case query.OpContains:
			text, ok := c.Value.(string)
			if !ok {
				return nil, fmt.Errorf("contains on %s needs a string, got %T", col, c.Value)
			}
			or = append(or, sq.ILike{col: "%" + escapeLike(text) + "%"})
		default:
			return nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
	}
	if len(or) == 1 {
		return or[0], nil
	}
	return or, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike quotes LIKE wildcards; backslash is the default escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (s *source[T]) OrderBy(field string, descending bool) query.Source[T] {
	next := s.clone()
	if next.err != nil {
		return next
	}
	col, err := s.column(field)
	if err != nil {
		next.err = err
		return next
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	next.order = append(next.order, col+" "+dir)
	return next
}

func (s *source[T]) countQuery() (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	q := psql.Select("COUNT(*)").From(s.cols.Table())
	for _, w := range s.where {
		q = q.Where(w)
	}
	return q.ToSql()
}

func (s *source[T]) selectQuery(offset, limit int) (string, []any, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	q := psql.Select(s.cols.SQLNames()...).From(s.cols.Table())
	for _, w := range s.where {
		q = q.Where(w)
	}
	if len(s.order) > 0 {
		q = q.OrderBy(s.order...)
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}
	return q.ToSql()
}

func (s *source[T]) Count(ctx context.Context) (int, error) {
	sqlStr, args, err := s.countQuery()
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.cols.Table(), err)
	}
	return n, nil
}

func (s *source[T]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	sqlStr, args, err := s.selectQuery(offset, limit)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.cols.Table(), err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", s.cols.Table(), err)
	}
	return items, nil
}
