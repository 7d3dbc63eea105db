package query

import (
	"context"
	"fmt"

	"CompanyAPI/internal/apperror"
)

// Page is one window of an ordered result set.
type Page[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	TotalCount int
	TotalPages int
}

func (p *Page[T]) HasPrevious() bool { return p.PageNumber > 1 }

func (p *Page[T]) HasNext() bool { return p.PageNumber < p.TotalPages }

// Metadata is the X-Pagination header payload.
type Metadata struct {
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

func (p *Page[T]) Metadata() Metadata {
	return Metadata{
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.PageNumber,
		TotalPages:  p.TotalPages,
	}
}

// Paginate counts the filtered source once and fetches one bounded slice.
// pageSize is expected to be clamped by the caller.
func Paginate[T any](ctx context.Context, src Source[T], pageNumber, pageSize int) (*Page[T], error) {
	if src == nil {
		return nil, apperror.InvalidArgument("source")
	}
	if pageNumber < 1 {
		return nil, fmt.Errorf("%w: page number %d", apperror.ErrInvalidArgument, pageNumber)
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("%w: page size %d", apperror.ErrInvalidArgument, pageSize)
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	items, err := src.Fetch(ctx, (pageNumber-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return &Page[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: TotalPages(total, pageSize),
	}, nil
}

// TotalPages is ceil(total/pageSize), zero for an empty set.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp normalizes client paging input: page numbers start at 1, a missing
// size takes the default and sizes above max are cut to max.
func Clamp(pageNumber, pageSize, defaultSize, maxSize int) (int, int) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return pageNumber, pageSize
}
