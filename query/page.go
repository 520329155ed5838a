package query

import (
	"errors"
	"math"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// PageSpec selects one zero-based page of Size results ordered by Sort.
type PageSpec struct {
	Page int       `json:"page"`
	Size int       `json:"size"`
	Sort []SortKey `json:"sort,omitempty"`
}

// NewPageSpec validates and builds a PageSpec.
func NewPageSpec(page, size int, sort ...SortKey) (PageSpec, error) {
	spec := PageSpec{Page: page, Size: size, Sort: sort}
	if err := spec.Validate(); err != nil {
		return PageSpec{}, err
	}
	return spec, nil
}

// Validate checks bounds and sort fields.
func (s PageSpec) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Page, validation.Min(0)),
		validation.Field(&s.Size, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return &catalog.ValidationError{Op: "page", Err: err}
	}
	if s.Page > MaxPage(s.Size) {
		return &catalog.ValidationError{Op: "page", Err: validation.Errors{
			"page": errors.New("offset out of range"),
		}}
	}
	_, err = NormalizeSort(s.Sort)
	return err
}

// MaxPage is the largest page index whose offset fits in an int for size.
func MaxPage(size int) int {
	if size <= 0 {
		return 0
	}
	return math.MaxInt / size
}

// Offset is the number of results before the page. It saturates at
// math.MaxInt instead of overflowing.
func (s PageSpec) Offset() int {
	if s.Page <= 0 || s.Size <= 0 {
		return 0
	}
	if s.Page > MaxPage(s.Size) {
		return math.MaxInt
	}
	return s.Page * s.Size
}

// Window returns the part of an already ordered slice selected by spec. The
// returned slice shares its backing array with items.
func Window[T any](items []T, spec PageSpec) []T {
	if spec.Size <= 0 {
		return items[:0]
	}
	start := spec.Offset()
	if start >= len(items) {
		return items[:0]
	}
	end := start + spec.Size
	if end > len(items) || end < start {
		end = len(items)
	}
	return items[start:end]
}

// PageResult is one page of results plus the total for the whole query.
type PageResult[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPageResult assembles a PageResult for spec.
func NewPageResult[T any](content []T, spec PageSpec, total int64) PageResult[T] {
	if content == nil {
		content = []T{}
	}
	return PageResult[T]{
		Content:       content,
		Page:          spec.Page,
		Size:          spec.Size,
		TotalElements: total,
		TotalPages:    TotalPages(total, spec.Size),
	}
}

// TotalPages is ceil(total/size), or 0 when size is not positive.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// HasNext reports whether a page follows this one.
func (r PageResult[T]) HasNext() bool {
	return r.Page+1 < r.TotalPages
}
