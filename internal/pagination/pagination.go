// Package pagination implements offset pagination over any data source that
// can fetch a window of rows and count the total. The data fetch and the
// count run concurrently; neither depends on the other.
package pagination

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"orderdesk/internal/errors"
)

const (
	// DefaultPage is used when the requested page is absent or not positive.
	DefaultPage = 1
	// DefaultPerPage is used when the requested page size is absent or not positive.
	DefaultPerPage = 20
)

// ErrInvalidPerPage reports a non-positive page size reaching the paginator.
// The validation boundary is supposed to clamp perPage before this point, so
// hitting this error is a programming mistake, not bad user input.
var ErrInvalidPerPage = errors.New("pagination: perPage must be positive")

// Source supplies the two queries a page is assembled from.
type Source[T any] interface {
	// FindPage fetches up to limit rows starting at offset.
	FindPage(ctx context.Context, limit, offset int) ([]T, error)
	// Count returns the total number of rows the query matches.
	Count(ctx context.Context) (int64, error)
}

// FuncSource adapts a pair of closures into a Source.
type FuncSource[T any] struct {
	FindPageFn func(ctx context.Context, limit, offset int) ([]T, error)
	CountFn    func(ctx context.Context) (int64, error)
}

// FindPage implements Source.
func (s FuncSource[T]) FindPage(ctx context.Context, limit, offset int) ([]T, error) {
	return s.FindPageFn(ctx, limit, offset)
}

// Count implements Source.
func (s FuncSource[T]) Count(ctx context.Context) (int64, error) {
	return s.CountFn(ctx)
}

// Params carries the requested page and page size.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// Normalize applies the default page to non-positive values and the default
// page size to an absent (zero) one. A negative perPage is left alone so
// Paginate can report it; upper bounds are the validation boundary's job.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}

	return p
}

// Meta describes the position of a page within the full result set.
type Meta struct {
	Total       int64 `json:"total"`
	LastPage    int   `json:"lastPage"`
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	Prev        *int  `json:"prev"`
	Next        *int  `json:"next"`
}

// Page is one page of rows plus its metadata.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// Paginate fetches one page of rows and the total count from src and
// assembles the page metadata. The two queries run concurrently and both
// must succeed.
func Paginate[T any](ctx context.Context, src Source[T], params Params) (*Page[T], error) {
	params = params.Normalize()
	if params.PerPage <= 0 {
		return nil, errors.WithStack(ErrInvalidPerPage)
	}

	offset := 0
	if params.Page > 0 {
		offset = params.PerPage * (params.Page - 1)
	}

	var (
		data  []T
		total int64
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := src.FindPage(groupCtx, params.PerPage, offset)
		if err != nil {
			return errors.Wrap(err, "failed to fetch page data")
		}
		data = rows

		return nil
	})
	group.Go(func() error {
		count, err := src.Count(groupCtx)
		if err != nil {
			return errors.Wrap(err, "failed to count rows")
		}
		total = count

		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if data == nil {
		data = []T{}
	}

	lastPage := int(math.Ceil(float64(total) / float64(params.PerPage)))

	var prev, next *int
	if params.Page > 1 {
		p := params.Page - 1
		prev = &p
	}
	if params.Page < lastPage {
		n := params.Page + 1
		next = &n
	}

	return &Page[T]{
		Data: data,
		Meta: Meta{
			Total:       total,
			LastPage:    lastPage,
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			Prev:        prev,
			Next:        next,
		},
	}, nil
}
