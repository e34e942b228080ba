package pagination

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/internal/errors"
)

// sliceSource serves pages out of an in-memory slice, mimicking a repository.
type sliceSource struct {
	rows []int
}

func (s sliceSource) FindPage(_ context.Context, limit, offset int) ([]int, error) {
	if offset >= len(s.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.rows) {
		end = len(s.rows)
	}

	return s.rows[offset:end], nil
}

func (s sliceSource) Count(_ context.Context) (int64, error) {
	return int64(len(s.rows)), nil
}

func makeRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i + 1
	}

	return rows
}

func TestPaginate_FirstPageOfThree(t *testing.T) {
	src := sliceSource{rows: makeRows(45)}

	page, err := Paginate[int](context.Background(), src, Params{Page: 1, PerPage: 20})

	require.NoError(t, err)
	assert.Len(t, page.Data, 20)
	assert.Equal(t, int64(45), page.Meta.Total)
	assert.Equal(t, 3, page.Meta.LastPage)
	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Nil(t, page.Meta.Prev)
	require.NotNil(t, page.Meta.Next)
	assert.Equal(t, 2, *page.Meta.Next)
}

func TestPaginate_LastPageOfThree(t *testing.T) {
	src := sliceSource{rows: makeRows(45)}

	page, err := Paginate[int](context.Background(), src, Params{Page: 3, PerPage: 20})

	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 3, page.Meta.LastPage)
	assert.Nil(t, page.Meta.Next)
	require.NotNil(t, page.Meta.Prev)
	assert.Equal(t, 2, *page.Meta.Prev)
}

func TestPaginate_EmptyResultSet(t *testing.T) {
	src := sliceSource{}

	page, err := Paginate[int](context.Background(), src, Params{Page: 1, PerPage: 20})

	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.NotNil(t, page.Data)
	assert.Equal(t, int64(0), page.Meta.Total)
	assert.Equal(t, 0, page.Meta.LastPage)
	assert.Nil(t, page.Meta.Prev)
	assert.Nil(t, page.Meta.Next)
}

func TestPaginate_DefaultsAppliedToNonPositiveParams(t *testing.T) {
	src := sliceSource{rows: makeRows(5)}

	page, err := Paginate[int](context.Background(), src, Params{Page: -1, PerPage: 0})

	require.NoError(t, err)
	assert.Equal(t, DefaultPage, page.Meta.CurrentPage)
	assert.Equal(t, DefaultPerPage, page.Meta.PerPage)
	assert.Len(t, page.Data, 5)
}

func TestPaginate_NegativePerPageIsAProgrammingError(t *testing.T) {
	src := sliceSource{rows: makeRows(5)}

	_, err := Paginate[int](context.Background(), src, Params{Page: 1, PerPage: -3})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPerPage)
}

func TestPaginate_LastPageInvariant(t *testing.T) {
	cases := []struct {
		total    int
		perPage  int
		lastPage int
	}{
		{total: 0, perPage: 20, lastPage: 0},
		{total: 1, perPage: 20, lastPage: 1},
		{total: 20, perPage: 20, lastPage: 1},
		{total: 21, perPage: 20, lastPage: 2},
		{total: 45, perPage: 20, lastPage: 3},
		{total: 500, perPage: 1, lastPage: 500},
	}

	for _, tc := range cases {
		src := sliceSource{rows: makeRows(tc.total)}

		page, err := Paginate[int](context.Background(), src, Params{Page: 1, PerPage: tc.perPage})

		require.NoError(t, err)
		assert.Equalf(t, tc.lastPage, page.Meta.LastPage, "total=%d perPage=%d", tc.total, tc.perPage)
	}
}

func TestPaginate_OffsetComputation(t *testing.T) {
	var gotOffset atomic.Int64
	src := FuncSource[int]{
		FindPageFn: func(_ context.Context, _, offset int) ([]int, error) {
			gotOffset.Store(int64(offset))

			return nil, nil
		},
		CountFn: func(_ context.Context) (int64, error) { return 100, nil },
	}

	_, err := Paginate[int](context.Background(), src, Params{Page: 4, PerPage: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(30), gotOffset.Load())
}

func TestPaginate_CountErrorFailsThePage(t *testing.T) {
	wantErr := errors.New("count exploded")
	src := FuncSource[int]{
		FindPageFn: func(_ context.Context, _, _ int) ([]int, error) { return nil, nil },
		CountFn:    func(_ context.Context) (int64, error) { return 0, wantErr },
	}

	_, err := Paginate[int](context.Background(), src, Params{Page: 1, PerPage: 20})

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}

func TestPaginate_DataErrorFailsThePage(t *testing.T) {
	wantErr := errors.New("fetch exploded")
	src := FuncSource[int]{
		FindPageFn: func(_ context.Context, _, _ int) ([]int, error) { return nil, wantErr },
		CountFn:    func(_ context.Context) (int64, error) { return 0, nil },
	}

	_, err := Paginate[int](context.Background(), src, Params{Page: 1, PerPage: 20})

	require.Error(t, err)
	assert.ErrorIs(t, err, wantErr)
}
