package postgres

import (
	"context"
	"strings"

	"orderdesk/internal/pagination"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// scope narrows or orders a query. Scopes compose with GORM's standard
// chaining, so entity repositories express filters declaratively.
type scope = func(*gorm.DB) *gorm.DB

// repo is the generic base embedded by every entity repository. M is the
// persistence model, E the pure domain entity. Queries are dispatched at
// compile time through the type parameters; there is no string-keyed lookup
// of entity accessors anywhere.
type repo[M any, E any] struct {
	db       *gorm.DB
	toDomain func(*M) *E
	notFound error
}

func newRepo[M any, E any](db *gorm.DB, toDomain func(*M) *E, notFound error) repo[M, E] {
	return repo[M, E]{db: db, toDomain: toDomain, notFound: notFound}
}

// query opens a model-typed query with the given scopes applied.
func (r *repo[M, E]) query(ctx context.Context, scopes ...scope) *gorm.DB {
	var m M

	return r.db.WithContext(ctx).Model(&m).Scopes(scopes...)
}

// findByID loads one record by primary key, mapped to the domain entity.
// Absence maps to the repository's domain not-found error; any other engine
// error propagates wrapped but untranslated.
func (r *repo[M, E]) findByID(ctx context.Context, id uuid.UUID, scopes ...scope) (*E, error) {
	var m M
	err := r.query(ctx, scopes...).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound
		}

		return nil, errors.Wrap(err, "failed to find record by id")
	}

	return r.toDomain(&m), nil
}

// deleteByID removes one record by primary key. Deleting a missing record
// reports the domain not-found error rather than succeeding silently.
func (r *repo[M, E]) deleteByID(ctx context.Context, id uuid.UUID) error {
	var m M
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&m)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete record by id")
	}
	if result.RowsAffected == 0 {
		return r.notFound
	}

	return nil
}

// count returns how many records match the scopes.
func (r *repo[M, E]) count(ctx context.Context, scopes ...scope) (int64, error) {
	var total int64
	if err := r.query(ctx, scopes...).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count records")
	}

	return total, nil
}

// findPage fetches a window of records, mapped to domain entities.
func (r *repo[M, E]) findPage(ctx context.Context, limit, offset int, scopes ...scope) ([]*E, error) {
	var models []M
	if err := r.query(ctx, scopes...).Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find page of records")
	}

	out := make([]*E, 0, len(models))
	for i := range models {
		out = append(out, r.toDomain(&models[i]))
	}

	return out, nil
}

// pageSource adapts the scoped query into a paginator source. The paginator
// issues the data fetch and the count concurrently; GORM sessions are safe
// for that as each call derives its own statement. The ordering scope only
// applies to the data fetch; the count runs on the bare filters.
func (r *repo[M, E]) pageSource(orderBy scope, filters ...scope) pagination.Source[*E] {
	return pagination.FuncSource[*E]{
		FindPageFn: func(ctx context.Context, limit, offset int) ([]*E, error) {
			scopes := append(append([]scope{}, filters...), orderBy)

			return r.findPage(ctx, limit, offset, scopes...)
		},
		CountFn: func(ctx context.Context) (int64, error) {
			return r.count(ctx, filters...)
		},
	}
}

// orderScope builds an ORDER BY scope from a caller-supplied sort field.
// Only columns present in allowed are accepted; anything else falls back to
// the default ordering, keeping user input out of the SQL text.
func orderScope(sortBy, sortDir string, allowed map[string]string, fallback string) scope {
	column, ok := allowed[sortBy]
	if !ok {
		column = fallback
	}

	dir := "asc"
	if strings.EqualFold(sortDir, "desc") {
		dir = "desc"
	}

	return func(db *gorm.DB) *gorm.DB {
		return db.Order(column + " " + dir)
	}
}
