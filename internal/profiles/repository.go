package profiles

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/table"
)

type repo struct {
	tables      *table.Store
	name        string
	schema      Schema
	logger      *slog.Logger
	pagination  pagination.Config
	searchLimit int
}

// New creates a taxonomy system reading the named table from tables.
func New(
	tables *table.Store,
	name string,
	schema Schema,
	logger *slog.Logger,
	pagination pagination.Config,
	searchLimit int,
) System {
	return &repo{
		tables:      tables,
		name:        name,
		schema:      schema,
		logger:      logger.With("system", "profiles"),
		pagination:  pagination,
		searchLimit: searchLimit,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.searchLimit)
}

func (r *repo) Schema() Schema {
	return r.schema
}

// Table returns the profile table, requiring the key columns plus any extra ones.
func (r *repo) Table(ctx context.Context, required ...string) (*table.Table, error) {
	return r.tables.Get(ctx, r.name, append(r.schema.Keys(), required...)...)
}

func (r *repo) Options(ctx context.Context, path Path) (*Options, error) {
	t, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	opts := BuildOptions(t, r.schema, path)
	return &opts, nil
}

func (r *repo) Distinct(ctx context.Context, column string, filters []table.Filter) ([]string, error) {
	t, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Distinct(t, column, filters...)
}

func (r *repo) Resolve(ctx context.Context, path Path) (*Profile, error) {
	t, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	p, err := Resolve(t, r.schema, path)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Family returns every profile in family, or every profile when family is empty.
func (r *repo) Family(ctx context.Context, family string) ([]Profile, error) {
	t, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	return r.schema.Profiles(t.Filter(Filters{Family: family}.table(r.schema)...)), nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Profile], error) {
	page.Normalize(r.pagination)

	t, err := r.Table(ctx, r.schema.Grade, r.schema.CareerPath)
	if err != nil {
		return nil, err
	}

	result, err := List(t, r.schema, filters, page)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *repo) Search(ctx context.Context, q string, limit int) ([]Match, error) {
	if limit <= 0 || limit > r.searchLimit {
		limit = r.searchLimit
	}

	t, err := r.Table(ctx)
	if err != nil {
		return nil, err
	}
	return Search(t, r.schema, q, limit)
}
