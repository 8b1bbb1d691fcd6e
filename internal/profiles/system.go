package profiles

import (
	"context"

	"github.com/JaimeStill/jobarch/pkg/pagination"
	"github.com/JaimeStill/jobarch/pkg/table"
)

// System defines the public contract for taxonomy operations over the profile table.
type System interface {
	Handler() *Handler
	Schema() Schema

	Table(ctx context.Context, required ...string) (*table.Table, error)
	Options(ctx context.Context, path Path) (*Options, error)
	Distinct(ctx context.Context, column string, filters []table.Filter) ([]string, error)
	Resolve(ctx context.Context, path Path) (*Profile, error)
	Family(ctx context.Context, family string) ([]Profile, error)
	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Profile], error)
	Search(ctx context.Context, q string, limit int) ([]Match, error)
}
