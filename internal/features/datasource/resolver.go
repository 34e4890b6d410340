package datasource

import (
	"context"

	"go-bi/internal/common/apperrors"
)

// Resolver resolves a widget's data source id to a schema and a
// materialized row set. Data sources are owned elsewhere; this subsystem
// only consumes the shape.
type Resolver interface {
	Resolve(ctx context.Context, dataSourceID string) ([]Column, []Row, error)
}

// StaticResolver serves datasets registered in memory. Used by tests and
// by deployments without a row backend.
type StaticResolver struct {
	datasets map[string]Dataset
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{datasets: make(map[string]Dataset)}
}

func (r *StaticResolver) Register(id string, ds Dataset) {
	r.datasets[id] = ds
}

func (r *StaticResolver) Resolve(ctx context.Context, dataSourceID string) ([]Column, []Row, error) {
	ds, ok := r.datasets[dataSourceID]
	if !ok {
		return nil, nil, apperrors.NewNotFound("data source", dataSourceID)
	}
	return ds.Columns, ds.Rows, nil
}
