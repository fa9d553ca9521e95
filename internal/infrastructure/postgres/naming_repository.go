package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/manufactura-api/internal/domain/repository"
)

var _ repository.NamingSeriesRepository = (*NamingSeriesRepo)(nil)

// NamingSeriesRepo consecutivos por prefijo (tabla naming_series).
type NamingSeriesRepo struct {
	q Querier
}

// NewNamingSeriesRepository construye el adaptador.
func NewNamingSeriesRepository(q Querier) *NamingSeriesRepo {
	return &NamingSeriesRepo{q: q}
}

// Next incrementa y devuelve el consecutivo. El upsert bloquea la fila hasta el fin de la tx.
func (r *NamingSeriesRepo) Next(ctx context.Context, prefix string) (int64, error) {
	query := `
		INSERT INTO naming_series (prefix, current) VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET current = naming_series.current + 1
		RETURNING current`
	var n int64
	if err := r.q.QueryRow(ctx, query, prefix).Scan(&n); err != nil {
		return 0, fmt.Errorf("next naming series %s: %w", prefix, err)
	}
	return n, nil
}
