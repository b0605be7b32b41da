// Package pgx implements curio's storage ports over a PostgreSQL
// connection pool.
package pgx

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmonteiro/curio"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ curio.StorageAdapter = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// EnsureSeeded inserts the bundled catalog, skipping entries that already
// exist so redeploys don't duplicate rows.
func (a *Adapter) EnsureSeeded(ctx context.Context, tools []*curio.Tool) error {
	query := `INSERT INTO public.tools (id, name, url, description, category, is_free, is_chinese, is_admin_tool)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO NOTHING`

	for _, t := range tools {
		if _, err := a.pool.Exec(ctx, query,
			t.ID, t.Name, t.URL, t.Description, string(t.Category), t.IsFree, t.IsChinese, t.IsAdminTool,
		); err != nil {
			return err
		}
	}
	return nil
}
