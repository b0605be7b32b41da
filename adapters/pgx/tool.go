package pgx

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmonteiro/curio"
)

const toolColumns = `id, name, url, description, category, is_free, is_chinese, owner_user_id, is_admin_tool, created_at, updated_at`

func (a *Adapter) ListPublicTools(ctx context.Context) ([]*curio.Tool, error) {
	// Insertion order is part of the contract: cards render in the order
	// rows were created. Admin-flagged tools are globally visible even
	// when owned.
	q := `SELECT ` + toolColumns + ` FROM public.tools WHERE owner_user_id IS NULL OR is_admin_tool ORDER BY created_at, id`
	return a.queryTools(ctx, q)
}

func (a *Adapter) GetUserTools(ctx context.Context, userID string) ([]*curio.Tool, error) {
	q := `SELECT ` + toolColumns + ` FROM public.tools WHERE owner_user_id = $1 ORDER BY created_at, id`
	return a.queryTools(ctx, q, userID)
}

func (a *Adapter) ListAllTools(ctx context.Context) ([]*curio.Tool, error) {
	q := `SELECT ` + toolColumns + ` FROM public.tools ORDER BY created_at, id`
	return a.queryTools(ctx, q)
}

func (a *Adapter) queryTools(ctx context.Context, q string, args ...any) ([]*curio.Tool, error) {
	rows, err := a.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []*curio.Tool
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, rows.Err()
}

func scanTool(row pgx.Row) (*curio.Tool, error) {
	tool := &curio.Tool{}
	var category string
	var owner *string
	err := row.Scan(
		&tool.ID, &tool.Name, &tool.URL, &tool.Description, &category,
		&tool.IsFree, &tool.IsChinese, &owner, &tool.IsAdminTool,
		&tool.CreatedAt, &tool.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, curio.ErrToolNotFound
		}
		return nil, err
	}
	tool.Category = curio.Category(category)
	if owner != nil {
		tool.OwnerUserID = *owner
	}
	return tool, nil
}

func (a *Adapter) GetTool(ctx context.Context, id string) (*curio.Tool, error) {
	q := `SELECT ` + toolColumns + ` FROM public.tools WHERE id = $1`
	return scanTool(a.pool.QueryRow(ctx, q, id))
}

func (a *Adapter) AddTool(ctx context.Context, tool *curio.Tool) error {
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}

	query := `INSERT INTO public.tools (id, name, url, description, category, is_free, is_chinese, owner_user_id, is_admin_tool)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		tool.ID, tool.Name, tool.URL, tool.Description, string(tool.Category),
		tool.IsFree, tool.IsChinese, nullableOwner(tool.OwnerUserID), tool.IsAdminTool,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	tool.CreatedAt = createdAt
	tool.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) UpdateTool(ctx context.Context, tool *curio.Tool) error {
	q := `UPDATE public.tools SET name = $1, url = $2, description = $3, category = $4, is_free = $5, is_chinese = $6, updated_at = now()
	      WHERE id = $7 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q,
		tool.Name, tool.URL, tool.Description, string(tool.Category), tool.IsFree, tool.IsChinese, tool.ID,
	).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return curio.ErrToolNotFound
		}
		return err
	}
	tool.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteTool(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.tools WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return curio.ErrToolNotFound
	}
	return nil
}

func (a *Adapter) SetAdminFlag(ctx context.Context, id string, admin bool) error {
	tag, err := a.pool.Exec(ctx, `UPDATE public.tools SET is_admin_tool = $1, updated_at = now() WHERE id = $2`, admin, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return curio.ErrToolNotFound
	}
	return nil
}

func nullableOwner(owner string) *string {
	if owner == "" {
		return nil
	}
	return &owner
}
