package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmonteiro/curio"
)

func (a *Adapter) CreateUser(ctx context.Context, user *curio.User) error {
	query := `INSERT INTO public.users (id, email, email_verified, name, role) VALUES ($1, $2, $3, $4, $5) RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query, user.ID, user.Email, user.EmailVerified, user.Name, string(user.Role)).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetUserByID(ctx context.Context, id string) (*curio.User, error) {
	q := `SELECT id, email, email_verified, name, role, created_at, updated_at FROM public.users WHERE id = $1`
	return a.scanUser(a.pool.QueryRow(ctx, q, id))
}

func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*curio.User, error) {
	q := `SELECT id, email, email_verified, name, role, created_at, updated_at FROM public.users WHERE email = $1`
	return a.scanUser(a.pool.QueryRow(ctx, q, email))
}

func (a *Adapter) scanUser(row pgx.Row) (*curio.User, error) {
	user := &curio.User{}
	var role string
	err := row.Scan(&user.ID, &user.Email, &user.EmailVerified, &user.Name, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, curio.ErrUserNotFound
		}
		return nil, err
	}
	user.Role = curio.Role(role)
	return user, nil
}

func (a *Adapter) UpdateUser(ctx context.Context, user *curio.User) error {
	q := `UPDATE public.users SET email = $1, email_verified = $2, name = $3, role = $4, updated_at = now() WHERE id = $5 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, user.Email, user.EmailVerified, user.Name, string(user.Role), user.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return curio.ErrUserNotFound
		}
		return err
	}
	user.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteUser(ctx context.Context, id string) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM public.users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return nil
}

func (a *Adapter) ListUsers(ctx context.Context) ([]*curio.User, error) {
	q := `SELECT id, email, email_verified, name, role, created_at, updated_at FROM public.users ORDER BY created_at`

	rows, err := a.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*curio.User
	for rows.Next() {
		user := &curio.User{}
		var role string
		if err := rows.Scan(&user.ID, &user.Email, &user.EmailVerified, &user.Name, &role, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		user.Role = curio.Role(role)
		users = append(users, user)
	}
	return users, rows.Err()
}
