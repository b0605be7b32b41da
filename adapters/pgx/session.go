package pgx

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmonteiro/curio"
)

func (a *Adapter) CreateSession(ctx context.Context, session *curio.Session) error {
	query := `INSERT INTO public.sessions (id, user_id, token_hash, ip_address, user_agent, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at, updated_at`

	var createdAt, updatedAt time.Time
	err := a.pool.QueryRow(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.IPAddress, session.UserAgent, session.ExpiresAt,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return err
	}

	session.CreatedAt = createdAt
	session.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) GetSessionByHash(ctx context.Context, tokenHash string) (*curio.Session, error) {
	q := `SELECT id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
	      FROM public.sessions WHERE token_hash = $1`
	return a.scanSession(a.pool.QueryRow(ctx, q, tokenHash))
}

func (a *Adapter) GetSessionByID(ctx context.Context, id string) (*curio.Session, error) {
	q := `SELECT id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
	      FROM public.sessions WHERE id = $1`
	return a.scanSession(a.pool.QueryRow(ctx, q, id))
}

func (a *Adapter) scanSession(row pgx.Row) (*curio.Session, error) {
	session := &curio.Session{}
	err := row.Scan(
		&session.ID, &session.UserID, &session.TokenHash, &session.IPAddress, &session.UserAgent,
		&session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, curio.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (a *Adapter) GetUserSessions(ctx context.Context, userID string) ([]*curio.Session, error) {
	q := `SELECT id, user_id, token_hash, ip_address, user_agent, expires_at, created_at, updated_at
	      FROM public.sessions WHERE user_id = $1`

	rows, err := a.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*curio.Session
	for rows.Next() {
		session := &curio.Session{}
		if err := rows.Scan(
			&session.ID, &session.UserID, &session.TokenHash, &session.IPAddress, &session.UserAgent,
			&session.ExpiresAt, &session.CreatedAt, &session.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (a *Adapter) UpdateSession(ctx context.Context, session *curio.Session) error {
	q := `UPDATE public.sessions SET expires_at = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`

	var updatedAt time.Time
	err := a.pool.QueryRow(ctx, q, session.ExpiresAt, session.ID).Scan(&updatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return curio.ErrSessionNotFound
		}
		return err
	}
	session.UpdatedAt = updatedAt
	return nil
}

func (a *Adapter) DeleteSessionByID(ctx context.Context, id string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return curio.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteSessionByHash(ctx context.Context, tokenHash string) error {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return curio.ErrSessionNotFound
	}
	return nil
}

func (a *Adapter) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int, error) {
	tag, err := a.pool.Exec(ctx, `DELETE FROM public.sessions WHERE expires_at < now()`)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
