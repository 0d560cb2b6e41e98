package userRepo

import (
	"context"
	"errors"
	"fmt"

	"sahara/database/repository"
	"sahara/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, firebase_uid, email, phone, name, created_at, updated_at`

// PostgresUserRepo implements UserRepository on a pgx pool.
type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) UserRepository {
	return &PostgresUserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.Phone, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return u, nil
}

func (r *PostgresUserRepo) Upsert(ctx context.Context, in models.UserSync) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`INSERT INTO users (id, firebase_uid, email, phone, name)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (firebase_uid) DO UPDATE SET
		   email      = CASE WHEN $6::boolean THEN EXCLUDED.email ELSE COALESCE(EXCLUDED.email, users.email) END,
		   phone      = CASE WHEN $6::boolean THEN EXCLUDED.phone ELSE COALESCE(EXCLUDED.phone, users.phone) END,
		   name       = CASE WHEN $6::boolean THEN EXCLUDED.name ELSE COALESCE(EXCLUDED.name, users.name) END,
		   updated_at = NOW()
		 RETURNING `+userColumns,
		uuid.NewString(), in.FirebaseUID, in.Email, in.Phone, in.Name, in.Replace,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", in.FirebaseUID, err)
	}
	return u, nil
}

func (r *PostgresUserRepo) Update(ctx context.Context, id string, upd models.UserUpdateRequest) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET
		   email      = COALESCE($2, email),
		   phone      = COALESCE($3, phone),
		   name       = COALESCE($4, name),
		   updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, upd.Email, upd.Phone, upd.Name,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return u, nil
}
