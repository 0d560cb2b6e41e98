package appointmentRepo

import (
	"context"
	"errors"
	"fmt"

	"sahara/database/repository"
	"sahara/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// foreignKeyViolation is the SQLSTATE raised when user_id does not exist.
const foreignKeyViolation = "23503"

// PostgresAppointmentRepo implements AppointmentRepository on a pgx pool.
type PostgresAppointmentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresAppointmentRepo(pool *pgxpool.Pool) AppointmentRepository {
	return &PostgresAppointmentRepo{pool: pool}
}

func (r *PostgresAppointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO appointments (id, user_id, service_type, date, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.UserID, a.ServiceType, a.Date, a.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("user %s: %w", a.UserID, repository.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *PostgresAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, service_type, date, created_at
		 FROM appointments
		 WHERE user_id = $1
		 ORDER BY date, created_at, id`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments for user %s: %w", userID, err)
	}
	defer rows.Close()

	out := []models.Appointment{}
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.ServiceType, &a.Date, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
