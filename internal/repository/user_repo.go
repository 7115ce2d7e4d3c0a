package repository

import (
	"context"
	"errors"
	"fmt"

	"coursehub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEmail is returned when the email is already taken
var ErrDuplicateEmail = errors.New("email already exists")

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetPaidCourseUUIDs lists the course_uuids the user has purchased
	GetPaidCourseUUIDs(ctx context.Context, userID string) ([]string, error)
	HasPaidCourse(ctx context.Context, userID string, courseID int64) (bool, error)
	// AddPaidCourses records purchases; already owned courses are ignored
	AddPaidCourses(ctx context.Context, userID string, courseIDs []int64) error
}

type userRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

const userColumns = `id::text, email, name, password_hash, is_active, is_staff, is_superuser, is_author, created_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.UserID, &u.Email, &u.Name, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &u.IsAuthor, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, is_active, is_staff, is_superuser, is_author)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		u.UserID, u.Email, u.Name, u.PasswordHash, u.IsActive, u.IsStaff, u.IsSuperuser, u.IsAuthor,
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *userRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return u, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

func (r *userRepo) GetPaidCourseUUIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.course_uuid::text
		FROM user_paid_courses p
		JOIN courses c ON c.id = p.course_id
		WHERE p.user_id = $1
		ORDER BY p.created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying paid courses for user %s: %w", userID, err)
	}
	defer rows.Close()

	uuids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning paid course row: %w", err)
		}
		uuids = append(uuids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating paid course rows: %w", err)
	}
	return uuids, nil
}

func (r *userRepo) HasPaidCourse(ctx context.Context, userID string, courseID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_paid_courses WHERE user_id = $1 AND course_id = $2)
	`, userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking purchase of course %d: %w", courseID, err)
	}
	return exists, nil
}

func (r *userRepo) AddPaidCourses(ctx context.Context, userID string, courseIDs []int64) error {
	if len(courseIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_paid_courses (user_id, course_id)
		SELECT $1::uuid, unnest($2::bigint[])
		ON CONFLICT (user_id, course_id) DO NOTHING
	`, userID, courseIDs)
	if err != nil {
		return fmt.Errorf("recording purchases for user %s: %w", userID, err)
	}
	return nil
}
