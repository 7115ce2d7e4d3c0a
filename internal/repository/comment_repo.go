package repository

import (
	"context"
	"fmt"

	"coursehub/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, c *model.Comment) error
	ListCommentsByCourse(ctx context.Context, courseID int64) ([]model.Comment, error)
}

type commentRepo struct {
	pool *pgxpool.Pool
}

func NewCommentRepo(pool *pgxpool.Pool) CommentRepository {
	return &commentRepo{pool: pool}
}

func (r *commentRepo) CreateComment(ctx context.Context, c *model.Comment) error {
	query := `
		INSERT INTO comments (course_id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, c.CourseID, c.UserID, c.Message).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

func (r *commentRepo) ListCommentsByCourse(ctx context.Context, courseID int64) ([]model.Comment, error) {
	return listComments(ctx, r.pool, courseID)
}

func listComments(ctx context.Context, q querier, courseID int64) ([]model.Comment, error) {
	rows, err := q.Query(ctx, `
		SELECT cm.id, cm.course_id, cm.user_id::text, u.name, cm.message, cm.created_at
		FROM comments cm
		JOIN users u ON u.id = cm.user_id
		WHERE cm.course_id = $1
		ORDER BY cm.created_at DESC, cm.id DESC
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying comments for course %d: %w", courseID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.CourseID, &c.UserID, &c.UserName, &c.Message, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comment rows: %w", err)
	}
	return comments, nil
}
