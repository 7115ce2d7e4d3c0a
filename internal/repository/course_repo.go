package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	// ListCoursesBySectorIDs returns the courses of every given sector keyed by sector ID
	ListCoursesBySectorIDs(ctx context.Context, sectorIDs []int64) (map[int64][]model.Course, error)
	GetCourseByUUID(ctx context.Context, courseUUID string) (*model.Course, error)
	// GetCourseDetail loads a course with its sections, episodes and comments
	GetCourseDetail(ctx context.Context, courseUUID string) (*model.Course, error)
	GetCoursesByUUIDs(ctx context.Context, courseUUIDs []string) ([]model.Course, error)
	SearchCourses(ctx context.Context, term string) ([]model.Course, error)

	// Author scoped operations. Every query filters on author_id.
	ListCoursesByAuthor(ctx context.Context, authorID string) ([]model.Course, error)
	GetAuthorCourse(ctx context.Context, authorID, courseUUID string) (*model.Course, error)
	CreateCourse(ctx context.Context, c *model.Course) error
	UpdateAuthorCourse(ctx context.Context, c *model.Course) (bool, error)
	UpdateAuthorCourseImage(ctx context.Context, authorID, courseUUID, image string) (bool, error)
	DeleteAuthorCourse(ctx context.Context, authorID, courseUUID string) (bool, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const courseSelect = `
	SELECT c.id, c.course_uuid::text, c.title, c.description, c.language, c.price::text, c.image,
		c.sector_id, s.sector_uuid::text, s.name, c.author_id::text, u.name,
		c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM user_paid_courses p WHERE p.course_id = c.id)
	FROM courses c
	JOIN sectors s ON s.id = c.sector_id
	JOIN users u ON u.id = c.author_id
`

type courseRepo struct {
	pool *pgxpool.Pool
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(pool *pgxpool.Pool) CourseRepository {
	return &courseRepo{pool: pool}
}

func scanCourse(row pgx.Row) (model.Course, error) {
	var c model.Course
	var price string
	err := row.Scan(
		&c.ID,
		&c.CourseUUID,
		&c.Title,
		&c.Description,
		&c.Language,
		&price,
		&c.Image,
		&c.SectorID,
		&c.SectorUUID,
		&c.SectorName,
		&c.AuthorID,
		&c.AuthorName,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.EnrolledStudents,
	)
	if err != nil {
		return c, err
	}
	c.Price, err = decimal.NewFromString(price)
	if err != nil {
		return c, fmt.Errorf("parsing price %q: %w", price, err)
	}
	return c, nil
}

func queryCourses(ctx context.Context, q querier, query string, args ...any) ([]model.Course, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating course rows: %w", err)
	}
	return courses, nil
}

func queryCourse(ctx context.Context, q querier, query string, args ...any) (*model.Course, error) {
	c, err := scanCourse(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course: %w", err)
	}
	return &c, nil
}

func (r *courseRepo) ListCoursesBySectorIDs(ctx context.Context, sectorIDs []int64) (map[int64][]model.Course, error) {
	bySector := make(map[int64][]model.Course, len(sectorIDs))
	if len(sectorIDs) == 0 {
		return bySector, nil
	}
	courses, err := queryCourses(ctx, r.pool, courseSelect+`
		WHERE c.sector_id = ANY($1)
		ORDER BY c.id ASC
	`, sectorIDs)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		bySector[c.SectorID] = append(bySector[c.SectorID], c)
	}
	return bySector, nil
}

// GetCourseByUUID retrieves a course without its content
func (r *courseRepo) GetCourseByUUID(ctx context.Context, courseUUID string) (*model.Course, error) {
	return queryCourse(ctx, r.pool, courseSelect+`WHERE c.course_uuid = $1`, courseUUID)
}

func (r *courseRepo) GetCourseDetail(ctx context.Context, courseUUID string) (*model.Course, error) {
	c, err := r.GetCourseByUUID(ctx, courseUUID)
	if err != nil || c == nil {
		return c, err
	}
	courses := []model.Course{*c}
	if err := loadContent(ctx, r.pool, courses); err != nil {
		return nil, err
	}
	comments, err := listComments(ctx, r.pool, c.ID)
	if err != nil {
		return nil, err
	}
	courses[0].Comments = comments
	return &courses[0], nil
}

func (r *courseRepo) GetCoursesByUUIDs(ctx context.Context, courseUUIDs []string) ([]model.Course, error) {
	if len(courseUUIDs) == 0 {
		return []model.Course{}, nil
	}
	return queryCourses(ctx, r.pool, courseSelect+`
		WHERE c.course_uuid = ANY($1::text[]::uuid[])
		ORDER BY c.id ASC
	`, courseUUIDs)
}

// escapeLike escapes the LIKE wildcards so the term matches literally
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// SearchCourses matches the term case-insensitively against title or description
func (r *courseRepo) SearchCourses(ctx context.Context, term string) ([]model.Course, error) {
	return queryCourses(ctx, r.pool, courseSelect+`
		WHERE c.title ILIKE '%' || $1 || '%' OR c.description ILIKE '%' || $1 || '%'
		ORDER BY c.id ASC
	`, escapeLike(term))
}

func (r *courseRepo) ListCoursesByAuthor(ctx context.Context, authorID string) ([]model.Course, error) {
	courses, err := queryCourses(ctx, r.pool, courseSelect+`
		WHERE c.author_id = $1
		ORDER BY c.updated_at DESC
	`, authorID)
	if err != nil {
		return nil, err
	}
	if err := loadContent(ctx, r.pool, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetAuthorCourse(ctx context.Context, authorID, courseUUID string) (*model.Course, error) {
	c, err := queryCourse(ctx, r.pool, courseSelect+`
		WHERE c.author_id = $1 AND c.course_uuid = $2
	`, authorID, courseUUID)
	if err != nil || c == nil {
		return c, err
	}
	courses := []model.Course{*c}
	if err := loadContent(ctx, r.pool, courses); err != nil {
		return nil, err
	}
	if courses[0].Comments, err = listComments(ctx, r.pool, c.ID); err != nil {
		return nil, err
	}
	return &courses[0], nil
}

// CreateCourse inserts the course with its sections and episodes in one transaction
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO courses (course_uuid, title, description, language, price, image, sector_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		c.CourseUUID, c.Title, c.Description, c.Language, c.Price.String(), c.Image, c.SectorID, c.AuthorID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating course: %w", err)
	}
	if err := insertContent(ctx, tx, c); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing course: %w", err)
	}
	return nil
}

// UpdateAuthorCourse updates the course only when authorID owns it. Sections
// are replaced when c.Sections is non-nil.
func (r *courseRepo) UpdateAuthorCourse(ctx context.Context, c *model.Course) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		UPDATE courses
		SET title = $1, description = $2, language = $3, price = $4, sector_id = $5, updated_at = NOW()
		WHERE course_uuid = $6 AND author_id = $7
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		c.Title, c.Description, c.Language, c.Price.String(), c.SectorID, c.CourseUUID, c.AuthorID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("updating course %s: %w", c.CourseUUID, err)
	}
	if c.Sections != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM course_sections WHERE course_id = $1`, c.ID); err != nil {
			return false, fmt.Errorf("clearing sections of course %s: %w", c.CourseUUID, err)
		}
		if err := insertContent(ctx, tx, c); err != nil {
			return false, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("committing course update: %w", err)
	}
	return true, nil
}

func (r *courseRepo) UpdateAuthorCourseImage(ctx context.Context, authorID, courseUUID, image string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE courses SET image = $1, updated_at = NOW()
		WHERE course_uuid = $2 AND author_id = $3
	`, image, courseUUID, authorID)
	if err != nil {
		return false, fmt.Errorf("updating image of course %s: %w", courseUUID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *courseRepo) DeleteAuthorCourse(ctx context.Context, authorID, courseUUID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE course_uuid = $1 AND author_id = $2`, courseUUID, authorID)
	if err != nil {
		return false, fmt.Errorf("deleting course %s: %w", courseUUID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func insertContent(ctx context.Context, q querier, c *model.Course) error {
	for i := range c.Sections {
		s := &c.Sections[i]
		s.CourseID = c.ID
		err := q.QueryRow(ctx, `
			INSERT INTO course_sections (course_id, section_number, section_title)
			VALUES ($1, $2, $3)
			RETURNING id
		`, c.ID, s.SectionNumber, s.SectionTitle).Scan(&s.ID)
		if err != nil {
			return fmt.Errorf("creating section %d: %w", s.SectionNumber, err)
		}
		for j := range s.Episodes {
			e := &s.Episodes[j]
			e.SectionID = s.ID
			err := q.QueryRow(ctx, `
				INSERT INTO episodes (section_id, episode_uuid, position, title, file, length)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id
			`, s.ID, e.EpisodeUUID, j, e.Title, e.File, e.Length).Scan(&e.ID)
			if err != nil {
				return fmt.Errorf("creating episode %q: %w", e.Title, err)
			}
		}
	}
	return nil
}

// loadContent attaches sections and episodes to the given courses in place
func loadContent(ctx context.Context, q querier, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}
	ids := make([]int64, len(courses))
	index := make(map[int64]int, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		index[c.ID] = i
		courses[i].Sections = []model.CourseSection{}
	}

	rows, err := q.Query(ctx, `
		SELECT s.id, s.course_id, s.section_number, s.section_title,
			e.id, e.episode_uuid::text, e.title, e.file, e.length
		FROM course_sections s
		LEFT JOIN episodes e ON e.section_id = s.id
		WHERE s.course_id = ANY($1)
		ORDER BY s.course_id, s.section_number, s.id, e.position
	`, ids)
	if err != nil {
		return fmt.Errorf("querying course content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.CourseSection
		var (
			episodeID   *int64
			episodeUUID *string
			title, file *string
			length      *int
		)
		if err := rows.Scan(&s.ID, &s.CourseID, &s.SectionNumber, &s.SectionTitle,
			&episodeID, &episodeUUID, &title, &file, &length); err != nil {
			return fmt.Errorf("scanning course content row: %w", err)
		}
		c := &courses[index[s.CourseID]]
		if n := len(c.Sections); n == 0 || c.Sections[n-1].ID != s.ID {
			s.Episodes = []model.Episode{}
			c.Sections = append(c.Sections, s)
		}
		if episodeID == nil {
			continue
		}
		sec := &c.Sections[len(c.Sections)-1]
		sec.Episodes = append(sec.Episodes, model.Episode{
			ID:          *episodeID,
			SectionID:   s.ID,
			EpisodeUUID: *episodeUUID,
			Title:       *title,
			File:        *file,
			Length:      *length,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating course content rows: %w", err)
	}
	return nil
}
