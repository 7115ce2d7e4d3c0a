package service

import (
	"context"
	"errors"
	"strings"

	"coursehub/internal/model"
	"coursehub/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

var ErrEmptyMessage = errors.New("comment message is required")

// NewComment is the validated comment payload
type NewComment struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type CommentService interface {
	// AddComment attaches a comment by userID to the course. Field failures are
	// returned as validator.ValidationErrors.
	AddComment(ctx context.Context, userID, courseUUID string, in NewComment) (*model.Comment, error)
}

type commentService struct {
	courseRepo  repository.CourseRepository
	commentRepo repository.CommentRepository
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewCommentService(courseRepo repository.CourseRepository, commentRepo repository.CommentRepository, validate *validator.Validate, logger zerolog.Logger) CommentService {
	return &commentService{
		courseRepo:  courseRepo,
		commentRepo: commentRepo,
		validate:    validate,
		logger:      logger.With().Str("service", "CommentService").Logger(),
	}
}

func (s *commentService) AddComment(ctx context.Context, userID, courseUUID string, in NewComment) (*model.Comment, error) {
	if !isUUID(courseUUID) {
		return nil, ErrCourseNotFound
	}
	course, err := s.courseRepo.GetCourseByUUID(ctx, courseUUID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	c := &model.Comment{CourseID: course.ID, UserID: userID, Message: in.Message}
	if err := s.commentRepo.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("comment_id", c.ID).Str("course_uuid", courseUUID).Msg("Comment added")
	return c, nil
}
