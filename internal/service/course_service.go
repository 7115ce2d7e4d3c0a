package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"coursehub/internal/model"
	"coursehub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrCourseNotPurchased = errors.New("user has not purchased this course")
	ErrInvalidPrice       = errors.New("price must be a non-negative amount with at most two decimal places")
	ErrUnsupportedImage   = errors.New("unsupported image type")
)

var maxPrice = decimal.New(1, 8)

// CourseInput carries every writable course field
type CourseInput struct {
	Title       string
	Description string
	Language    string
	Price       string
	SectorUUID  string
	Sections    []SectionInput
}

type SectionInput struct {
	SectionNumber int
	SectionTitle  string
	Episodes      []EpisodeInput
}

type EpisodeInput struct {
	Title  string
	File   string
	Length int
}

// CoursePatch updates only the non-nil fields
type CoursePatch struct {
	Title       *string
	Description *string
	Language    *string
	Price       *string
	SectorUUID  *string
	Sections    []SectionInput // replaced when non-nil
}

// CourseService covers purchased-course study and author course management.
// Management operations are scoped to the author in the query itself; a course
// owned by someone else reports ErrCourseNotFound.
type CourseService interface {
	Study(ctx context.Context, userID, courseUUID string) (*model.Course, error)

	ListOwned(ctx context.Context, authorID string) ([]model.Course, error)
	GetOwned(ctx context.Context, authorID, courseUUID string) (*model.Course, error)
	Create(ctx context.Context, authorID string, in CourseInput) (*model.Course, error)
	Replace(ctx context.Context, authorID, courseUUID string, in CourseInput) (*model.Course, error)
	Patch(ctx context.Context, authorID, courseUUID string, in CoursePatch) (*model.Course, error)
	Delete(ctx context.Context, authorID, courseUUID string) error
	UploadImage(ctx context.Context, authorID, courseUUID, contentType string, body io.Reader) (*model.Course, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
	sectorRepo repository.SectorRepository
	userRepo   repository.UserRepository
	media      MediaStore
	logger     zerolog.Logger
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	sectorRepo repository.SectorRepository,
	userRepo repository.UserRepository,
	media MediaStore,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courseRepo: courseRepo,
		sectorRepo: sectorRepo,
		userRepo:   userRepo,
		media:      media,
		logger:     logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) Study(ctx context.Context, userID, courseUUID string) (*model.Course, error) {
	if !isUUID(courseUUID) {
		return nil, ErrCourseNotFound
	}
	c, err := s.courseRepo.GetCourseDetail(ctx, courseUUID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	paid, err := s.userRepo.HasPaidCourse(ctx, userID, c.ID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, ErrCourseNotPurchased
	}
	return c, nil
}

func (s *courseService) ListOwned(ctx context.Context, authorID string) ([]model.Course, error) {
	return s.courseRepo.ListCoursesByAuthor(ctx, authorID)
}

func (s *courseService) GetOwned(ctx context.Context, authorID, courseUUID string) (*model.Course, error) {
	if !isUUID(courseUUID) {
		return nil, ErrCourseNotFound
	}
	c, err := s.courseRepo.GetAuthorCourse(ctx, authorID, courseUUID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

func (s *courseService) Create(ctx context.Context, authorID string, in CourseInput) (*model.Course, error) {
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}
	sector, err := s.resolveSector(ctx, in.SectorUUID)
	if err != nil {
		return nil, err
	}
	c := &model.Course{
		CourseUUID:  uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Language:    in.Language,
		Price:       price,
		SectorID:    sector.ID,
		AuthorID:    authorID,
		Sections:    buildSections(in.Sections),
	}
	if err := s.courseRepo.CreateCourse(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().Str("course_uuid", c.CourseUUID).Str("author_id", authorID).Msg("Course created")
	return s.GetOwned(ctx, authorID, c.CourseUUID)
}

func (s *courseService) Replace(ctx context.Context, authorID, courseUUID string, in CourseInput) (*model.Course, error) {
	sections := in.Sections
	if sections == nil {
		sections = []SectionInput{}
	}
	return s.Patch(ctx, authorID, courseUUID, CoursePatch{
		Title:       &in.Title,
		Description: &in.Description,
		Language:    &in.Language,
		Price:       &in.Price,
		SectorUUID:  &in.SectorUUID,
		Sections:    sections,
	})
}

func (s *courseService) Patch(ctx context.Context, authorID, courseUUID string, in CoursePatch) (*model.Course, error) {
	c, err := s.GetOwned(ctx, authorID, courseUUID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Language != nil {
		c.Language = *in.Language
	}
	if in.Price != nil {
		if c.Price, err = parsePrice(*in.Price); err != nil {
			return nil, err
		}
	}
	if in.SectorUUID != nil {
		sector, err := s.resolveSector(ctx, *in.SectorUUID)
		if err != nil {
			return nil, err
		}
		c.SectorID = sector.ID
	}
	c.Sections = nil
	if in.Sections != nil {
		c.Sections = buildSections(in.Sections)
	}

	ok, err := s.courseRepo.UpdateAuthorCourse(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCourseNotFound
	}
	return s.GetOwned(ctx, authorID, courseUUID)
}

func (s *courseService) Delete(ctx context.Context, authorID, courseUUID string) error {
	if !isUUID(courseUUID) {
		return ErrCourseNotFound
	}
	ok, err := s.courseRepo.DeleteAuthorCourse(ctx, authorID, courseUUID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCourseNotFound
	}
	s.logger.Info().Str("course_uuid", courseUUID).Str("author_id", authorID).Msg("Course deleted")
	return nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func (s *courseService) UploadImage(ctx context.Context, authorID, courseUUID, contentType string, body io.Reader) (*model.Course, error) {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := imageExtensions[mediaType]
	if !ok {
		return nil, ErrUnsupportedImage
	}
	if _, err := s.GetOwned(ctx, authorID, courseUUID); err != nil {
		return nil, err
	}

	key := path.Join("course_images", courseUUID, uuid.NewString()+ext)
	if err := s.media.Put(ctx, key, mediaType, body); err != nil {
		s.logger.Error().Err(err).Str("course_uuid", courseUUID).Msg("Failed to store course image")
		return nil, fmt.Errorf("store course image: %w", err)
	}
	updated, err := s.courseRepo.UpdateAuthorCourseImage(ctx, authorID, courseUUID, key)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrCourseNotFound
	}
	return s.GetOwned(ctx, authorID, courseUUID)
}

func (s *courseService) resolveSector(ctx context.Context, sectorUUID string) (*model.Sector, error) {
	if !isUUID(sectorUUID) {
		return nil, ErrSectorNotFound
	}
	sector, err := s.sectorRepo.GetSectorByUUID(ctx, sectorUUID)
	if err != nil {
		return nil, err
	}
	if sector == nil {
		return nil, ErrSectorNotFound
	}
	return sector, nil
}

// parsePrice accepts decimal strings that fit NUMERIC(10,2) exactly.
func parsePrice(raw string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, ErrInvalidPrice
	}
	if p.IsNegative() || !p.Equal(p.Round(2)) || p.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, ErrInvalidPrice
	}
	return p.Round(2), nil
}

func buildSections(in []SectionInput) []model.CourseSection {
	sections := make([]model.CourseSection, 0, len(in))
	for _, sec := range in {
		episodes := make([]model.Episode, 0, len(sec.Episodes))
		for _, e := range sec.Episodes {
			episodes = append(episodes, model.Episode{
				EpisodeUUID: uuid.NewString(),
				Title:       e.Title,
				File:        e.File,
				Length:      e.Length,
			})
		}
		sections = append(sections, model.CourseSection{
			SectionNumber: sec.SectionNumber,
			SectionTitle:  sec.SectionTitle,
			Episodes:      episodes,
		})
	}
	return sections
}
