package handler

import (
	"bytes"
	"context"
	"errors"

	"coursehub/internal/api/v1/dto"
	"coursehub/internal/api/v1/operation"
	"coursehub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler implements course study and author management operations
type CourseHandler struct {
	presenter
	courseService service.CourseService
	validate      *validator.Validate
	logger        zerolog.Logger
}

func NewCourseHandler(courseService service.CourseService, validate *validator.Validate, mediaURL func(key string) string, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		presenter:     presenter{mediaURL: mediaURL},
		courseService: courseService,
		validate:      validate,
		logger:        logger,
	}
}

// manageError maps course service errors for the owner-scoped operations.
func (h *CourseHandler) manageError(err error, courseUUID string) error {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		return huma.Error404NotFound("Not found.")
	case errors.Is(err, service.ErrSectorNotFound):
		return huma.Error400BadRequest("Course sector does not exist")
	case errors.Is(err, service.ErrInvalidPrice):
		return huma.Error400BadRequest("Invalid price", &huma.ErrorDetail{
			Message:  service.ErrInvalidPrice.Error(),
			Location: "body.price",
		})
	case errors.Is(err, service.ErrUnsupportedImage):
		return huma.Error415UnsupportedMediaType("Course image must be a JPEG, PNG, WebP or GIF")
	}
	h.logger.Error().Err(err).Str("course_uuid", courseUUID).Msg("Course management failed")
	return huma.Error500InternalServerError("Failed to manage course")
}

// CourseStudy returns the full course to a user who purchased it
func (h *CourseHandler) CourseStudy(ctx context.Context, input *operation.CourseStudyInput) (*operation.CourseStudyOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	course, err := h.courseService.Study(ctx, userID, input.CourseUUID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return nil, huma.Error400BadRequest("Course does not exist")
		case errors.Is(err, service.ErrCourseNotPurchased):
			return nil, huma.Error405MethodNotAllowed("User has not purchased this course")
		}
		h.logger.Error().Err(err).Str("course_uuid", input.CourseUUID).Msg("Failed to load course for study")
		return nil, huma.Error500InternalServerError("Failed to load course")
	}
	return &operation.CourseStudyOutput{Body: h.coursePaid(course)}, nil
}

// ListManagedCourses lists the caller's authored courses
func (h *CourseHandler) ListManagedCourses(ctx context.Context, input *operation.ListManagedCoursesInput) (*operation.ListManagedCoursesOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := h.courseService.ListOwned(ctx, userID)
	if err != nil {
		return nil, h.manageError(err, "")
	}
	body := make([]dto.CoursePaidDTO, 0, len(courses))
	for i := range courses {
		body = append(body, h.coursePaid(&courses[i]))
	}
	return &operation.ListManagedCoursesOutput{Body: body}, nil
}

func toSectionInputs(sections []dto.SectionWriteDTO) []service.SectionInput {
	if sections == nil {
		return nil
	}
	out := make([]service.SectionInput, 0, len(sections))
	for _, s := range sections {
		episodes := make([]service.EpisodeInput, 0, len(s.Episodes))
		for _, e := range s.Episodes {
			episodes = append(episodes, service.EpisodeInput{Title: e.Title, File: e.File, Length: e.Length})
		}
		out = append(out, service.SectionInput{
			SectionNumber: s.SectionNumber,
			SectionTitle:  s.SectionTitle,
			Episodes:      episodes,
		})
	}
	return out
}

func toCourseInput(body dto.CourseWriteDTO) service.CourseInput {
	return service.CourseInput{
		Title:       body.Title,
		Description: body.Description,
		Language:    body.Language,
		Price:       body.Price,
		SectorUUID:  body.SectorUUID,
		Sections:    toSectionInputs(body.CourseSections),
	}
}

// CreateManagedCourse creates a course authored by the caller
func (h *CourseHandler) CreateManagedCourse(ctx context.Context, input *operation.CreateManagedCourseInput) (*operation.ManagedCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&input.Body); err != nil {
		if verr := validationError(err); verr != nil {
			return nil, verr
		}
		return nil, huma.Error400BadRequest("Validation failed", err)
	}
	course, err := h.courseService.Create(ctx, userID, toCourseInput(input.Body))
	if err != nil {
		return nil, h.manageError(err, "")
	}
	return &operation.ManagedCourseOutput{Body: h.coursePaid(course)}, nil
}

// GetManagedCourse returns one of the caller's courses
func (h *CourseHandler) GetManagedCourse(ctx context.Context, input *operation.GetManagedCourseInput) (*operation.ManagedCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	course, err := h.courseService.GetOwned(ctx, userID, input.CourseUUID)
	if err != nil {
		return nil, h.manageError(err, input.CourseUUID)
	}
	return &operation.ManagedCourseOutput{Body: h.coursePaid(course)}, nil
}

// ReplaceManagedCourse overwrites every field of one of the caller's courses
func (h *CourseHandler) ReplaceManagedCourse(ctx context.Context, input *operation.ReplaceManagedCourseInput) (*operation.ManagedCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&input.Body); err != nil {
		if verr := validationError(err); verr != nil {
			return nil, verr
		}
		return nil, huma.Error400BadRequest("Validation failed", err)
	}
	course, err := h.courseService.Replace(ctx, userID, input.CourseUUID, toCourseInput(input.Body))
	if err != nil {
		return nil, h.manageError(err, input.CourseUUID)
	}
	return &operation.ManagedCourseOutput{Body: h.coursePaid(course)}, nil
}

// PatchManagedCourse updates the given fields of one of the caller's courses
func (h *CourseHandler) PatchManagedCourse(ctx context.Context, input *operation.PatchManagedCourseInput) (*operation.ManagedCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&input.Body); err != nil {
		if verr := validationError(err); verr != nil {
			return nil, verr
		}
		return nil, huma.Error400BadRequest("Validation failed", err)
	}
	body := input.Body
	course, err := h.courseService.Patch(ctx, userID, input.CourseUUID, service.CoursePatch{
		Title:       body.Title,
		Description: body.Description,
		Language:    body.Language,
		Price:       body.Price,
		SectorUUID:  body.SectorUUID,
		Sections:    toSectionInputs(body.CourseSections),
	})
	if err != nil {
		return nil, h.manageError(err, input.CourseUUID)
	}
	return &operation.ManagedCourseOutput{Body: h.coursePaid(course)}, nil
}

// DeleteManagedCourse deletes one of the caller's courses
func (h *CourseHandler) DeleteManagedCourse(ctx context.Context, input *operation.DeleteManagedCourseInput) (*operation.DeleteManagedCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.courseService.Delete(ctx, userID, input.CourseUUID); err != nil {
		return nil, h.manageError(err, input.CourseUUID)
	}
	// 204 No Content - Huma handles this automatically with empty output
	return &operation.DeleteManagedCourseOutput{}, nil
}

// UploadCourseImage stores a new cover image for one of the caller's courses
func (h *CourseHandler) UploadCourseImage(ctx context.Context, input *operation.UploadCourseImageInput) (*operation.ManagedCourseOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("Image body is empty")
	}
	course, err := h.courseService.UploadImage(ctx, userID, input.CourseUUID, input.ContentType, bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, h.manageError(err, input.CourseUUID)
	}
	return &operation.ManagedCourseOutput{Body: h.coursePaid(course)}, nil
}
