package handler

import (
	"context"
	"errors"
	"strings"

	"coursehub/internal/api/v1/dto"
	"coursehub/internal/api/v1/operation"
	"coursehub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// CatalogHandler implements the public course catalog operations
type CatalogHandler struct {
	presenter
	catalogService service.CatalogService
	cartService    service.CartService
	commentService service.CommentService
	logger         zerolog.Logger
}

func NewCatalogHandler(
	catalogService service.CatalogService,
	cartService service.CartService,
	commentService service.CommentService,
	mediaURL func(key string) string,
	logger zerolog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		presenter:      presenter{mediaURL: mediaURL},
		catalogService: catalogService,
		cartService:    cartService,
		commentService: commentService,
		logger:         logger,
	}
}

// CoursesHome returns a random selection of sectors with featured courses
func (h *CatalogHandler) CoursesHome(ctx context.Context, input *operation.CoursesHomeInput) (*operation.CoursesHomeOutput, error) {
	featured, err := h.catalogService.Home(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to build courses home")
		return nil, huma.Error500InternalServerError("Failed to load courses")
	}
	body := make([]dto.SectorHomeDTO, 0, len(featured))
	for _, fs := range featured {
		courses := make([]dto.CourseDisplayDTO, 0, len(fs.Courses))
		for i := range fs.Courses {
			courses = append(courses, h.courseDisplay(&fs.Courses[i]))
		}
		body = append(body, dto.SectorHomeDTO{
			SectorName:      fs.Sector.Name,
			SectorUUID:      fs.Sector.SectorUUID,
			FeaturedCourses: courses,
			SectorImage:     h.mediaURL(fs.Sector.SectorImage),
		})
	}
	return &operation.CoursesHomeOutput{Body: body}, nil
}

// CourseSearch lists the courses of one sector
func (h *CatalogHandler) CourseSearch(ctx context.Context, input *operation.CourseSearchInput) (*operation.CourseSearchOutput, error) {
	result, err := h.catalogService.SearchBySector(ctx, input.SectorUUID)
	if err != nil {
		if errors.Is(err, service.ErrSectorNotFound) {
			return nil, huma.Error400BadRequest("Course sector does not exist")
		}
		h.logger.Error().Err(err).Str("sector_uuid", input.SectorUUID).Msg("Failed to search sector")
		return nil, huma.Error500InternalServerError("Failed to load sector courses")
	}
	return &operation.CourseSearchOutput{
		Body: dto.SectorCoursesDTO{
			Data:          h.courseList(result.Courses),
			SectorName:    result.Sector.Name,
			TotalStudents: result.TotalStudents,
			Image:         h.mediaURL(result.Sector.SectorImage),
		},
	}, nil
}

// CourseDetail returns the public view of a course
func (h *CatalogHandler) CourseDetail(ctx context.Context, input *operation.CourseDetailInput) (*operation.CourseDetailOutput, error) {
	course, err := h.catalogService.Detail(ctx, input.CourseUUID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return nil, huma.Error400BadRequest("Course does not exist")
		}
		h.logger.Error().Err(err).Str("course_uuid", input.CourseUUID).Msg("Failed to load course detail")
		return nil, huma.Error500InternalServerError("Failed to load course")
	}
	return &operation.CourseDetailOutput{Body: h.courseUnpaid(course)}, nil
}

// SearchCourse matches the search term against titles and descriptions
func (h *CatalogHandler) SearchCourse(ctx context.Context, input *operation.SearchCourseInput) (*operation.SearchCourseOutput, error) {
	if strings.TrimSpace(input.SearchTerm) == "" {
		return nil, huma.Error400BadRequest("search_term is required")
	}
	courses, err := h.catalogService.Search(ctx, input.SearchTerm)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to search courses")
		return nil, huma.Error500InternalServerError("Failed to search courses")
	}
	return &operation.SearchCourseOutput{Body: h.courseList(courses)}, nil
}

// GetCartDetail prices the courses in the cart
func (h *CatalogHandler) GetCartDetail(ctx context.Context, input *operation.GetCartDetailInput) (*operation.GetCartDetailOutput, error) {
	if input.Body.Cart == nil {
		return nil, huma.Error400BadRequest("cart must be a list")
	}
	cart, err := h.cartService.Detail(ctx, input.Body.Cart)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to price cart")
		return nil, huma.Error500InternalServerError("Failed to load cart")
	}
	return &operation.GetCartDetailOutput{
		Body: dto.CartDetailDTO{
			CartDetail: h.cartItems(cart.Items),
			CartTotal:  cart.Total.StringFixed(2),
		},
	}, nil
}

// AddComment attaches the caller's comment to a course
func (h *CatalogHandler) AddComment(ctx context.Context, input *operation.AddCommentInput) (*operation.AddCommentOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	_, err = h.commentService.AddComment(ctx, userID, input.CourseUUID, service.NewComment{Message: input.Body.Message})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return nil, huma.Error400BadRequest("Course does not exist")
		case errors.Is(err, service.ErrEmptyMessage):
			return nil, huma.Error400BadRequest("message is required")
		}
		if verr := validationError(err); verr != nil {
			return nil, verr
		}
		h.logger.Error().Err(err).Str("course_uuid", input.CourseUUID).Msg("Failed to add comment")
		return nil, huma.Error500InternalServerError("Failed to add comment")
	}
	return &operation.AddCommentOutput{}, nil
}
