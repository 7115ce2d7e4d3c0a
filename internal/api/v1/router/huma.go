package router

import (
	"net/http"
	"os"
	"sync"

	"coursehub/internal/api/v1/handler"
	"coursehub/internal/middleware"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const bearerScheme = "bearer"

var remapOnce sync.Once

// remapUnprocessable reports huma's request validation failures as 400
// instead of 422 so clients see one status for every invalid payload.
func remapUnprocessable() {
	remapOnce.Do(func() {
		newError := huma.NewError
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}
			return newError(status, msg, errs...)
		}
	})
}

// SetupHumaAPI creates a Huma API on the given chi router with JWT auth
// applied to every operation. Tokens only authenticate active users.
func SetupHumaAPI(chiRouter chi.Router, jwtSecret string, users middleware.UserGetter, logger zerolog.Logger) huma.API {
	remapUnprocessable()

	// Get version from environment or default to development
	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("Coursehub API", version)
	humaConfig.Info.Description = "Course catalog, study, authoring and checkout"
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		bearerScheme: {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}

	api := humachi.New(chiRouter, humaConfig)
	api.UseMiddleware(middleware.AuthMiddleware(api, jwtSecret, users, logger))

	logger.Info().Str("version", version).Msg("Huma API initialized")
	return api
}

var authenticated = []map[string][]string{{bearerScheme: {}}}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(
	api huma.API,
	catalogHandler *handler.CatalogHandler,
	courseHandler *handler.CourseHandler,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	paymentHandler *handler.PaymentHandler,
	logger zerolog.Logger,
) {
	logger.Info().Msg("Registering routes")

	// ========== CATALOG OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "coursesHome",
		Method:      http.MethodGet,
		Path:        "/courses/courses_home",
		Summary:     "Featured courses",
		Description: "Returns a random selection of sectors, each with a random selection of its courses",
		Tags:        []string{"catalog"},
	}, catalogHandler.CoursesHome)

	huma.Register(api, huma.Operation{
		OperationID: "courseSearch",
		Method:      http.MethodGet,
		Path:        "/courses/course_search",
		Summary:     "Courses of a sector",
		Description: "Lists every course in a sector together with the sector's total enrollment",
		Tags:        []string{"catalog"},
	}, catalogHandler.CourseSearch)

	huma.Register(api, huma.Operation{
		OperationID: "courseDetail",
		Method:      http.MethodGet,
		Path:        "/courses/course_detail/{course_uuid}",
		Summary:     "Course detail",
		Description: "Public course page without lecture files",
		Tags:        []string{"catalog"},
	}, catalogHandler.CourseDetail)

	huma.Register(api, huma.Operation{
		OperationID: "searchCourse",
		Method:      http.MethodGet,
		Path:        "/courses/search_course",
		Summary:     "Search courses",
		Description: "Case-insensitive match of the search term against course titles and descriptions",
		Tags:        []string{"catalog"},
	}, catalogHandler.SearchCourse)

	huma.Register(api, huma.Operation{
		OperationID: "getCartDetail",
		Method:      http.MethodPost,
		Path:        "/courses/get_cart_detail",
		Summary:     "Price a cart",
		Description: "Resolves the course identifiers of a cart and returns the items with their total",
		Tags:        []string{"catalog"},
	}, catalogHandler.GetCartDetail)

	huma.Register(api, huma.Operation{
		OperationID:   "addComment",
		Method:        http.MethodPost,
		Path:          "/courses/add_comment/{course_uuid}",
		Summary:       "Comment on a course",
		Tags:          []string{"catalog"},
		Security:      authenticated,
		DefaultStatus: http.StatusOK,
	}, catalogHandler.AddComment)

	// ========== STUDY & MANAGEMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "courseStudy",
		Method:      http.MethodGet,
		Path:        "/courses/course_study/{course_uuid}",
		Summary:     "Study a purchased course",
		Description: "Full course including lecture files; only for users who purchased it",
		Tags:        []string{"courses"},
		Security:    authenticated,
	}, courseHandler.CourseStudy)

	huma.Register(api, huma.Operation{
		OperationID: "listManagedCourses",
		Method:      http.MethodGet,
		Path:        "/courses/course_manage",
		Summary:     "List authored courses",
		Tags:        []string{"course-manage"},
		Security:    authenticated,
	}, courseHandler.ListManagedCourses)

	huma.Register(api, huma.Operation{
		OperationID: "listManagedCoursesAlias",
		Method:      http.MethodGet,
		Path:        "/courses/course_manage_course_list",
		Summary:     "List authored courses",
		Tags:        []string{"course-manage"},
		Security:    authenticated,
		Deprecated:  true,
	}, courseHandler.ListManagedCourses)

	huma.Register(api, huma.Operation{
		OperationID:   "createManagedCourse",
		Method:        http.MethodPost,
		Path:          "/courses/course_manage",
		Summary:       "Create a course",
		Description:   "Creates a course authored by the caller, including its sections and episodes",
		Tags:          []string{"course-manage"},
		Security:      authenticated,
		DefaultStatus: http.StatusCreated,
	}, courseHandler.CreateManagedCourse)

	huma.Register(api, huma.Operation{
		OperationID: "getManagedCourse",
		Method:      http.MethodGet,
		Path:        "/courses/course_manage/{course_uuid}",
		Summary:     "Get an authored course",
		Tags:        []string{"course-manage"},
		Security:    authenticated,
	}, courseHandler.GetManagedCourse)

	huma.Register(api, huma.Operation{
		OperationID: "replaceManagedCourse",
		Method:      http.MethodPut,
		Path:        "/courses/course_manage/{course_uuid}",
		Summary:     "Replace an authored course",
		Tags:        []string{"course-manage"},
		Security:    authenticated,
	}, courseHandler.ReplaceManagedCourse)

	huma.Register(api, huma.Operation{
		OperationID: "patchManagedCourse",
		Method:      http.MethodPatch,
		Path:        "/courses/course_manage/{course_uuid}",
		Summary:     "Update an authored course",
		Description: "Updates the fields present in the body; course_sections replaces every section when given",
		Tags:        []string{"course-manage"},
		Security:    authenticated,
	}, courseHandler.PatchManagedCourse)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteManagedCourse",
		Method:        http.MethodDelete,
		Path:          "/courses/course_manage/{course_uuid}",
		Summary:       "Delete an authored course",
		Tags:          []string{"course-manage"},
		Security:      authenticated,
		DefaultStatus: http.StatusNoContent,
	}, courseHandler.DeleteManagedCourse)

	huma.Register(api, huma.Operation{
		OperationID:  "uploadCourseImage",
		Method:       http.MethodPut,
		Path:         "/courses/course_manage/{course_uuid}/image",
		Summary:      "Upload a course image",
		Description:  "Stores the raw request body as the course cover image",
		Tags:         []string{"course-manage"},
		Security:     authenticated,
		MaxBodyBytes: 5 << 20,
	}, courseHandler.UploadCourseImage)

	// ========== USER & TOKEN OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "registerUser",
		Method:        http.MethodPost,
		Path:          "/auth/users/",
		Summary:       "Register",
		Tags:          []string{"users"},
		DefaultStatus: http.StatusCreated,
	}, userHandler.RegisterUser)

	huma.Register(api, huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/auth/users/me",
		Summary:     "Current user",
		Description: "Returns the caller's account and the identifiers of the courses they purchased",
		Tags:        []string{"users"},
		Security:    authenticated,
	}, userHandler.GetMe)

	huma.Register(api, huma.Operation{
		OperationID: "obtainToken",
		Method:      http.MethodPost,
		Path:        "/api/token/",
		Summary:     "Obtain a token pair",
		Tags:        []string{"auth"},
	}, authHandler.ObtainToken)

	huma.Register(api, huma.Operation{
		OperationID: "refreshToken",
		Method:      http.MethodPost,
		Path:        "/api/token/refresh/",
		Summary:     "Refresh an access token",
		Tags:        []string{"auth"},
	}, authHandler.RefreshToken)

	// ========== PAYMENT OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "checkout",
		Method:      http.MethodPost,
		Path:        "/payments/checkout",
		Summary:     "Start checkout",
		Description: "Enrolls free courses directly and creates a Stripe Checkout session for the rest",
		Tags:        []string{"payments"},
		Security:    authenticated,
	}, paymentHandler.Checkout)

	// Note: the Stripe webhook is mounted as a raw HTTP handler on the chi
	// router since signature checks need the exact request bytes.

	logger.Info().Int("total_paths", len(api.OpenAPI().Paths)).Msg("All operations registered successfully")
}
