package operation

import "coursehub/internal/api/v1/dto"

// Catalog

type CoursesHomeInput struct{}

type CoursesHomeOutput struct {
	Body []dto.SectorHomeDTO `json:"body"`
}

type CourseSearchInput struct {
	SectorUUID string `query:"sector_uuid" doc:"Sector identifier"`
}

type CourseSearchOutput struct {
	Body dto.SectorCoursesDTO `json:"body"`
}

type CourseDetailInput struct {
	CourseUUID string `path:"course_uuid" doc:"Course identifier"`
}

type CourseDetailOutput struct {
	Body dto.CourseUnpaidDTO `json:"body"`
}

type CourseStudyInput struct {
	CourseUUID string `path:"course_uuid" doc:"Course identifier"`
}

type CourseStudyOutput struct {
	Body dto.CoursePaidDTO `json:"body"`
}

type SearchCourseInput struct {
	SearchTerm string `query:"search_term" doc:"Case-insensitive text matched against title and description"`
}

type SearchCourseOutput struct {
	Body []dto.CourseListDTO `json:"body"`
}

type GetCartDetailInput struct {
	Body dto.CartRequestDTO `json:"body"`
}

type GetCartDetailOutput struct {
	Body dto.CartDetailDTO `json:"body"`
}

type AddCommentInput struct {
	CourseUUID string               `path:"course_uuid" doc:"Course identifier"`
	Body       dto.CommentCreateDTO `json:"body"`
}

type AddCommentOutput struct{}

// Course management

type ListManagedCoursesInput struct{}

type ListManagedCoursesOutput struct {
	Body []dto.CoursePaidDTO `json:"body"`
}

type CreateManagedCourseInput struct {
	Body dto.CourseWriteDTO `json:"body"`
}

type ManagedCourseOutput struct {
	Body dto.CoursePaidDTO `json:"body"`
}

type GetManagedCourseInput struct {
	CourseUUID string `path:"course_uuid" doc:"Course identifier"`
}

type ReplaceManagedCourseInput struct {
	CourseUUID string             `path:"course_uuid" doc:"Course identifier"`
	Body       dto.CourseWriteDTO `json:"body"`
}

type PatchManagedCourseInput struct {
	CourseUUID string             `path:"course_uuid" doc:"Course identifier"`
	Body       dto.CoursePatchDTO `json:"body"`
}

type DeleteManagedCourseInput struct {
	CourseUUID string `path:"course_uuid" doc:"Course identifier"`
}

type DeleteManagedCourseOutput struct {
	// 204 No Content
}

type UploadCourseImageInput struct {
	CourseUUID  string `path:"course_uuid" doc:"Course identifier"`
	ContentType string `header:"Content-Type" doc:"Image media type, e.g. image/png"`
	RawBody     []byte `contentType:"image/*"`
}
