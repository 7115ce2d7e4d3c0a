package dto

import "time"

// SectorHomeDTO is one sector on the home page
type SectorHomeDTO struct {
	SectorName      string             `json:"sector_name"`
	SectorUUID      string             `json:"sector_uuid"`
	FeaturedCourses []CourseDisplayDTO `json:"featured_courses"`
	SectorImage     string             `json:"sector_image"`
}

// SectorCoursesDTO lists every course of a sector
type SectorCoursesDTO struct {
	Data          []CourseListDTO `json:"data"`
	SectorName    string          `json:"sector_name"`
	TotalStudents int             `json:"total_students"`
	Image         string          `json:"image"`
}

type CartRequestDTO struct {
	Cart []string `json:"cart" doc:"Course identifiers"`
}

type CartItemDTO struct {
	CourseUUID string    `json:"course_uuid"`
	Title      string    `json:"title"`
	Author     AuthorDTO `json:"author"`
	Price      string    `json:"price" example:"19.99"`
	ImageURL   string    `json:"image_url"`
}

type CartDetailDTO struct {
	CartDetail []CartItemDTO `json:"cart_detail"`
	CartTotal  string        `json:"cart_total" example:"15.50"`
}

type CommentDTO struct {
	ID      int64     `json:"id"`
	User    AuthorDTO `json:"user"`
	Message string    `json:"message"`
	Created time.Time `json:"created"`
}

// CommentCreateDTO leaves message optional in the schema so an empty or
// missing message is reported by the handler.
type CommentCreateDTO struct {
	Message string `json:"message,omitempty" maxLength:"10000"`
}
