package dto

import "time"

// AuthorDTO is the public face of a course author
type AuthorDTO struct {
	Name string `json:"name"`
}

// CourseDisplayDTO is the compact card shown on the home page
type CourseDisplayDTO struct {
	CourseUUID string    `json:"course_uuid"`
	Title      string    `json:"title"`
	Author     AuthorDTO `json:"author"`
	Price      string    `json:"price" example:"19.99"`
	ImageURL   string    `json:"image_url"`
	StudentNo  int       `json:"student_no"`
}

// CourseListDTO is a course row in search results
type CourseListDTO struct {
	CourseUUID  string    `json:"course_uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Author      AuthorDTO `json:"author"`
	Price       string    `json:"price" example:"19.99"`
	ImageURL    string    `json:"image_url"`
	StudentNo   int       `json:"student_no"`
	SectorUUID  string    `json:"sector_uuid"`
	Updated     time.Time `json:"updated"`
}

// EpisodeUnpaidDTO omits the lecture file and identifier
type EpisodeUnpaidDTO struct {
	Title  string `json:"title"`
	Length int    `json:"length"`
}

type SectionUnpaidDTO struct {
	SectionNumber int                `json:"section_number"`
	SectionTitle  string             `json:"section_title"`
	Episodes      []EpisodeUnpaidDTO `json:"episodes"`
	TotalDuration int                `json:"total_duration"`
}

// CourseUnpaidDTO is the public course page. It must never carry episode
// files or identifiers.
type CourseUnpaidDTO struct {
	CourseUUID     string             `json:"course_uuid"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Language       string             `json:"language"`
	Author         AuthorDTO          `json:"author"`
	Price          string             `json:"price" example:"19.99"`
	ImageURL       string             `json:"image_url"`
	StudentNo      int                `json:"student_no"`
	SectorUUID     string             `json:"sector_uuid"`
	SectorName     string             `json:"sector_name"`
	CourseSections []SectionUnpaidDTO `json:"course_sections"`
	Comments       []CommentDTO       `json:"comments"`
	TotalLectures  int                `json:"total_lectures"`
	TotalLength    int                `json:"total_length"`
	Created        time.Time          `json:"created"`
	Updated        time.Time          `json:"updated"`
}

type EpisodePaidDTO struct {
	EpisodeUUID string `json:"episode_uuid"`
	Title       string `json:"title"`
	File        string `json:"file"`
	Length      int    `json:"length"`
}

type SectionPaidDTO struct {
	SectionNumber int              `json:"section_number"`
	SectionTitle  string           `json:"section_title"`
	Episodes      []EpisodePaidDTO `json:"episodes"`
	TotalDuration int              `json:"total_duration"`
}

// CoursePaidDTO is the full course including lecture files
type CoursePaidDTO struct {
	CourseUUID     string           `json:"course_uuid"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Language       string           `json:"language"`
	Author         AuthorDTO        `json:"author"`
	Price          string           `json:"price" example:"19.99"`
	ImageURL       string           `json:"image_url"`
	StudentNo      int              `json:"student_no"`
	SectorUUID     string           `json:"sector_uuid"`
	SectorName     string           `json:"sector_name"`
	CourseSections []SectionPaidDTO `json:"course_sections"`
	Comments       []CommentDTO     `json:"comments"`
	TotalLectures  int              `json:"total_lectures"`
	TotalLength    int              `json:"total_length"`
	Created        time.Time        `json:"created"`
	Updated        time.Time        `json:"updated"`
}

type EpisodeWriteDTO struct {
	Title  string `json:"title" validate:"required,max=225"`
	File   string `json:"file,omitempty"`
	Length int    `json:"length,omitempty" validate:"gte=0"`
}

type SectionWriteDTO struct {
	SectionNumber int               `json:"section_number" validate:"gte=0"`
	SectionTitle  string            `json:"section_title" validate:"required,max=225"`
	Episodes      []EpisodeWriteDTO `json:"episodes,omitempty" validate:"dive"`
}

// CourseWriteDTO creates or fully replaces an authored course
type CourseWriteDTO struct {
	Title          string            `json:"title" validate:"required,max=225"`
	Description    string            `json:"description,omitempty"`
	Language       string            `json:"language,omitempty" validate:"max=225"`
	Price          string            `json:"price" validate:"required" example:"19.99"`
	SectorUUID     string            `json:"sector_uuid" validate:"required"`
	CourseSections []SectionWriteDTO `json:"course_sections,omitempty" validate:"dive"`
}

// CoursePatchDTO updates only the fields present
type CoursePatchDTO struct {
	Title          *string           `json:"title,omitempty" validate:"omitempty,min=1,max=225"`
	Description    *string           `json:"description,omitempty"`
	Language       *string           `json:"language,omitempty" validate:"omitempty,max=225"`
	Price          *string           `json:"price,omitempty" example:"19.99"`
	SectorUUID     *string           `json:"sector_uuid,omitempty"`
	CourseSections []SectionWriteDTO `json:"course_sections,omitempty" validate:"omitempty,dive"`
}
