package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a purchasable learning unit belonging to one sector
type Course struct {
	ID          int64           `db:"id"`
	CourseUUID  string          `db:"course_uuid"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Language    string          `db:"language"`
	Price       decimal.Decimal `db:"price"`
	Image       string          `db:"image"` // media object key
	SectorID    int64           `db:"sector_id"`
	SectorUUID  string          `db:"sector_uuid"`
	SectorName  string          `db:"sector_name"`
	AuthorID    string          `db:"author_id"`
	AuthorName  string          `db:"author_name"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`

	// EnrolledStudents is the number of users that purchased the course.
	EnrolledStudents int `db:"enrolled_students"`

	// Populated only by detail lookups.
	Sections []CourseSection `db:"-"`
	Comments []Comment       `db:"-"`
}

// CourseSection is an ordered chapter of a course
type CourseSection struct {
	ID            int64     `db:"id"`
	CourseID      int64     `db:"course_id"`
	SectionNumber int       `db:"section_number"`
	SectionTitle  string    `db:"section_title"`
	Episodes      []Episode `db:"-"`
}

// Episode is one lecture inside a section. File is premium content.
type Episode struct {
	ID          int64  `db:"id"`
	SectionID   int64  `db:"section_id"`
	EpisodeUUID string `db:"episode_uuid"`
	Title       string `db:"title"`
	File        string `db:"file"`   // media object key
	Length      int    `db:"length"` // seconds
}

// TotalLectures counts episodes across all sections.
func (c *Course) TotalLectures() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Episodes)
	}
	return n
}

// TotalLength sums episode lengths in seconds.
func (c *Course) TotalLength() int {
	total := 0
	for _, s := range c.Sections {
		for _, e := range s.Episodes {
			total += e.Length
		}
	}
	return total
}
