package handler

import (
	"coursehub/internal/api/v1/dto"
	"coursehub/internal/model"
)

// presenter maps models to the serializer variant of each endpoint. Media
// keys are resolved to absolute URLs on the way out.
type presenter struct {
	mediaURL func(key string) string
}

func price(c *model.Course) string {
	return c.Price.StringFixed(2)
}

func (p presenter) courseDisplay(c *model.Course) dto.CourseDisplayDTO {
	return dto.CourseDisplayDTO{
		CourseUUID: c.CourseUUID,
		Title:      c.Title,
		Author:     dto.AuthorDTO{Name: c.AuthorName},
		Price:      price(c),
		ImageURL:   p.mediaURL(c.Image),
		StudentNo:  c.EnrolledStudents,
	}
}

func (p presenter) courseList(courses []model.Course) []dto.CourseListDTO {
	out := make([]dto.CourseListDTO, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		out = append(out, dto.CourseListDTO{
			CourseUUID:  c.CourseUUID,
			Title:       c.Title,
			Description: c.Description,
			Language:    c.Language,
			Author:      dto.AuthorDTO{Name: c.AuthorName},
			Price:       price(c),
			ImageURL:    p.mediaURL(c.Image),
			StudentNo:   c.EnrolledStudents,
			SectorUUID:  c.SectorUUID,
			Updated:     c.UpdatedAt,
		})
	}
	return out
}

func (p presenter) comments(comments []model.Comment) []dto.CommentDTO {
	out := make([]dto.CommentDTO, 0, len(comments))
	for _, cm := range comments {
		out = append(out, dto.CommentDTO{
			ID:      cm.ID,
			User:    dto.AuthorDTO{Name: cm.UserName},
			Message: cm.Message,
			Created: cm.CreatedAt,
		})
	}
	return out
}

func sectionLength(s *model.CourseSection) int {
	total := 0
	for _, e := range s.Episodes {
		total += e.Length
	}
	return total
}

func (p presenter) courseUnpaid(c *model.Course) dto.CourseUnpaidDTO {
	sections := make([]dto.SectionUnpaidDTO, 0, len(c.Sections))
	for i := range c.Sections {
		s := &c.Sections[i]
		episodes := make([]dto.EpisodeUnpaidDTO, 0, len(s.Episodes))
		for _, e := range s.Episodes {
			episodes = append(episodes, dto.EpisodeUnpaidDTO{Title: e.Title, Length: e.Length})
		}
		sections = append(sections, dto.SectionUnpaidDTO{
			SectionNumber: s.SectionNumber,
			SectionTitle:  s.SectionTitle,
			Episodes:      episodes,
			TotalDuration: sectionLength(s),
		})
	}
	return dto.CourseUnpaidDTO{
		CourseUUID:     c.CourseUUID,
		Title:          c.Title,
		Description:    c.Description,
		Language:       c.Language,
		Author:         dto.AuthorDTO{Name: c.AuthorName},
		Price:          price(c),
		ImageURL:       p.mediaURL(c.Image),
		StudentNo:      c.EnrolledStudents,
		SectorUUID:     c.SectorUUID,
		SectorName:     c.SectorName,
		CourseSections: sections,
		Comments:       p.comments(c.Comments),
		TotalLectures:  c.TotalLectures(),
		TotalLength:    c.TotalLength(),
		Created:        c.CreatedAt,
		Updated:        c.UpdatedAt,
	}
}

func (p presenter) coursePaid(c *model.Course) dto.CoursePaidDTO {
	sections := make([]dto.SectionPaidDTO, 0, len(c.Sections))
	for i := range c.Sections {
		s := &c.Sections[i]
		episodes := make([]dto.EpisodePaidDTO, 0, len(s.Episodes))
		for _, e := range s.Episodes {
			episodes = append(episodes, dto.EpisodePaidDTO{
				EpisodeUUID: e.EpisodeUUID,
				Title:       e.Title,
				File:        p.mediaURL(e.File),
				Length:      e.Length,
			})
		}
		sections = append(sections, dto.SectionPaidDTO{
			SectionNumber: s.SectionNumber,
			SectionTitle:  s.SectionTitle,
			Episodes:      episodes,
			TotalDuration: sectionLength(s),
		})
	}
	return dto.CoursePaidDTO{
		CourseUUID:     c.CourseUUID,
		Title:          c.Title,
		Description:    c.Description,
		Language:       c.Language,
		Author:         dto.AuthorDTO{Name: c.AuthorName},
		Price:          price(c),
		ImageURL:       p.mediaURL(c.Image),
		StudentNo:      c.EnrolledStudents,
		SectorUUID:     c.SectorUUID,
		SectorName:     c.SectorName,
		CourseSections: sections,
		Comments:       p.comments(c.Comments),
		TotalLectures:  c.TotalLectures(),
		TotalLength:    c.TotalLength(),
		Created:        c.CreatedAt,
		Updated:        c.UpdatedAt,
	}
}

func (p presenter) cartItems(courses []model.Course) []dto.CartItemDTO {
	out := make([]dto.CartItemDTO, 0, len(courses))
	for i := range courses {
		c := &courses[i]
		out = append(out, dto.CartItemDTO{
			CourseUUID: c.CourseUUID,
			Title:      c.Title,
			Author:     dto.AuthorDTO{Name: c.AuthorName},
			Price:      price(c),
			ImageURL:   p.mediaURL(c.Image),
		})
	}
	return out
}

func userResponse(u *model.User, paid []string) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		UserID:      u.UserID,
		Email:       u.Email,
		Name:        u.Name,
		IsAuthor:    u.IsAuthor,
		IsStaff:     u.IsStaff,
		Created:     u.CreatedAt,
		PaidCourses: paid,
	}
}
