package service

import (
	"context"
	"errors"
	"math/rand/v2"

	"coursehub/internal/model"
	"coursehub/internal/repository"
	"coursehub/internal/util"

	"github.com/google/uuid"
)

const (
	homeSectorLimit = 6
	homeCourseLimit = 4
)

var (
	ErrCourseNotFound = errors.New("course does not exist")
	ErrSectorNotFound = errors.New("course sector does not exist")
)

// FeaturedSector is one sector on the home page with its sampled courses
type FeaturedSector struct {
	Sector  model.Sector
	Courses []model.Course
}

// SectorCourses is every course of a sector plus the enrollment total
type SectorCourses struct {
	Sector        model.Sector
	Courses       []model.Course
	TotalStudents int
}

// CatalogService serves the public, read-only course catalog
type CatalogService interface {
	// Home samples up to 6 sectors with up to 4 courses each
	Home(ctx context.Context) ([]FeaturedSector, error)
	SearchBySector(ctx context.Context, sectorUUID string) (*SectorCourses, error)
	Search(ctx context.Context, term string) ([]model.Course, error)
	// Detail returns the course with sections, episodes and comments
	Detail(ctx context.Context, courseUUID string) (*model.Course, error)
}

type catalogService struct {
	sectorRepo repository.SectorRepository
	courseRepo repository.CourseRepository
	sample     func(n int) int
}

func NewCatalogService(sectorRepo repository.SectorRepository, courseRepo repository.CourseRepository) CatalogService {
	return &catalogService{sectorRepo: sectorRepo, courseRepo: courseRepo, sample: rand.IntN}
}

// isUUID guards the uuid-typed columns from malformed identifiers.
func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func (s *catalogService) Home(ctx context.Context) ([]FeaturedSector, error) {
	sectors, err := s.sectorRepo.ListSectors(ctx)
	if err != nil {
		return nil, err
	}
	sectors = util.SampleWith(s.sample, sectors, homeSectorLimit)
	if len(sectors) == 0 {
		return []FeaturedSector{}, nil
	}

	ids := make([]int64, len(sectors))
	for i, sec := range sectors {
		ids[i] = sec.ID
	}
	bySector, err := s.courseRepo.ListCoursesBySectorIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	featured := make([]FeaturedSector, 0, len(sectors))
	for _, sec := range sectors {
		featured = append(featured, FeaturedSector{
			Sector:  sec,
			Courses: util.SampleWith(s.sample, bySector[sec.ID], homeCourseLimit),
		})
	}
	return featured, nil
}

func (s *catalogService) SearchBySector(ctx context.Context, sectorUUID string) (*SectorCourses, error) {
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
	bySector, err := s.courseRepo.ListCoursesBySectorIDs(ctx, []int64{sector.ID})
	if err != nil {
		return nil, err
	}
	courses := bySector[sector.ID]
	if courses == nil {
		courses = []model.Course{}
	}
	total := 0
	for _, c := range courses {
		total += c.EnrolledStudents
	}
	return &SectorCourses{Sector: *sector, Courses: courses, TotalStudents: total}, nil
}

func (s *catalogService) Search(ctx context.Context, term string) ([]model.Course, error) {
	return s.courseRepo.SearchCourses(ctx, term)
}

func (s *catalogService) Detail(ctx context.Context, courseUUID string) (*model.Course, error) {
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
	return c, nil
}
