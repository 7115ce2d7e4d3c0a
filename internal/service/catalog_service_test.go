package service

import (
	"context"
	"fmt"
	"testing"

	"coursehub/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCatalog creates n sectors with perSector courses each.
func seedCatalog(s *store, n, perSector int) []model.Sector {
	sectors := make([]model.Sector, 0, n)
	for i := 0; i < n; i++ {
		sec := s.addSector(uuid.NewString(), fmt.Sprintf("Sector %d", i))
		for j := 0; j < perSector; j++ {
			s.addCourse(model.Course{
				CourseUUID: uuid.NewString(),
				Title:      fmt.Sprintf("Course %d.%d", i, j),
				Price:      decimal.RequireFromString("9.99"),
				SectorID:   sec.ID,
				AuthorID:   "author",
			})
		}
		sectors = append(sectors, sec)
	}
	return sectors
}

func TestCatalogHomeBounds(t *testing.T) {
	s := newStore()
	seedCatalog(s, 9, 7)
	svc := NewCatalogService(fakeSectorRepo{s}, fakeCourseRepo{s})

	for i := 0; i < 20; i++ {
		home, err := svc.Home(context.Background())
		require.NoError(t, err)
		require.Len(t, home, 6)

		seen := map[string]bool{}
		for _, fs := range home {
			assert.False(t, seen[fs.Sector.SectorUUID], "sector sampled twice")
			seen[fs.Sector.SectorUUID] = true
			assert.Len(t, fs.Courses, 4)
			for _, c := range fs.Courses {
				assert.Equal(t, fs.Sector.ID, c.SectorID)
			}
		}
	}
}

func TestCatalogHomeSmallCatalog(t *testing.T) {
	s := newStore()
	seedCatalog(s, 2, 1)
	s.addSector(uuid.NewString(), "Empty")
	svc := NewCatalogService(fakeSectorRepo{s}, fakeCourseRepo{s})

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	require.Len(t, home, 3)
	for _, fs := range home {
		assert.NotNil(t, fs.Courses)
		assert.LessOrEqual(t, len(fs.Courses), 1)
	}

	empty := NewCatalogService(fakeSectorRepo{newStore()}, fakeCourseRepo{newStore()})
	home, err = empty.Home(context.Background())
	require.NoError(t, err)
	assert.Empty(t, home)
}

func TestCatalogSearchBySector(t *testing.T) {
	s := newStore()
	sectors := seedCatalog(s, 2, 3)
	users := fakeUserRepo{s}
	bySector, _ := fakeCourseRepo{s}.ListCoursesBySectorIDs(context.Background(), []int64{sectors[0].ID})
	first := bySector[sectors[0].ID]
	require.NoError(t, users.AddPaidCourses(context.Background(), "u1", []int64{first[0].ID, first[1].ID}))
	require.NoError(t, users.AddPaidCourses(context.Background(), "u2", []int64{first[0].ID}))

	svc := NewCatalogService(fakeSectorRepo{s}, fakeCourseRepo{s})
	got, err := svc.SearchBySector(context.Background(), sectors[0].SectorUUID)
	require.NoError(t, err)
	assert.Equal(t, "Sector 0", got.Sector.Name)
	assert.Len(t, got.Courses, 3)
	assert.Equal(t, 3, got.TotalStudents)

	sum := 0
	for _, c := range got.Courses {
		assert.Equal(t, sectors[0].SectorUUID, c.SectorUUID)
		sum += c.EnrolledStudents
	}
	assert.Equal(t, sum, got.TotalStudents)
}

func TestCatalogSearchBySectorMissing(t *testing.T) {
	s := newStore()
	seedCatalog(s, 1, 1)
	svc := NewCatalogService(fakeSectorRepo{s}, fakeCourseRepo{s})

	for _, id := range []string{"", "not-a-uuid", uuid.NewString()} {
		_, err := svc.SearchBySector(context.Background(), id)
		assert.ErrorIs(t, err, ErrSectorNotFound, id)
	}
}

func TestCatalogSearchBySectorWithoutCourses(t *testing.T) {
	s := newStore()
	sec := s.addSector(uuid.NewString(), "Empty")
	svc := NewCatalogService(fakeSectorRepo{s}, fakeCourseRepo{s})

	got, err := svc.SearchBySector(context.Background(), sec.SectorUUID)
	require.NoError(t, err)
	assert.NotNil(t, got.Courses)
	assert.Empty(t, got.Courses)
	assert.Zero(t, got.TotalStudents)
}

func TestCatalogDetail(t *testing.T) {
	s := newStore()
	seedCatalog(s, 1, 1)
	course := s.courses[0]
	svc := NewCatalogService(fakeSectorRepo{s}, fakeCourseRepo{s})

	got, err := svc.Detail(context.Background(), course.CourseUUID)
	require.NoError(t, err)
	assert.Equal(t, course.Title, got.Title)

	_, err = svc.Detail(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = svc.Detail(context.Background(), "42")
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestCartDetail(t *testing.T) {
	s := newStore()
	sec := s.addSector(uuid.NewString(), "Web")
	a := s.addCourse(model.Course{CourseUUID: uuid.NewString(), Title: "A", Price: decimal.RequireFromString("10.00"), SectorID: sec.ID})
	b := s.addCourse(model.Course{CourseUUID: uuid.NewString(), Title: "B", Price: decimal.RequireFromString("5.50"), SectorID: sec.ID})
	svc := NewCartService(fakeCourseRepo{s})

	t.Run("empty cart", func(t *testing.T) {
		cart, err := svc.Detail(context.Background(), []string{})
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.NotNil(t, cart.Items)
		assert.Equal(t, "0.00", cart.Total.StringFixed(2))
	})

	t.Run("exact total", func(t *testing.T) {
		cart, err := svc.Detail(context.Background(), []string{a.CourseUUID, b.CourseUUID})
		require.NoError(t, err)
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, "15.50", cart.Total.StringFixed(2))
	})

	t.Run("unknown, malformed and repeated ids are skipped", func(t *testing.T) {
		cart, err := svc.Detail(context.Background(), []string{a.CourseUUID, "bogus", uuid.NewString(), a.CourseUUID})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "10.00", cart.Total.StringFixed(2))
	})
}

func TestSumPricesHasNoFloatDrift(t *testing.T) {
	courses := make([]model.Course, 10)
	for i := range courses {
		courses[i].Price = decimal.RequireFromString("0.10")
	}
	assert.Equal(t, "1.00", sumPrices(courses).StringFixed(2))
}
