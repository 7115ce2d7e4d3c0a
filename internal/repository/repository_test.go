package repository

import (
	"context"
	"testing"
	"time"

	"coursehub/internal/database"
	"coursehub/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// newTestPool starts a throwaway Postgres, migrates it and returns a pool.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("coursehub"),
		postgres.WithUsername("coursehub"),
		postgres.WithPassword("coursehub"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.MigrateUp(dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, repo UserRepository, email string) *model.User {
	t.Helper()
	u := &model.User{UserID: uuid.NewString(), Email: email, Name: email, PasswordHash: "x", IsActive: true, IsAuthor: true}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func seedSector(t *testing.T, pool *pgxpool.Pool, name string) *model.Sector {
	t.Helper()
	s := &model.Sector{SectorUUID: uuid.NewString(), Name: name, SectorImage: "sectors/" + name + ".png"}
	err := pool.QueryRow(context.Background(),
		`INSERT INTO sectors (sector_uuid, name, sector_image) VALUES ($1, $2, $3) RETURNING id`,
		s.SectorUUID, s.Name, s.SectorImage).Scan(&s.ID)
	require.NoError(t, err)
	return s
}

func seedCourse(t *testing.T, repo CourseRepository, author *model.User, sector *model.Sector, title, description, price string) *model.Course {
	t.Helper()
	c := &model.Course{
		CourseUUID:  uuid.NewString(),
		Title:       title,
		Description: description,
		Language:    "English",
		Price:       decimal.RequireFromString(price),
		SectorID:    sector.ID,
		AuthorID:    author.UserID,
		Sections: []model.CourseSection{
			{SectionNumber: 2, SectionTitle: "Advanced", Episodes: []model.Episode{
				{EpisodeUUID: uuid.NewString(), Title: "Deep dive", File: "videos/deep.mp4", Length: 300},
			}},
			{SectionNumber: 1, SectionTitle: "Intro", Episodes: []model.Episode{
				{EpisodeUUID: uuid.NewString(), Title: "Welcome", File: "videos/welcome.mp4", Length: 60},
				{EpisodeUUID: uuid.NewString(), Title: "Setup", File: "videos/setup.mp4", Length: 120},
			}},
		},
	}
	require.NoError(t, repo.CreateCourse(context.Background(), c))
	return c
}

func TestRepositories(t *testing.T) {
	pool := newTestPool(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := NewUserRepo(pool)
	courses := NewCourseRepo(pool)
	sectors := NewSectorRepo(pool)
	comments := NewCommentRepo(pool)

	alice := seedUser(t, users, "alice@example.com")
	bob := seedUser(t, users, "bob@example.com")
	buyer := seedUser(t, users, "buyer@example.com")
	web := seedSector(t, pool, "Web")
	data := seedSector(t, pool, "Data")

	goCourse := seedCourse(t, courses, alice, web, "Go for the Web", "Build APIs", "10.00")
	sqlCourse := seedCourse(t, courses, alice, data, "SQL basics", "100% practical queries", "5.50")
	bobCourse := seedCourse(t, courses, bob, web, "Rust services", "Systems programming", "20.00")

	t.Run("duplicate email", func(t *testing.T) {
		dup := &model.User{UserID: uuid.NewString(), Email: "alice@example.com", PasswordHash: "x"}
		assert.ErrorIs(t, users.CreateUser(ctx, dup), ErrDuplicateEmail)
	})

	t.Run("sectors", func(t *testing.T) {
		all, err := sectors.ListSectors(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		got, err := sectors.GetSectorByUUID(ctx, web.SectorUUID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Web", got.Name)

		missing, err := sectors.GetSectorByUUID(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("courses by sector", func(t *testing.T) {
		bySector, err := courses.ListCoursesBySectorIDs(ctx, []int64{web.ID, data.ID})
		require.NoError(t, err)
		assert.Len(t, bySector[web.ID], 2)
		assert.Len(t, bySector[data.ID], 1)
		for _, c := range bySector[web.ID] {
			assert.Equal(t, web.SectorUUID, c.SectorUUID)
		}
	})

	t.Run("detail orders sections and keeps exact price", func(t *testing.T) {
		c, err := courses.GetCourseDetail(ctx, goCourse.CourseUUID)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "10.00", c.Price.StringFixed(2))
		require.Len(t, c.Sections, 2)
		assert.Equal(t, "Intro", c.Sections[0].SectionTitle)
		require.Len(t, c.Sections[0].Episodes, 2)
		assert.Equal(t, "Welcome", c.Sections[0].Episodes[0].Title)
		assert.Equal(t, 480, c.TotalLength())
		assert.Equal(t, "alice@example.com", c.AuthorName)
	})

	t.Run("search is case insensitive and literal", func(t *testing.T) {
		found, err := courses.SearchCourses(ctx, "go FOR")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, goCourse.CourseUUID, found[0].CourseUUID)

		found, err = courses.SearchCourses(ctx, "100%")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, sqlCourse.CourseUUID, found[0].CourseUUID)

		found, err = courses.SearchCourses(ctx, "%")
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("author scoping", func(t *testing.T) {
		own, err := courses.ListCoursesByAuthor(ctx, alice.UserID)
		require.NoError(t, err)
		assert.Len(t, own, 2)
		for _, c := range own {
			assert.Equal(t, alice.UserID, c.AuthorID)
		}

		other, err := courses.GetAuthorCourse(ctx, alice.UserID, bobCourse.CourseUUID)
		require.NoError(t, err)
		assert.Nil(t, other)

		deleted, err := courses.DeleteAuthorCourse(ctx, alice.UserID, bobCourse.CourseUUID)
		require.NoError(t, err)
		assert.False(t, deleted)

		updated, err := courses.UpdateAuthorCourseImage(ctx, alice.UserID, bobCourse.CourseUUID, "x.png")
		require.NoError(t, err)
		assert.False(t, updated)
	})

	t.Run("update replaces sections", func(t *testing.T) {
		c := *goCourse
		c.Title = "Go for the Web, 2nd edition"
		c.Sections = []model.CourseSection{{SectionNumber: 1, SectionTitle: "Only", Episodes: []model.Episode{}}}
		ok, err := courses.UpdateAuthorCourse(ctx, &c)
		require.NoError(t, err)
		require.True(t, ok)

		got, err := courses.GetAuthorCourse(ctx, alice.UserID, goCourse.CourseUUID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Go for the Web, 2nd edition", got.Title)
		require.Len(t, got.Sections, 1)
		assert.Empty(t, got.Sections[0].Episodes)

		c.AuthorID = bob.UserID
		ok, err = courses.UpdateAuthorCourse(ctx, &c)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("purchases and enrollment", func(t *testing.T) {
		require.NoError(t, users.AddPaidCourses(ctx, buyer.UserID, []int64{goCourse.ID, sqlCourse.ID}))
		require.NoError(t, users.AddPaidCourses(ctx, buyer.UserID, []int64{goCourse.ID}))

		paid, err := users.GetPaidCourseUUIDs(ctx, buyer.UserID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{goCourse.CourseUUID, sqlCourse.CourseUUID}, paid)

		has, err := users.HasPaidCourse(ctx, buyer.UserID, goCourse.ID)
		require.NoError(t, err)
		assert.True(t, has)
		has, err = users.HasPaidCourse(ctx, buyer.UserID, bobCourse.ID)
		require.NoError(t, err)
		assert.False(t, has)

		got, err := courses.GetCoursesByUUIDs(ctx, []string{goCourse.CourseUUID, bobCourse.CourseUUID})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].EnrolledStudents)
		assert.Equal(t, 0, got[1].EnrolledStudents)
	})

	t.Run("comments", func(t *testing.T) {
		cm := &model.Comment{CourseID: sqlCourse.ID, UserID: buyer.UserID, Message: "Great course"}
		require.NoError(t, comments.CreateComment(ctx, cm))
		assert.NotZero(t, cm.ID)

		list, err := comments.ListCommentsByCourse(ctx, sqlCourse.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "buyer@example.com", list[0].UserName)

		detail, err := courses.GetCourseDetail(ctx, sqlCourse.CourseUUID)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 1)
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\o/`, escapeLike(`50% off_now \o/`))
}
