package service

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/repository"
)

// store is an in-memory stand-in for the Postgres repositories.
type store struct {
	mu       sync.Mutex
	users    map[string]*model.User
	sectors  []model.Sector
	courses  []*model.Course
	comments []model.Comment
	paid     map[string][]int64
	nextID   int64
}

func newStore() *store {
	return &store{users: map[string]*model.User{}, paid: map[string][]int64{}}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addSector(uuid, name string) model.Sector {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := model.Sector{ID: s.id(), SectorUUID: uuid, Name: name, SectorImage: "sectors/" + name + ".png"}
	s.sectors = append(s.sectors, sec)
	return sec
}

func (s *store) addCourse(c model.Course) *model.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	for _, sec := range s.sectors {
		if sec.ID == c.SectorID {
			c.SectorUUID = sec.SectorUUID
			c.SectorName = sec.Name
		}
	}
	cp := c
	s.courses = append(s.courses, &cp)
	return &cp
}

func (s *store) enrolled(courseID int64) int {
	n := 0
	for _, ids := range s.paid {
		for _, id := range ids {
			if id == courseID {
				n++
			}
		}
	}
	return n
}

func (s *store) snapshot(c *model.Course) model.Course {
	out := *c
	out.EnrolledStudents = s.enrolled(c.ID)
	out.Comments = []model.Comment{}
	for _, cm := range s.comments {
		if cm.CourseID == c.ID {
			out.Comments = append(out.Comments, cm)
		}
	}
	return out
}

type fakeSectorRepo struct{ s *store }

func (r fakeSectorRepo) ListSectors(ctx context.Context) ([]model.Sector, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]model.Sector{}, r.s.sectors...), nil
}

func (r fakeSectorRepo) GetSectorByUUID(ctx context.Context, sectorUUID string) (*model.Sector, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sec := range r.s.sectors {
		if sec.SectorUUID == sectorUUID {
			out := sec
			return &out, nil
		}
	}
	return nil, nil
}

type fakeCourseRepo struct{ s *store }

func (r fakeCourseRepo) filter(keep func(c *model.Course) bool) []model.Course {
	out := []model.Course{}
	for _, c := range r.s.courses {
		if keep(c) {
			out = append(out, r.s.snapshot(c))
		}
	}
	return out
}

func (r fakeCourseRepo) find(keep func(c *model.Course) bool) *model.Course {
	for _, c := range r.s.courses {
		if keep(c) {
			out := r.s.snapshot(c)
			return &out
		}
	}
	return nil
}

func (r fakeCourseRepo) ListCoursesBySectorIDs(ctx context.Context, sectorIDs []int64) (map[int64][]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[int64][]model.Course{}
	for _, id := range sectorIDs {
		sectorID := id
		if courses := r.filter(func(c *model.Course) bool { return c.SectorID == sectorID }); len(courses) > 0 {
			out[id] = courses
		}
	}
	return out, nil
}

func (r fakeCourseRepo) GetCourseByUUID(ctx context.Context, courseUUID string) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(c *model.Course) bool { return c.CourseUUID == courseUUID }), nil
}

func (r fakeCourseRepo) GetCourseDetail(ctx context.Context, courseUUID string) (*model.Course, error) {
	return r.GetCourseByUUID(ctx, courseUUID)
}

func (r fakeCourseRepo) GetCoursesByUUIDs(ctx context.Context, courseUUIDs []string) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[string]bool{}
	for _, id := range courseUUIDs {
		want[strings.ToLower(id)] = true
	}
	return r.filter(func(c *model.Course) bool { return want[c.CourseUUID] }), nil
}

func (r fakeCourseRepo) SearchCourses(ctx context.Context, term string) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	term = strings.ToLower(term)
	return r.filter(func(c *model.Course) bool {
		return strings.Contains(strings.ToLower(c.Title), term) || strings.Contains(strings.ToLower(c.Description), term)
	}), nil
}

func (r fakeCourseRepo) ListCoursesByAuthor(ctx context.Context, authorID string) ([]model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.filter(func(c *model.Course) bool { return c.AuthorID == authorID }), nil
}

func (r fakeCourseRepo) GetAuthorCourse(ctx context.Context, authorID, courseUUID string) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(func(c *model.Course) bool { return c.AuthorID == authorID && c.CourseUUID == courseUUID }), nil
}

func (r fakeCourseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	created := r.s.addCourse(*c)
	c.ID = created.ID
	return nil
}

func (r fakeCourseRepo) UpdateAuthorCourse(ctx context.Context, c *model.Course) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.courses {
		if existing.CourseUUID == c.CourseUUID && existing.AuthorID == c.AuthorID {
			sections := existing.Sections
			if c.Sections != nil {
				sections = c.Sections
			}
			*existing = *c
			existing.Sections = sections
			existing.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCourseRepo) UpdateAuthorCourseImage(ctx context.Context, authorID, courseUUID, image string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.courses {
		if existing.CourseUUID == courseUUID && existing.AuthorID == authorID {
			existing.Image = image
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCourseRepo) DeleteAuthorCourse(ctx context.Context, authorID, courseUUID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, existing := range r.s.courses {
		if existing.CourseUUID == courseUUID && existing.AuthorID == authorID {
			r.s.courses = append(r.s.courses[:i], r.s.courses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeCommentRepo struct{ s *store }

func (r fakeCommentRepo) CreateComment(ctx context.Context, c *model.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.id()
	c.CreatedAt = time.Now()
	if u, ok := r.s.users[c.UserID]; ok {
		c.UserName = u.Name
	}
	r.s.comments = append(r.s.comments, *c)
	return nil
}

func (r fakeCommentRepo) ListCommentsByCourse(ctx context.Context, courseID int64) ([]model.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []model.Comment{}
	for _, cm := range r.s.comments {
		if cm.CourseID == courseID {
			out = append(out, cm)
		}
	}
	return out, nil
}

type fakeUserRepo struct{ s *store }

func (r fakeUserRepo) CreateUser(ctx context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.s.users[u.UserID] = &cp
	return nil
}

func (r fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) GetPaidCourseUUIDs(ctx context.Context, userID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []string{}
	for _, id := range r.s.paid[userID] {
		for _, c := range r.s.courses {
			if c.ID == id {
				out = append(out, c.CourseUUID)
			}
		}
	}
	return out, nil
}

func (r fakeUserRepo) HasPaidCourse(ctx context.Context, userID string, courseID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range r.s.paid[userID] {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeUserRepo) AddPaidCourses(ctx context.Context, userID string, courseIDs []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	have := map[int64]bool{}
	for _, id := range r.s.paid[userID] {
		have[id] = true
	}
	for _, id := range courseIDs {
		if !have[id] {
			r.s.paid[userID] = append(r.s.paid[userID], id)
			have[id] = true
		}
	}
	sort.Slice(r.s.paid[userID], func(i, j int) bool { return r.s.paid[userID][i] < r.s.paid[userID][j] })
	return nil
}

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *fakeMedia) Put(ctx context.Context, key, contentType string, body io.Reader) error {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	m.types[key] = contentType
	return nil
}

func (m *fakeMedia) URL(key string) string {
	return MediaURL("https://media.test", key)
}

type publishedMessage struct {
	topic   string
	payload []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, publishedMessage{topic: topic, payload: payload})
	return "msg-1", nil
}
