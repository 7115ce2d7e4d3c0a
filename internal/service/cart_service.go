package service

import (
	"context"

	"coursehub/internal/model"
	"coursehub/internal/repository"

	"github.com/shopspring/decimal"
)

// Cart is a priced set of courses
type Cart struct {
	Items []model.Course
	Total decimal.Decimal
}

type CartService interface {
	// Detail resolves course uuids to courses and sums their prices exactly.
	// Unknown or malformed identifiers are skipped.
	Detail(ctx context.Context, courseUUIDs []string) (*Cart, error)
}

type cartService struct {
	courseRepo repository.CourseRepository
}

func NewCartService(courseRepo repository.CourseRepository) CartService {
	return &cartService{courseRepo: courseRepo}
}

func (s *cartService) Detail(ctx context.Context, courseUUIDs []string) (*Cart, error) {
	ids := validUUIDs(courseUUIDs)
	if len(ids) == 0 {
		return &Cart{Items: []model.Course{}, Total: decimal.Zero}, nil
	}
	courses, err := s.courseRepo.GetCoursesByUUIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &Cart{Items: courses, Total: sumPrices(courses)}, nil
}

func sumPrices(courses []model.Course) decimal.Decimal {
	total := decimal.Zero
	for _, c := range courses {
		total = total.Add(c.Price)
	}
	return total
}

// validUUIDs drops malformed and repeated identifiers, keeping order.
func validUUIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !isUUID(id) {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
