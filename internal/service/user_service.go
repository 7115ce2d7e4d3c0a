package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursehub/internal/model"
	"coursehub/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrEmailRequired          = errors.New("the email field must be set")
	ErrInvalidUserFlags       = errors.New("invalid user flags")
)

// NewUser is the account creation request. Nil flags take the defaults of
// the creation variant.
type NewUser struct {
	Email       string
	Name        string
	Password    string
	IsStaff     *bool
	IsSuperuser *bool
	IsAuthor    *bool
}

// Profile is a user with the identifiers of the courses they purchased
type Profile struct {
	User        *model.User
	PaidCourses []string
}

type UserService interface {
	CreateUser(ctx context.Context, in NewUser) (*model.User, error)
	CreateAuthor(ctx context.Context, in NewUser) (*model.User, error)
	CreateSuperuser(ctx context.Context, in NewUser) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
}

type userService struct {
	userRepo   repository.UserRepository
	bcryptCost int
	logger     zerolog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		bcryptCost: bcrypt.DefaultCost,
		logger:     logger.With().Str("service", "UserService").Logger(),
	}
}

// NormalizeEmail trims the address and lower-cases its domain part.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

func flag(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (s *userService) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	return s.create(ctx, in, &model.User{
		IsStaff:     flag(in.IsStaff, false),
		IsSuperuser: flag(in.IsSuperuser, false),
		IsAuthor:    flag(in.IsAuthor, false),
	})
}

func (s *userService) CreateAuthor(ctx context.Context, in NewUser) (*model.User, error) {
	u := &model.User{
		IsStaff:     flag(in.IsStaff, false),
		IsSuperuser: flag(in.IsSuperuser, false),
		IsAuthor:    flag(in.IsAuthor, true),
	}
	if !u.IsAuthor {
		return nil, fmt.Errorf("%w: author must have is_author=true", ErrInvalidUserFlags)
	}
	return s.create(ctx, in, u)
}

func (s *userService) CreateSuperuser(ctx context.Context, in NewUser) (*model.User, error) {
	u := &model.User{
		IsStaff:     flag(in.IsStaff, true),
		IsSuperuser: flag(in.IsSuperuser, true),
		IsAuthor:    flag(in.IsAuthor, true),
	}
	switch {
	case !u.IsStaff:
		return nil, fmt.Errorf("%w: superuser must have is_staff=true", ErrInvalidUserFlags)
	case !u.IsSuperuser:
		return nil, fmt.Errorf("%w: superuser must have is_superuser=true", ErrInvalidUserFlags)
	case !u.IsAuthor:
		return nil, fmt.Errorf("%w: superuser must have is_author=true", ErrInvalidUserFlags)
	}
	return s.create(ctx, in, u)
}

func (s *userService) create(ctx context.Context, in NewUser, u *model.User) (*model.User, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, ErrEmailRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.UserID = uuid.NewString()
	u.Email = NormalizeEmail(in.Email)
	u.Name = strings.TrimSpace(in.Name)
	u.PasswordHash = string(hash)
	u.IsActive = true

	if err := s.userRepo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, err
	}
	s.logger.Info().Str("user_id", u.UserID).Bool("is_author", u.IsAuthor).Bool("is_superuser", u.IsSuperuser).Msg("User created")
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if !isUUID(id) {
		return nil, ErrUserNotFound
	}
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	paid, err := s.userRepo.GetPaidCourseUUIDs(ctx, u.UserID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, PaidCourses: paid}, nil
}
