package service

import (
	"context"
	"errors"
	"time"

	"coursehub/internal/repository"
	"coursehub/internal/util"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("no active account found with the given credentials")

// TokenPair is an access token and the refresh token that renews it
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

type authService struct {
	userRepo   repository.UserRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	logger     zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, secret string, accessTTL, refreshTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		logger:     logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	access, err := util.IssueJWT(s.secret, u.UserID, util.TokenTypeAccess, s.accessTTL, now)
	if err != nil {
		return nil, err
	}
	refresh, err := util.IssueJWT(s.secret, u.UserID, util.TokenTypeRefresh, s.refreshTTL, now)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("user_id", u.UserID).Msg("Issued token pair")
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := util.ValidateJWT(refreshToken, s.secret, util.TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !isUUID(claims.Subject) {
		return "", ErrInvalidCredentials
	}
	u, err := s.userRepo.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	if u == nil || !u.IsActive {
		return "", ErrInvalidCredentials
	}
	return util.IssueJWT(s.secret, u.UserID, util.TokenTypeAccess, s.accessTTL, s.now())
}
