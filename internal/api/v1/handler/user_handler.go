package handler

import (
	"context"
	"errors"

	"coursehub/internal/api/v1/operation"
	"coursehub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterUser creates a regular, non-author account
func (h *UserHandler) RegisterUser(ctx context.Context, input *operation.RegisterUserInput) (*operation.UserOutput, error) {
	if err := h.validate.Struct(&input.Body); err != nil {
		if verr := validationError(err); verr != nil {
			return nil, verr
		}
		return nil, huma.Error400BadRequest("Validation failed", err)
	}
	user, err := h.userService.CreateUser(ctx, service.NewUser{
		Email:    input.Body.Email,
		Name:     input.Body.Name,
		Password: input.Body.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			return nil, huma.Error400BadRequest("A user with that email already exists.", &huma.ErrorDetail{
				Message:  "user with this email already exists.",
				Location: "body.email",
				Value:    input.Body.Email,
			})
		case errors.Is(err, service.ErrEmailRequired):
			return nil, huma.Error400BadRequest("Email is required")
		}
		h.logger.Error().Err(err).Msg("Failed to register user")
		return nil, huma.Error500InternalServerError("Failed to register user")
	}
	return &operation.UserOutput{Body: userResponse(user, []string{})}, nil
}

// GetMe returns the caller's account with purchased course identifiers
func (h *UserHandler) GetMe(ctx context.Context, input *operation.GetMeInput) (*operation.UserOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return nil, huma.Error401Unauthorized("User not found")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load profile")
		return nil, huma.Error500InternalServerError("Failed to load user")
	}
	return &operation.UserOutput{Body: userResponse(profile.User, profile.PaidCourses)}, nil
}
