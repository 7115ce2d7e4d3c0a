package handler

import (
	"context"
	"errors"

	"coursehub/internal/api/v1/dto"
	"coursehub/internal/api/v1/operation"
	"coursehub/internal/service"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog"
)

// AuthHandler issues and renews JWTs
type AuthHandler struct {
	authService service.AuthService
	logger      zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) ObtainToken(ctx context.Context, input *operation.ObtainTokenInput) (*operation.ObtainTokenOutput, error) {
	pair, err := h.authService.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized(service.ErrInvalidCredentials.Error())
		}
		h.logger.Error().Err(err).Msg("Failed to issue tokens")
		return nil, huma.Error500InternalServerError("Failed to issue tokens")
	}
	return &operation.ObtainTokenOutput{Body: dto.TokenPairDTO{Access: pair.Access, Refresh: pair.Refresh}}, nil
}

func (h *AuthHandler) RefreshToken(ctx context.Context, input *operation.RefreshTokenInput) (*operation.RefreshTokenOutput, error) {
	access, err := h.authService.Refresh(ctx, input.Body.Refresh)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return nil, huma.Error401Unauthorized("Token is invalid or expired")
		}
		h.logger.Error().Err(err).Msg("Failed to refresh token")
		return nil, huma.Error500InternalServerError("Failed to refresh token")
	}
	return &operation.RefreshTokenOutput{Body: dto.AccessTokenDTO{Access: access}}, nil
}
