package operation

import "coursehub/internal/api/v1/dto"

type RegisterUserInput struct {
	Body dto.UserCreateDTO `json:"body"`
}

type UserOutput struct {
	Body dto.UserResponseDTO `json:"body"`
}

type GetMeInput struct{}

type ObtainTokenInput struct {
	Body dto.TokenObtainDTO `json:"body"`
}

type ObtainTokenOutput struct {
	Body dto.TokenPairDTO `json:"body"`
}

type RefreshTokenInput struct {
	Body dto.TokenRefreshDTO `json:"body"`
}

type RefreshTokenOutput struct {
	Body dto.AccessTokenDTO `json:"body"`
}
