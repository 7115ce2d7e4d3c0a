package operation

import "coursehub/internal/api/v1/dto"

type CheckoutInput struct {
	Body dto.CheckoutRequestDTO `json:"body"`
}

type CheckoutOutput struct {
	Body dto.CheckoutResponseDTO `json:"body"`
}
