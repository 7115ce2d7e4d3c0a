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

// Checkouter starts a purchase for a cart of courses
type Checkouter interface {
	Checkout(ctx context.Context, userID string, cart []string) (*service.CheckoutResult, error)
}

type PaymentHandler struct {
	payments Checkouter
	logger   zerolog.Logger
}

func NewPaymentHandler(payments Checkouter, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// Checkout creates a Stripe Checkout session for the caller's cart
func (h *PaymentHandler) Checkout(ctx context.Context, input *operation.CheckoutInput) (*operation.CheckoutOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	result, err := h.payments.Checkout(ctx, userID, input.Body.Cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNothingToPurchase):
			return nil, huma.Error400BadRequest("Cart has no courses to purchase")
		case errors.Is(err, service.ErrUserNotFound):
			return nil, huma.Error401Unauthorized("User not found")
		}
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Checkout failed")
		return nil, huma.Error502BadGateway("Failed to start checkout")
	}
	return &operation.CheckoutOutput{
		Body: dto.CheckoutResponseDTO{CheckoutURL: result.CheckoutURL, Enrolled: result.Enrolled},
	}, nil
}
