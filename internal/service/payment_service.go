package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursehub/internal/model"
	"coursehub/internal/pubsub"
	"coursehub/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	// Stripe allows 50 metadata keys; one is taken by user_id.
	MaxCheckoutCourses = 40

	courseMetadataPrefix = "course_"
	maxWebhookBodyBytes  = 64 << 10
)

var ErrNothingToPurchase = errors.New("no purchasable courses in cart")

// PaymentConfig holds the Stripe settings used by PaymentService
type PaymentConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	SuccessURL    string
	CancelURL     string
	PurchaseTopic string
}

// CheckoutResult is either a Stripe Checkout URL for the paid courses or, when
// every course in the cart is free, only the directly enrolled courses.
type CheckoutResult struct {
	CheckoutURL string
	Enrolled    []string
}

// PurchaseEvent is published once a purchase has been recorded
type PurchaseEvent struct {
	UserID      string    `json:"user_id"`
	CourseUUIDs []string  `json:"course_uuids"`
	SessionID   string    `json:"session_id,omitempty"`
	AmountTotal int64     `json:"amount_total"`
	Currency    string    `json:"currency"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// PaymentService runs course checkout through Stripe and records purchases
type PaymentService struct {
	cfg        PaymentConfig
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
	publisher  pubsub.Publisher
	newSession func(*stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	now        func() time.Time
	logger     zerolog.Logger
}

// NewPaymentService initializes the Stripe key and returns the service with a scoped logger
func NewPaymentService(
	cfg PaymentConfig,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	publisher pubsub.Publisher,
	logger zerolog.Logger,
) *PaymentService {
	stripe.Key = cfg.SecretKey
	return &PaymentService{
		cfg:        cfg,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		publisher:  publisher,
		newSession: checkoutsession.New,
		now:        time.Now,
		logger:     logger.With().Str("service", "PaymentService").Logger(),
	}
}

// UnitAmount converts a two-place decimal price into minor currency units.
func UnitAmount(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}

// Checkout prices the cart, skipping courses the user already owns. Paid
// courses go into one Checkout session; free courses are enrolled directly
// after that session has been created.
func (s *PaymentService) Checkout(ctx context.Context, userID string, cart []string) (*CheckoutResult, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	courses, err := s.purchasable(ctx, userID, cart)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrNothingToPurchase
	}

	var free []model.Course
	var paid []model.Course
	for _, c := range courses {
		if c.Price.IsZero() {
			free = append(free, c)
		} else {
			paid = append(paid, c)
		}
	}

	result := &CheckoutResult{Enrolled: []string{}}
	if len(paid) == 0 {
		if err := s.enrollFree(ctx, userID, free, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(stripe.CheckoutSessionModePayment),
		CustomerEmail: stripe.String(user.Email),
		SuccessURL:    stripe.String(s.cfg.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.cfg.CancelURL),
		Metadata:      map[string]string{"user_id": userID},
	}
	for i, c := range paid {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(s.cfg.Currency),
				UnitAmount: stripe.Int64(UnitAmount(c.Price)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(c.Title),
				},
			},
			Quantity: stripe.Int64(1),
		})
		params.Metadata[courseMetadataPrefix+strconv.Itoa(i)] = c.CourseUUID
	}
	params.Context = ctx

	sess, err := s.newSession(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe checkout session")
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	// A failed session must not enroll anything.
	if err := s.enrollFree(ctx, userID, free, result); err != nil {
		return nil, err
	}
	result.CheckoutURL = sess.URL
	return result, nil
}

// enrollFree records the free courses of a cart and adds them to result.
func (s *PaymentService) enrollFree(ctx context.Context, userID string, free []model.Course, result *CheckoutResult) error {
	if len(free) == 0 {
		return nil
	}
	if err := s.enroll(ctx, userID, free, "", 0); err != nil {
		return err
	}
	for _, c := range free {
		result.Enrolled = append(result.Enrolled, c.CourseUUID)
	}
	return nil
}

func (s *PaymentService) purchasable(ctx context.Context, userID string, cart []string) ([]model.Course, error) {
	ids := validUUIDs(cart)
	if len(ids) == 0 {
		return nil, nil
	}
	owned, err := s.userRepo.GetPaidCourseUUIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	ownedSet := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[strings.ToLower(id)] = struct{}{}
	}
	courses, err := s.courseRepo.GetCoursesByUUIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if _, ok := ownedSet[strings.ToLower(c.CourseUUID)]; !ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *PaymentService) enroll(ctx context.Context, userID string, courses []model.Course, sessionID string, amount int64) error {
	ids := make([]int64, len(courses))
	uuids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
		uuids[i] = c.CourseUUID
	}
	if err := s.userRepo.AddPaidCourses(ctx, userID, ids); err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Strs("course_uuids", uuids).Msg("Purchase recorded")

	payload, err := json.Marshal(PurchaseEvent{
		UserID:      userID,
		CourseUUIDs: uuids,
		SessionID:   sessionID,
		AmountTotal: amount,
		Currency:    s.cfg.Currency,
		PurchasedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal purchase event: %w", err)
	}
	// The purchase is already stored, so a publish failure is only logged.
	if _, err := s.publisher.Publish(ctx, s.cfg.PurchaseTopic, payload); err != nil {
		s.logger.Error().Err(err).Str("topic", s.cfg.PurchaseTopic).Msg("Failed to publish purchase event")
	}
	return nil
}

// HandleEvent applies a verified Stripe event. Unhandled event types are ignored.
func (s *PaymentService) HandleEvent(ctx context.Context, event stripe.Event) error {
	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		s.logger.Debug().Str("event_type", string(event.Type)).Msg("Ignoring Stripe event")
		return nil
	}
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return fmt.Errorf("invalid checkout.session data: %w", err)
	}
	if cs.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		s.logger.Info().Str("session_id", cs.ID).Str("payment_status", string(cs.PaymentStatus)).Msg("Checkout session not paid yet")
		return nil
	}
	userID := cs.Metadata["user_id"]
	if !isUUID(userID) {
		return fmt.Errorf("checkout session %s has no valid user_id metadata", cs.ID)
	}
	var uuids []string
	for k, v := range cs.Metadata {
		if strings.HasPrefix(k, courseMetadataPrefix) {
			uuids = append(uuids, v)
		}
	}
	ids := validUUIDs(uuids)
	if len(ids) == 0 {
		s.logger.Warn().Str("session_id", cs.ID).Msg("Checkout session carries no courses")
		return nil
	}
	courses, err := s.courseRepo.GetCoursesByUUIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		s.logger.Warn().Str("session_id", cs.ID).Msg("Purchased courses no longer exist")
		return nil
	}
	return s.enroll(ctx, userID, courses, cs.ID, cs.AmountTotal)
}

// HandleWebhook verifies and processes Stripe webhook requests
func (s *PaymentService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes+1))
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	if len(payload) > maxWebhookBodyBytes {
		s.logger.Error().Int("limit_bytes", maxWebhookBodyBytes).Msg("Stripe webhook payload too large")
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.WebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Str("event_id", event.ID).Msg("Stripe webhook received")

	if err := s.HandleEvent(r.Context(), event); err != nil {
		s.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to process Stripe webhook")
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
