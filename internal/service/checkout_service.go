package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/repository"
)

const mailTimeout = 10 * time.Second

type CheckoutService interface {
	// ValidateEmail returns the normalized address or ErrInvalidEmail.
	ValidateEmail(raw string) (string, error)
	// Complete deactivates the cart and records the order. Only the deactivation can fail the call.
	// Completing an already recorded cart again returns the stored order and sends no second mail.
	Complete(ctx context.Context, userID int64, cartID int, email string, total int) (*model.Order, error)
}

type checkoutService struct {
	carts    CartService
	orders   repository.OrderRepository
	mailer   MailSender
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCheckoutService(carts CartService, orders repository.OrderRepository, mailer MailSender, logger *zap.Logger) CheckoutService {
	return &checkoutService{
		carts:    carts,
		orders:   orders,
		mailer:   mailer,
		validate: validator.New(),
		logger:   logger,
	}
}

func (s *checkoutService) ValidateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if err := s.validate.Var(email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func (s *checkoutService) Complete(ctx context.Context, userID int64, cartID int, email string, total int) (*model.Order, error) {
	if err := s.carts.FinalizeCheckout(ctx, cartID); err != nil {
		return nil, err
	}

	prev, err := s.orders.GetByCartID(ctx, cartID)
	switch {
	case err == nil:
		s.logger.Info("checkout already recorded", zap.Int("cart_id", cartID), zap.String("order_id", prev.ID.String()))
		return prev, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Warn("failed to look up order", zap.Int("cart_id", cartID), zap.Error(err))
	}

	order := &model.Order{
		ID:         uuid.New(),
		UserID:     userID,
		CartID:     cartID,
		Email:      email,
		TotalPrice: total,
		CreatedAt:  time.Now(),
	}
	log := s.logger.With(zap.Int64("user_id", userID), zap.Int("cart_id", cartID), zap.String("order_id", order.ID.String()))

	if err := s.orders.Create(ctx, order); err != nil {
		log.Error("failed to record order", zap.Error(err))
	}

	mailCtx, cancel := context.WithTimeout(ctx, mailTimeout)
	defer cancel()
	subject := "Заказ принят"
	body := fmt.Sprintf("Спасибо за заказ!\nНомер заказа: %s\nСумма: %d руб.\n", order.ID, total)
	if err := s.mailer.Send(mailCtx, email, subject, body); err != nil {
		log.Warn("failed to send order confirmation", zap.Error(err))
	}

	log.Info("checkout completed", zap.Int("total", total))
	return order, nil
}

var _ CheckoutService = (*checkoutService)(nil)
