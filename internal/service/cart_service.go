package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// CartRepository is the subset of the content repository the cart engine needs.
// It offers plain CRUD and filtering only; get-or-create is emulated on top of it.
type CartRepository interface {
	CartsByUser(ctx context.Context, userID int64) ([]model.Cart, error)
	CreateCart(ctx context.Context, userID int64) (int, error)
	LineItems(ctx context.Context, cartID int) ([]model.LineItem, error)
	SetLineItemQuantity(ctx context.Context, lineItemID, quantity int) error
	CreateLinkedLineItem(ctx context.Context, cartID, productID, quantity int) (int, error)
	DeleteLineItem(ctx context.Context, lineItemID int) error
	UnpublishCart(ctx context.Context, cartID int) error
}

// QuantityPolicy decides the quantity written when a product already in the cart is added again.
type QuantityPolicy string

const (
	// QuantitySet overwrites the line quantity with the supplied quantity.
	QuantitySet QuantityPolicy = "set"
	// QuantityIncrement adds the supplied quantity to the current one.
	QuantityIncrement QuantityPolicy = "increment"
)

func (p QuantityPolicy) next(current, delta int) int {
	if p == QuantityIncrement {
		return current + delta
	}
	return delta
}

type CartService interface {
	// EnsureCart returns the user's active cart, creating it when absent.
	EnsureCart(ctx context.Context, userID int64) (int, error)
	// ActiveCart returns the user's active cart id, or 0 when the user has none.
	ActiveCart(ctx context.Context, userID int64) (int, error)
	// UpsertLine merges quantity into the cart's line for productID, creating the line when absent.
	UpsertLine(ctx context.Context, cartID, productID, quantity int) (int, error)
	// AddToCart runs EnsureCart then UpsertLine, strictly in that order.
	AddToCart(ctx context.Context, userID int64, productID, quantity int) (cartID, lineItemID int, err error)
	RemoveLine(ctx context.Context, lineItemID int) error
	Summary(ctx context.Context, cartID int) (*model.CartSummary, error)
	// FinalizeCheckout deactivates the cart. Repeated calls succeed.
	FinalizeCheckout(ctx context.Context, cartID int) error
}

type cartService struct {
	repo   CartRepository
	policy QuantityPolicy
	logger *zap.Logger
	sfg    singleflight.Group // one in-flight get-or-create per user
}

func NewCartService(repo CartRepository, policy QuantityPolicy, logger *zap.Logger) CartService {
	if policy == "" {
		policy = QuantitySet
	}
	return &cartService{repo: repo, policy: policy, logger: logger}
}

func (s *cartService) EnsureCart(ctx context.Context, userID int64) (int, error) {
	v, err, _ := s.sfg.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		carts, err := s.repo.CartsByUser(ctx, userID)
		if err != nil {
			return 0, err
		}
		if len(carts) > 0 {
			if len(carts) > 1 {
				s.logger.Warn("user owns several active carts, using the first",
					zap.Int64("user_id", userID), zap.Int("carts", len(carts)))
			}
			return carts[0].ID, nil
		}

		id, err := s.repo.CreateCart(ctx, userID)
		if err != nil {
			return 0, err
		}
		s.logger.Info("cart created", zap.Int64("user_id", userID), zap.Int("cart_id", id))
		return id, nil
	})
	if err != nil {
		return 0, fmt.Errorf("ensure cart: %w", err)
	}
	return v.(int), nil
}

func (s *cartService) ActiveCart(ctx context.Context, userID int64) (int, error) {
	carts, err := s.repo.CartsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("find active cart: %w", err)
	}
	if len(carts) == 0 {
		return 0, nil
	}
	return carts[0].ID, nil
}

func (s *cartService) UpsertLine(ctx context.Context, cartID, productID, quantity int) (int, error) {
	if productID <= 0 {
		return 0, ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.repo.LineItems(ctx, cartID)
	if err != nil {
		return 0, fmt.Errorf("upsert line: %w", err)
	}
	for _, item := range items {
		if item.Product == nil || item.Product.ID != productID {
			continue
		}
		q := s.policy.next(item.Quantity, quantity)
		if err := s.repo.SetLineItemQuantity(ctx, item.ID, q); err != nil {
			return 0, fmt.Errorf("upsert line: %w", err)
		}
		return item.ID, nil
	}

	id, err := s.repo.CreateLinkedLineItem(ctx, cartID, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("upsert line: %w", err)
	}
	return id, nil
}

func (s *cartService) AddToCart(ctx context.Context, userID int64, productID, quantity int) (int, int, error) {
	cartID, err := s.EnsureCart(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	lineID, err := s.UpsertLine(ctx, cartID, productID, quantity)
	if err != nil {
		return cartID, 0, err
	}
	return cartID, lineID, nil
}

// RemoveLine deletes the line item only. The cart keeps its reference until the
// repository prunes relations to deleted entries.
func (s *cartService) RemoveLine(ctx context.Context, lineItemID int) error {
	if err := s.repo.DeleteLineItem(ctx, lineItemID); err != nil {
		return fmt.Errorf("remove line: %w", err)
	}
	return nil
}

func (s *cartService) Summary(ctx context.Context, cartID int) (*model.CartSummary, error) {
	summary := &model.CartSummary{CartID: cartID}
	if cartID == 0 {
		return summary, nil
	}
	items, err := s.repo.LineItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart summary: %w", err)
	}
	for _, item := range items {
		// dangling reference to a deleted product
		if item.Product == nil {
			continue
		}
		line := model.SummaryLine{
			LineItemID: item.ID,
			Title:      item.Product.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.Product.Price,
			LineTotal:  item.Quantity * item.Product.Price,
		}
		summary.Lines = append(summary.Lines, line)
		summary.Total += line.LineTotal
	}
	return summary, nil
}

func (s *cartService) FinalizeCheckout(ctx context.Context, cartID int) error {
	if cartID == 0 {
		return ErrNoActiveCart
	}
	if err := s.repo.UnpublishCart(ctx, cartID); err != nil {
		return fmt.Errorf("finalize checkout: %w", err)
	}
	return nil
}

var _ CartService = (*cartService)(nil)
