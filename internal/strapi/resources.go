package strapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// Relation paths used when expanding carts and line items.
const (
	expandCartLines   = "quantity_products.product"
	expandLineProduct = "product"
	expandPicture     = "picture"
)

// Products returns the whole catalog in repository order.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	entries, err := ListAll[ProductAttributes](ctx, c, ResourceProducts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	products := make([]model.Product, 0, len(entries))
	for _, e := range entries {
		products = append(products, toProduct(e))
	}
	return products, nil
}

// Product returns one product with its picture reference resolved.
func (c *Client) Product(ctx context.Context, id int) (*model.Product, error) {
	entry, err := GetByID[ProductAttributes](ctx, c, ResourceProducts, id, expandPicture)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	p := toProduct(entry)
	return &p, nil
}

// ProductImage downloads the product picture. Products without one yield model.ErrNotFound.
func (c *Client) ProductImage(ctx context.Context, productID int) ([]byte, error) {
	return c.FetchBinary(ctx, ResourceProducts, productID, expandPicture)
}

// CartsByUser lists the active carts owned by userID with their line items and products expanded.
// Unpublished carts are not returned by the repository.
func (c *Client) CartsByUser(ctx context.Context, userID int64) ([]model.Cart, error) {
	entries, err := ListByFilter[CartAttributes](ctx, c, ResourceCarts, "id_tg", strconv.FormatInt(userID, 10), expandCartLines)
	if err != nil {
		return nil, fmt.Errorf("list carts of user %d: %w", userID, err)
	}
	carts := make([]model.Cart, 0, len(entries))
	for _, e := range entries {
		carts = append(carts, toCart(e))
	}
	return carts, nil
}

// CreateCart creates an empty cart owned by userID.
func (c *Client) CreateCart(ctx context.Context, userID int64) (int, error) {
	id, err := c.Create(ctx, ResourceCarts, map[string]any{"id_tg": userID})
	if err != nil {
		return 0, fmt.Errorf("create cart for user %d: %w", userID, err)
	}
	return id, nil
}

// UnpublishCart marks the cart inactive. Repeating it on an inactive cart is harmless.
func (c *Client) UnpublishCart(ctx context.Context, cartID int) error {
	if err := c.Update(ctx, ResourceCarts, cartID, map[string]any{"publishedAt": nil}); err != nil {
		return fmt.Errorf("unpublish cart %d: %w", cartID, err)
	}
	return nil
}

// LineItems lists the line items of a cart with their product expanded.
func (c *Client) LineItems(ctx context.Context, cartID int) ([]model.LineItem, error) {
	entries, err := ListByFilter[LineItemAttributes](ctx, c, ResourceLineItems, "cart.id", strconv.Itoa(cartID), expandLineProduct)
	if err != nil {
		return nil, fmt.Errorf("list line items of cart %d: %w", cartID, err)
	}
	items := make([]model.LineItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, toLineItem(e, cartID))
	}
	return items, nil
}

// SetLineItemQuantity overwrites the quantity of an existing line item.
func (c *Client) SetLineItemQuantity(ctx context.Context, lineItemID, quantity int) error {
	if err := c.Update(ctx, ResourceLineItems, lineItemID, map[string]any{"quantity": quantity}); err != nil {
		return fmt.Errorf("update line item %d: %w", lineItemID, err)
	}
	return nil
}

// CreateLinkedLineItem creates a line item and then connects it to the cart.
// The two writes are sequential; a failure of the second leaves an orphan line item
// that is invisible to the cart and never merged into.
func (c *Client) CreateLinkedLineItem(ctx context.Context, cartID, productID, quantity int) (int, error) {
	id, err := c.Create(ctx, ResourceLineItems, map[string]any{
		"product":  productID,
		"quantity": quantity,
	})
	if err != nil {
		return 0, fmt.Errorf("create line item for product %d: %w", productID, err)
	}

	link := map[string]any{
		"quantity_products": map[string]any{"connect": []int{id}},
	}
	if err := c.Update(ctx, ResourceCarts, cartID, link); err != nil {
		return 0, fmt.Errorf("link line item %d to cart %d: %w", id, cartID, err)
	}
	return id, nil
}

// DeleteLineItem removes a line item.
func (c *Client) DeleteLineItem(ctx context.Context, lineItemID int) error {
	if err := c.Delete(ctx, ResourceLineItems, lineItemID); err != nil {
		return fmt.Errorf("delete line item %d: %w", lineItemID, err)
	}
	return nil
}
