// Package strapitest provides an in-memory content repository for tests.
package strapitest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// Memory mimics the repository surface used by the bot with read-your-writes consistency.
// Carts are listed only while published, like the live publication state of the real store.
type Memory struct {
	mu        sync.Mutex
	nextID    int
	products  []model.Product
	images    map[int][]byte
	carts     map[int]*cart
	lineItems map[int]*model.LineItem
	calls     map[string]int
	failOn    map[string]bool

	// Gate, when non-nil, blocks CartsByUser until it is closed.
	Gate chan struct{}
}

type cart struct {
	id        int
	userID    int64
	published bool
	lines     []int
}

func NewMemory(products ...model.Product) *Memory {
	return &Memory{
		nextID:    100,
		products:  products,
		images:    map[int][]byte{},
		carts:     map[int]*cart{},
		lineItems: map[int]*model.LineItem{},
		calls:     map[string]int{},
		failOn:    map[string]bool{},
	}
}

// SetImage attaches picture bytes to a product.
func (m *Memory) SetImage(productID int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[productID] = data
}

// FailOn makes the named method return model.ErrRepositoryUnavailable; an empty name clears it.
func (m *Memory) FailOn(ops ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn = map[string]bool{}
	for _, op := range ops {
		if op != "" {
			m.failOn[op] = true
		}
	}
}

// Calls returns how many times the named method ran.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// IsPublished reports whether the cart is still active.
func (m *Memory) IsPublished(cartID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[cartID]
	return ok && c.published
}

// CartCount returns how many carts were ever created for userID.
func (m *Memory) CartCount(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.carts {
		if c.userID == userID {
			n++
		}
	}
	return n
}

// Lines returns the live line items of a cart.
func (m *Memory) Lines(cartID int) []model.LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linesLocked(cartID)
}

func (m *Memory) enter(op string) error {
	m.calls[op]++
	if m.failOn[op] {
		return fmt.Errorf("%s: %w", op, model.ErrRepositoryUnavailable)
	}
	return nil
}

func (m *Memory) id() int {
	m.nextID++
	return m.nextID
}

func (m *Memory) product(id int) (model.Product, bool) {
	for _, p := range m.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

func (m *Memory) linesLocked(cartID int) []model.LineItem {
	c, ok := m.carts[cartID]
	if !ok {
		return nil
	}
	var out []model.LineItem
	for _, id := range c.lines {
		if li, ok := m.lineItems[id]; ok {
			out = append(out, *li)
		}
	}
	return out
}

func (m *Memory) Products(context.Context) ([]model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Products"); err != nil {
		return nil, err
	}
	return append([]model.Product(nil), m.products...), nil
}

func (m *Memory) Product(_ context.Context, id int) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("Product"); err != nil {
		return nil, err
	}
	p, ok := m.product(id)
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, model.ErrNotFound)
	}
	return &p, nil
}

func (m *Memory) ProductImage(_ context.Context, id int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ProductImage"); err != nil {
		return nil, err
	}
	data, ok := m.images[id]
	if !ok {
		return nil, fmt.Errorf("product %d has no picture: %w", id, model.ErrNotFound)
	}
	return data, nil
}

func (m *Memory) CartsByUser(_ context.Context, userID int64) ([]model.Cart, error) {
	if m.Gate != nil {
		<-m.Gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CartsByUser"); err != nil {
		return nil, err
	}
	var out []model.Cart
	for _, c := range m.carts {
		if c.userID == userID && c.published {
			out = append(out, model.Cart{ID: c.id, UserID: c.userID, LineItems: m.linesLocked(c.id)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateCart(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateCart"); err != nil {
		return 0, err
	}
	c := &cart{id: m.id(), userID: userID, published: true}
	m.carts[c.id] = c
	return c.id, nil
}

func (m *Memory) LineItems(_ context.Context, cartID int) ([]model.LineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("LineItems"); err != nil {
		return nil, err
	}
	return m.linesLocked(cartID), nil
}

func (m *Memory) SetLineItemQuantity(_ context.Context, lineItemID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("SetLineItemQuantity"); err != nil {
		return err
	}
	li, ok := m.lineItems[lineItemID]
	if !ok {
		return fmt.Errorf("line item %d: %w", lineItemID, model.ErrNotFound)
	}
	li.Quantity = quantity
	return nil
}

func (m *Memory) CreateLinkedLineItem(_ context.Context, cartID, productID, quantity int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateLinkedLineItem"); err != nil {
		return 0, err
	}
	c, ok := m.carts[cartID]
	if !ok {
		return 0, fmt.Errorf("cart %d: %w", cartID, model.ErrNotFound)
	}
	li := &model.LineItem{ID: m.id(), Quantity: quantity, CartID: cartID}
	if p, ok := m.product(productID); ok {
		li.Product = &p
	}
	m.lineItems[li.ID] = li
	c.lines = append(c.lines, li.ID)
	return li.ID, nil
}

func (m *Memory) DeleteLineItem(_ context.Context, lineItemID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteLineItem"); err != nil {
		return err
	}
	if _, ok := m.lineItems[lineItemID]; !ok {
		return fmt.Errorf("line item %d: %w", lineItemID, model.ErrNotFound)
	}
	delete(m.lineItems, lineItemID)
	return nil
}

func (m *Memory) UnpublishCart(_ context.Context, cartID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UnpublishCart"); err != nil {
		return err
	}
	c, ok := m.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %d: %w", cartID, model.ErrNotFound)
	}
	c.published = false
	return nil
}
