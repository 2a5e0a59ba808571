package strapi

import (
	"time"

	"github.com/Pavel2232/ShopBot/internal/model"
)

// Resource names a collection exposed by the content repository.
type Resource string

const (
	ResourceProducts  Resource = "products"
	ResourceCarts     Resource = "carts"
	ResourceLineItems Resource = "quantity-products"
)

// Entry is the envelope every record is wrapped in: an id plus the typed attribute set.
type Entry[A any] struct {
	ID         int `json:"id"`
	Attributes A   `json:"attributes"`
}

type single[A any] struct {
	Data *Entry[A] `json:"data"`
}

type collection[A any] struct {
	Data []Entry[A] `json:"data"`
}

// RelationOne and RelationMany are expanded relations; Data is empty when not populated.
type RelationOne[A any] struct {
	Data *Entry[A] `json:"data"`
}

type RelationMany[A any] struct {
	Data []Entry[A] `json:"data"`
}

type ProductAttributes struct {
	Title       string                         `json:"title"`
	Description string                         `json:"description"`
	Price       int                            `json:"price"`
	State       string                         `json:"state"`
	Picture     *RelationMany[MediaAttributes] `json:"picture,omitempty"`
}

type MediaAttributes struct {
	Name    string                 `json:"name"`
	URL     string                 `json:"url"`
	Formats map[string]MediaFormat `json:"formats"`
}

type MediaFormat struct {
	Name string `json:"name"`
	Hash string `json:"hash"`
	URL  string `json:"url"`
}

type CartAttributes struct {
	IDTg             int64                             `json:"id_tg"`
	QuantityProducts *RelationMany[LineItemAttributes] `json:"quantity_products,omitempty"`
	PublishedAt      *time.Time                        `json:"publishedAt,omitempty"`
}

type LineItemAttributes struct {
	Quantity int                             `json:"quantity"`
	Product  *RelationOne[ProductAttributes] `json:"product,omitempty"`
}

// imageFormat is the rendition sent to chats; the original upload is the fallback.
const imageFormat = "small"

func (a MediaAttributes) preferredURL() string {
	if f, ok := a.Formats[imageFormat]; ok && f.URL != "" {
		return f.URL
	}
	return a.URL
}

func toProduct(e Entry[ProductAttributes]) model.Product {
	p := model.Product{
		ID:          e.ID,
		Title:       e.Attributes.Title,
		Description: e.Attributes.Description,
		Price:       e.Attributes.Price,
		State:       e.Attributes.State,
	}
	if pic := e.Attributes.Picture; pic != nil && len(pic.Data) > 0 {
		p.ImageURL = pic.Data[0].Attributes.preferredURL()
	}
	return p
}

func toLineItem(e Entry[LineItemAttributes], cartID int) model.LineItem {
	item := model.LineItem{ID: e.ID, Quantity: e.Attributes.Quantity, CartID: cartID}
	if rel := e.Attributes.Product; rel != nil && rel.Data != nil {
		p := toProduct(*rel.Data)
		item.Product = &p
	}
	return item
}

func toCart(e Entry[CartAttributes]) model.Cart {
	cart := model.Cart{ID: e.ID, UserID: e.Attributes.IDTg}
	if rel := e.Attributes.QuantityProducts; rel != nil {
		for _, li := range rel.Data {
			cart.LineItems = append(cart.LineItems, toLineItem(li, e.ID))
		}
	}
	return cart
}
