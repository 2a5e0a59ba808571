package model

// Cart is the per-user collection of line items pending checkout.
type Cart struct {
	ID        int        `json:"id"`
	UserID    int64      `json:"user_id"`
	LineItems []LineItem `json:"line_items,omitempty"`
}

// LineItem pairs a product with a quantity inside one cart.
// Product is nil when the relation was not expanded or points at a deleted entry.
type LineItem struct {
	ID       int      `json:"id"`
	Quantity int      `json:"quantity"`
	CartID   int      `json:"cart_id,omitempty"`
	Product  *Product `json:"product,omitempty"`
}

// SummaryLine is one rendered row of a cart summary.
type SummaryLine struct {
	LineItemID int
	Title      string
	Quantity   int
	UnitPrice  int
	LineTotal  int
}

// CartSummary is the aggregated view of a cart.
type CartSummary struct {
	CartID int
	Lines  []SummaryLine
	Total  int
}

func (s CartSummary) IsEmpty() bool { return len(s.Lines) == 0 }
