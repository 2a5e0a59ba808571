package model

// State is a step of the conversation state machine.
type State string

const (
	StateBrowsing        State = "browsing"
	StateProductDetail   State = "product_detail"
	StateCartView        State = "cart_view"
	StateAwaitingEmail   State = "awaiting_email"
	StateConfirmingEmail State = "confirming_email"
)

// Window describes the visible slice of the catalog.
// Invariant: 0 <= Start <= End and 1 <= CurrentPage <= LastPage.
type Window struct {
	Start       int `json:"start"`
	End         int `json:"end"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}

// Session is the per-user conversational state persisted between updates.
type Session struct {
	UserID         int64  `json:"user_id"`
	State          State  `json:"state"`
	Window         Window `json:"window"`
	CartID         int    `json:"cart_id,omitempty"`
	TotalPrice     int    `json:"total_price,omitempty"`
	CandidateEmail string `json:"candidate_email,omitempty"`
}

// NewSession returns the state of a user on first contact.
func NewSession(userID int64) *Session {
	return &Session{UserID: userID, State: StateBrowsing}
}

// ResetCheckout clears everything pinned for the checkout that just ended.
func (s *Session) ResetCheckout() {
	s.CartID = 0
	s.TotalPrice = 0
	s.CandidateEmail = ""
}
