package shop

import (
	"strings"

	"github.com/Pavel2232/ShopBot/internal/callback"
	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/pagination"
)

type ActionKind string

const (
	ActStart           ActionKind = "start"
	ActOpenProduct     ActionKind = "open_product"
	ActAddToCart       ActionKind = "add_to_cart"
	ActViewCart        ActionKind = "view_cart"
	ActRemoveLine      ActionKind = "remove_line"
	ActRequestCheckout ActionKind = "request_checkout"
	ActSubmitEmail     ActionKind = "submit_email"
	ActConfirm         ActionKind = "confirm"
	ActPaginate        ActionKind = "paginate"
	ActGoBack          ActionKind = "go_back"
	// ActNoop is a press on a decorative button or an unparseable input.
	ActNoop ActionKind = "noop"
)

// Action is a classified user input.
type Action struct {
	Kind      ActionKind
	ProductID int
	LineID    int
	Text      string
	Yes       bool
	Direction pagination.Direction
	// Window is the window the pressed keyboard was rendered with; nil means the session's.
	Window *model.Window
	// Pressed marks input that came from an inline button and can be answered with a toast.
	Pressed bool
}

// validFrom lists the states each action is accepted in. Missing kinds are accepted everywhere.
var validFrom = map[ActionKind][]model.State{
	ActOpenProduct:     {model.StateBrowsing, model.StateCartView},
	ActAddToCart:       {model.StateProductDetail},
	ActRemoveLine:      {model.StateCartView},
	ActRequestCheckout: {model.StateCartView},
	ActSubmitEmail:     {model.StateAwaitingEmail},
	ActConfirm:         {model.StateConfirmingEmail},
	ActPaginate:        {model.StateBrowsing, model.StateProductDetail, model.StateCartView},
	ActGoBack:          {model.StateBrowsing, model.StateProductDetail, model.StateCartView},
	ActNoop:            {},
}

func (a Action) allowedIn(state model.State) bool {
	states, ok := validFrom[a.Kind]
	if !ok {
		return true
	}
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// FromCommand classifies a slash command.
func FromCommand(text string) Action {
	cmd := strings.TrimSpace(text)
	if i := strings.IndexAny(cmd, " @"); i >= 0 {
		cmd = cmd[:i]
	}
	if cmd == "/start" {
		return Action{Kind: ActStart}
	}
	return Action{Kind: ActNoop}
}

// FromText classifies free text against the state it arrives in.
func FromText(state model.State, text string) Action {
	switch state {
	case model.StateAwaitingEmail:
		return Action{Kind: ActSubmitEmail, Text: text}
	case model.StateConfirmingEmail:
		return Action{Kind: ActConfirm, Yes: strings.EqualFold(strings.TrimSpace(text), answerYes)}
	}
	return Action{Kind: ActNoop, Text: text}
}

// FromCallback classifies a raw button payload.
func FromCallback(data string) Action {
	act := fromPayload(data)
	act.Pressed = true
	return act
}

func fromPayload(data string) Action {
	p, err := callback.Decode(data)
	if err != nil {
		return Action{Kind: ActNoop}
	}
	switch v := p.(type) {
	case callback.Product:
		return Action{Kind: ActOpenProduct, ProductID: v.ID}
	case callback.AddToCart:
		return Action{Kind: ActAddToCart, ProductID: v.ProductID}
	case callback.RemoveLine:
		return Action{Kind: ActRemoveLine, LineID: v.LineID}
	case callback.ViewCart:
		return Action{Kind: ActViewCart}
	case callback.Pay:
		return Action{Kind: ActRequestCheckout}
	case callback.Back:
		return Action{Kind: ActGoBack}
	case callback.Page:
		w := model.Window{Start: v.Start, End: v.End, CurrentPage: v.Current, LastPage: v.Last}
		return Action{Kind: ActPaginate, Direction: v.Direction, Window: &w}
	}
	return Action{Kind: ActNoop}
}
