package shop

import "context"

// Button is an inline button; Data is an encoded callback payload.
type Button struct {
	Text string
	Data string
}

// Keyboard is transport-neutral markup attached to an outgoing message.
type Keyboard struct {
	Inline [][]Button
	// Reply is a one-time reply keyboard of plain text answers.
	Reply [][]string
	// RemoveReply hides a previously shown reply keyboard.
	RemoveReply bool
}

// Renderer is the outbound side of the messaging transport, bound to one inbound event.
//
// EditButtons replaces the markup of the message that carried the pressed button and must
// return an error wrapping model.ErrRenderNoOp when the markup is unchanged.
type Renderer interface {
	SendText(ctx context.Context, text string, kb *Keyboard) error
	SendPhoto(ctx context.Context, photo []byte, caption string, kb *Keyboard) error
	EditButtons(ctx context.Context, kb *Keyboard) error
	Toast(ctx context.Context, text string) error
}
