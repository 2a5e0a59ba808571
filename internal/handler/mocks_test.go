package handler

import (
	"context"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/Pavel2232/ShopBot/internal/shop"
)

// fakeContext overrides the parts of tele.Context the handlers touch.
type fakeContext struct {
	tele.Context

	sender   *tele.User
	text     string
	callback *tele.Callback
	member   *tele.ChatMemberUpdate
	editErr  error

	sent     []interface{}
	sendOpts [][]interface{}
	edits    []interface{}
	responds []*tele.CallbackResponse
}

func (c *fakeContext) Sender() *tele.User       { return c.sender }
func (c *fakeContext) Text() string             { return c.text }
func (c *fakeContext) Callback() *tele.Callback { return c.callback }

func (c *fakeContext) ChatMember() *tele.ChatMemberUpdate { return c.member }

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, what)
	c.sendOpts = append(c.sendOpts, opts)
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	if c.editErr != nil {
		return c.editErr
	}
	c.edits = append(c.edits, what)
	return nil
}

func (c *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.responds = append(c.responds, resp...)
	return nil
}

type call struct {
	kind   string
	userID int64
	input  string
}

type fakeConversation struct {
	mu    sync.Mutex
	calls []call
	err   error
	// during, when set, runs inside every call while the user lock is held.
	during func(userID int64)
}

func (f *fakeConversation) record(kind string, userID int64, input string) error {
	if f.during != nil {
		f.during(userID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind: kind, userID: userID, input: input})
	return f.err
}

func (f *fakeConversation) HandleCommand(_ context.Context, userID int64, text string, _ shop.Renderer) error {
	return f.record("command", userID, text)
}

func (f *fakeConversation) HandleText(_ context.Context, userID int64, text string, _ shop.Renderer) error {
	return f.record("text", userID, text)
}

func (f *fakeConversation) HandleCallback(_ context.Context, userID int64, data string, _ shop.Renderer) error {
	return f.record("callback", userID, data)
}

func (f *fakeConversation) Forget(_ context.Context, userID int64) error {
	return f.record("forget", userID, "")
}

type fakeProcessor struct {
	mu      sync.Mutex
	updates []tele.Update
}

func (p *fakeProcessor) ProcessUpdate(u tele.Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
}
