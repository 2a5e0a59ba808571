package shop

import (
	"context"
	"sync"

	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/repository"
)

type sent struct {
	kind   string
	text   string
	photo  []byte
	markup *Keyboard
}

// fakeRenderer records outgoing calls. It rejects an edit whose markup equals the previous one,
// like the messaging platform does.
type fakeRenderer struct {
	mu       sync.Mutex
	calls    []sent
	lastEdit *Keyboard
	sendErr  error
}

func (f *fakeRenderer) SendText(_ context.Context, text string, kb *Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.calls = append(f.calls, sent{kind: "text", text: text, markup: kb})
	return nil
}

func (f *fakeRenderer) SendPhoto(_ context.Context, photo []byte, caption string, kb *Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.calls = append(f.calls, sent{kind: "photo", text: caption, photo: photo, markup: kb})
	return nil
}

func (f *fakeRenderer) EditButtons(_ context.Context, kb *Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lastEdit != nil && sameKeyboard(f.lastEdit, kb) {
		return model.ErrRenderNoOp
	}
	f.lastEdit = kb
	f.calls = append(f.calls, sent{kind: "edit", markup: kb})
	return nil
}

func (f *fakeRenderer) Toast(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sent{kind: "toast", text: text})
	return nil
}

func (f *fakeRenderer) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return sent{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeRenderer) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeRenderer) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.kind == "text" || c.kind == "toast" {
			out = append(out, c.text)
		}
	}
	return out
}

func sameKeyboard(a, b *Keyboard) bool {
	if len(a.Inline) != len(b.Inline) {
		return false
	}
	for i := range a.Inline {
		if len(a.Inline[i]) != len(b.Inline[i]) {
			return false
		}
		for j := range a.Inline[i] {
			if a.Inline[i][j] != b.Inline[i][j] {
				return false
			}
		}
	}
	return true
}

// flakyStore fails every Save while err is set.
type flakyStore struct {
	repository.SessionStore
	err error
}

func (s *flakyStore) Save(ctx context.Context, session *model.Session) error {
	if s.err != nil {
		return s.err
	}
	return s.SessionStore.Save(ctx, session)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) ObserveAction(action, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[action+"/"+outcome]++
}

func (r *countingRecorder) get(action, outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[action+"/"+outcome]
}
