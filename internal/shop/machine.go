// Package shop implements the conversation state machine of the storefront bot.
package shop

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Pavel2232/ShopBot/internal/model"
	"github.com/Pavel2232/ShopBot/internal/pagination"
	"github.com/Pavel2232/ShopBot/internal/repository"
	"github.com/Pavel2232/ShopBot/internal/service"
)

// Catalog is the read-only product side of the content repository.
type Catalog interface {
	Products(ctx context.Context) ([]model.Product, error)
	Product(ctx context.Context, id int) (*model.Product, error)
	// ProductImage returns model.ErrNotFound when the product has no picture.
	ProductImage(ctx context.Context, productID int) ([]byte, error)
}

// Recorder counts handled actions by outcome.
type Recorder interface {
	ObserveAction(action, outcome string)
}

const (
	OutcomeOK          = "ok"
	OutcomeIgnored     = "ignored"
	OutcomeUnavailable = "unavailable"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

type nopRecorder struct{}

func (nopRecorder) ObserveAction(string, string) {}

type Machine struct {
	catalog  Catalog
	carts    service.CartService
	checkout service.CheckoutService
	sessions repository.SessionStore
	pageSize int
	recorder Recorder
	logger   *zap.Logger
}

type Option func(*Machine)

// WithRecorder reports every handled action to r.
func WithRecorder(r Recorder) Option {
	return func(m *Machine) { m.recorder = r }
}

func NewMachine(
	catalog Catalog,
	carts service.CartService,
	checkout service.CheckoutService,
	sessions repository.SessionStore,
	pageSize int,
	logger *zap.Logger,
	opts ...Option,
) *Machine {
	m := &Machine{
		catalog:  catalog,
		carts:    carts,
		checkout: checkout,
		sessions: sessions,
		pageSize: pageSize,
		recorder: nopRecorder{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HandleCommand processes a slash command.
func (m *Machine) HandleCommand(ctx context.Context, userID int64, text string, r Renderer) error {
	return m.handle(ctx, userID, r, func(model.State) Action { return FromCommand(text) })
}

// HandleText processes a plain text message. Its meaning depends on the current state.
func (m *Machine) HandleText(ctx context.Context, userID int64, text string, r Renderer) error {
	return m.handle(ctx, userID, r, func(s model.State) Action { return FromText(s, text) })
}

// HandleCallback processes an inline button press.
func (m *Machine) HandleCallback(ctx context.Context, userID int64, data string, r Renderer) error {
	return m.handle(ctx, userID, r, func(model.State) Action { return FromCallback(data) })
}

// Handle applies one classified action to the user's session.
//
// The session is persisted only when the action succeeds, so a failed repository call leaves
// the conversation where it was and the user can simply retry. The returned error is non-nil
// only when the failure could not be reported to the user either.
func (m *Machine) Handle(ctx context.Context, userID int64, act Action, r Renderer) error {
	return m.handle(ctx, userID, r, func(model.State) Action { return act })
}

// Forget drops the stored session of userID, e.g. after the user blocked the bot.
func (m *Machine) Forget(ctx context.Context, userID int64) error {
	if err := m.sessions.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete session of user %d: %w", userID, err)
	}
	m.logger.Info("session dropped", zap.Int64("user_id", userID))
	return nil
}

func (m *Machine) handle(ctx context.Context, userID int64, r Renderer, classify func(model.State) Action) error {
	log := m.logger.With(zap.Int64("user_id", userID))

	sess, err := m.sessions.Get(ctx, userID)
	if err != nil {
		log.Error("failed to load session", zap.Error(err))
		m.recorder.ObserveAction("load_session", OutcomeError)
		return r.SendText(ctx, textUnavailable, nil)
	}
	if sess == nil {
		sess = model.NewSession(userID)
	}

	act := classify(sess.State)
	log = log.With(zap.String("action", string(act.Kind)), zap.String("state", string(sess.State)))

	if act.Kind == ActNoop {
		m.recorder.ObserveAction(string(act.Kind), OutcomeIgnored)
		if act.Pressed {
			return swallowNoOp(r.Toast(ctx, ""))
		}
		return r.SendText(ctx, textUseButtons, nil)
	}
	if !act.allowedIn(sess.State) {
		log.Debug("action ignored in current state")
		m.recorder.ObserveAction(string(act.Kind), OutcomeIgnored)
		if act.Pressed {
			return swallowNoOp(r.Toast(ctx, textNotAvailable))
		}
		return r.SendText(ctx, textNotAvailable, nil)
	}

	next := *sess
	err = m.apply(ctx, &next, act, r)
	if err == nil || errors.Is(err, model.ErrRenderNoOp) {
		if err := m.sessions.Save(ctx, &next); err != nil {
			// The reply already shown belongs to a state that was not stored.
			log.Error("failed to save session", zap.Error(err))
			m.recorder.ObserveAction(string(act.Kind), OutcomeError)
			return r.SendText(ctx, textUnavailable, nil)
		}
		m.recorder.ObserveAction(string(act.Kind), OutcomeOK)
		return nil
	}

	switch {
	case errors.Is(err, model.ErrNotFound):
		log.Info("referenced entry is gone", zap.Error(err))
		m.recorder.ObserveAction(string(act.Kind), OutcomeNotFound)
		return swallowNoOp(r.Toast(ctx, textProductMissing))
	case errors.Is(err, model.ErrRepositoryUnavailable):
		log.Warn("repository unavailable", zap.Error(err))
		m.recorder.ObserveAction(string(act.Kind), OutcomeUnavailable)
	default:
		log.Error("failed to handle action", zap.Error(err))
		m.recorder.ObserveAction(string(act.Kind), OutcomeError)
	}
	return r.SendText(ctx, textUnavailable, nil)
}

func (m *Machine) apply(ctx context.Context, s *model.Session, act Action, r Renderer) error {
	switch act.Kind {
	case ActStart:
		return m.start(ctx, s, r)
	case ActOpenProduct:
		return m.openProduct(ctx, s, act.ProductID, r)
	case ActAddToCart:
		return m.addToCart(ctx, s, act.ProductID, r)
	case ActViewCart:
		return m.viewCart(ctx, s, r)
	case ActRemoveLine:
		return m.removeLine(ctx, s, act.LineID, r)
	case ActRequestCheckout:
		return m.requestCheckout(ctx, s, r)
	case ActSubmitEmail:
		return m.submitEmail(ctx, s, act.Text, r)
	case ActConfirm:
		return m.confirm(ctx, s, act.Yes, r)
	case ActPaginate:
		return m.paginate(ctx, s, act, r)
	case ActGoBack:
		return m.goBack(ctx, s, r)
	}
	return fmt.Errorf("unhandled action %q", act.Kind)
}

func (m *Machine) start(ctx context.Context, s *model.Session, r Renderer) error {
	products, err := m.catalog.Products(ctx)
	if err != nil {
		return err
	}
	w := pagination.First(len(products), m.pageSize)
	if err := r.SendText(ctx, textChooseProduct, catalogKeyboard(products, w, s.UserID)); err != nil {
		return err
	}
	s.State = model.StateBrowsing
	s.Window = w
	s.CandidateEmail = ""
	return nil
}

func (m *Machine) openProduct(ctx context.Context, s *model.Session, productID int, r Renderer) error {
	p, err := m.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}

	var photo []byte
	if p.HasImage() {
		photo, err = m.catalog.ProductImage(ctx, p.ID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
	}

	kb := productKeyboard(p.ID, s.UserID)
	if len(photo) > 0 {
		err = r.SendPhoto(ctx, photo, productCaption(p), kb)
	} else {
		err = r.SendText(ctx, productCaption(p), kb)
	}
	if err != nil {
		return err
	}
	s.State = model.StateProductDetail
	return nil
}

func (m *Machine) addToCart(ctx context.Context, s *model.Session, productID int, r Renderer) error {
	cartID, _, err := m.carts.AddToCart(ctx, s.UserID, productID, 1)
	if err != nil {
		return err
	}
	s.CartID = cartID
	if err := r.Toast(ctx, textAddedToCart); err != nil {
		return err
	}
	return swallowNoOp(r.EditButtons(ctx, afterAddKeyboard(s.UserID)))
}

func (m *Machine) viewCart(ctx context.Context, s *model.Session, r Renderer) error {
	cartID, err := m.carts.ActiveCart(ctx, s.UserID)
	if err != nil {
		return err
	}
	summary, err := m.carts.Summary(ctx, cartID)
	if err != nil {
		return err
	}
	if err := r.SendText(ctx, cartText(summary), cartKeyboard(summary)); err != nil {
		return err
	}
	s.State = model.StateCartView
	s.CartID = cartID
	s.TotalPrice = summary.Total
	s.CandidateEmail = ""
	return nil
}

func (m *Machine) removeLine(ctx context.Context, s *model.Session, lineID int, r Renderer) error {
	// A second press on the same button finds the line already gone.
	if err := m.carts.RemoveLine(ctx, lineID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err := r.Toast(ctx, textRemovedFromCart); err != nil {
		return err
	}
	return m.viewCart(ctx, s, r)
}

func (m *Machine) requestCheckout(ctx context.Context, s *model.Session, r Renderer) error {
	summary, err := m.carts.Summary(ctx, s.CartID)
	if err != nil {
		return err
	}
	if summary.IsEmpty() {
		return r.Toast(ctx, textCartEmpty)
	}
	if err := r.SendText(ctx, textAskEmail, nil); err != nil {
		return err
	}
	s.State = model.StateAwaitingEmail
	s.TotalPrice = summary.Total
	return nil
}

func (m *Machine) submitEmail(ctx context.Context, s *model.Session, text string, r Renderer) error {
	email, err := m.checkout.ValidateEmail(text)
	if errors.Is(err, model.ErrValidation) {
		return r.SendText(ctx, textBadEmail, nil)
	}
	if err != nil {
		return err
	}
	if err := r.SendText(ctx, fmt.Sprintf(textCheckEmail, email), confirmKeyboard()); err != nil {
		return err
	}
	s.State = model.StateConfirmingEmail
	s.CandidateEmail = email
	return nil
}

func (m *Machine) confirm(ctx context.Context, s *model.Session, yes bool, r Renderer) error {
	if !yes {
		if err := r.SendText(ctx, textAskEmail, &Keyboard{RemoveReply: true}); err != nil {
			return err
		}
		s.State = model.StateAwaitingEmail
		s.CandidateEmail = ""
		return nil
	}

	_, err := m.checkout.Complete(ctx, s.UserID, s.CartID, s.CandidateEmail, s.TotalPrice)
	if err != nil && !errors.Is(err, service.ErrNoActiveCart) {
		return err
	}
	s.ResetCheckout()
	s.State = model.StateBrowsing

	text := textThanks
	if err != nil {
		text = textCartEmpty
	}
	if err := r.SendText(ctx, text, &Keyboard{RemoveReply: true}); err != nil {
		m.logger.Warn("failed to send checkout notice", zap.Int64("user_id", s.UserID), zap.Error(err))
	}
	// The cart is already finalized here, so the session must be saved even if the menu fails.
	if err := m.start(ctx, s, r); err != nil {
		m.logger.Warn("failed to render catalog after checkout", zap.Int64("user_id", s.UserID), zap.Error(err))
	}
	return nil
}

func (m *Machine) paginate(ctx context.Context, s *model.Session, act Action, r Renderer) error {
	w := s.Window
	if act.Window != nil {
		w = *act.Window
	}
	next, signal := pagination.Advance(w, act.Direction, m.pageSize)
	switch signal {
	case pagination.AtLastPage:
		return r.Toast(ctx, textLastPage)
	case pagination.AtFirstPage:
		return r.Toast(ctx, textFirstPage)
	}

	products, err := m.catalog.Products(ctx)
	if err != nil {
		return err
	}
	if err := swallowNoOp(r.EditButtons(ctx, catalogKeyboard(products, next, s.UserID))); err != nil {
		return err
	}
	s.Window = next
	return swallowNoOp(r.Toast(ctx, ""))
}

func (m *Machine) goBack(ctx context.Context, s *model.Session, r Renderer) error {
	products, err := m.catalog.Products(ctx)
	if err != nil {
		return err
	}
	w := pagination.First(len(products), m.pageSize)
	if err := swallowNoOp(r.EditButtons(ctx, catalogKeyboard(products, w, s.UserID))); err != nil {
		return err
	}
	s.State = model.StateBrowsing
	s.Window = w
	return nil
}

func swallowNoOp(err error) error {
	if errors.Is(err, model.ErrRenderNoOp) {
		return nil
	}
	return err
}
