package orders

import (
	"context"
	"strings"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/session"
)

// CheckoutState tracks the checkout flow for one session's view.
type CheckoutState string

const (
	// CheckoutForm is the editing state, also re-entered after a failed
	// submission.
	CheckoutForm CheckoutState = "form"
	// CheckoutSubmitting holds while the order write is in flight.
	CheckoutSubmitting CheckoutState = "submitting"
	// CheckoutPlaced is the terminal success state.
	CheckoutPlaced CheckoutState = "placed"
	// CheckoutSignInRequired means no submission was attempted because the
	// session has no account.
	CheckoutSignInRequired CheckoutState = "signInRequired"
)

// CheckoutInput carries the shipping/contact fields, all required and
// rejected when whitespace-only.
type CheckoutInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Checkout drives one session's checkout. One machine is shared by every
// request of the session, so its state is guarded by a mutex.
type Checkout struct {
	svc  *Service
	sess *session.Session

	mu        sync.Mutex
	state     CheckoutState
	fieldErrs map[string]string
	errMsg    string
	orderID   string
}

// NewCheckout returns a Checkout in the form state.
func NewCheckout(svc *Service, sess *session.Session) *Checkout {
	return &Checkout{svc: svc, sess: sess, state: CheckoutForm}
}

// State returns the current checkout state.
func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FieldErrors returns the last validation failures, keyed by field.
func (c *Checkout) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldErrs
}

// Err returns the surfaced submission error, if any.
func (c *Checkout) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// OrderID returns the created order's id once placed.
func (c *Checkout) OrderID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orderID
}

// Submit runs the guarded submission: it refuses without a signed-in
// account, validates the fields and the cart before any write, then
// creates the order from the current cart snapshot and clears the cart.
// On a failed write the cart is left untouched and the state returns to
// form; retry is manual. Concurrent submits serialize; once one has
// placed the order, the rest observe the terminal state.
func (c *Checkout) Submit(ctx context.Context, in CheckoutInput) CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == CheckoutPlaced {
		return c.state
	}

	account := c.sess.Account()
	if account == nil {
		c.state = CheckoutSignInRequired
		return c.state
	}

	c.fieldErrs = validateCheckout(in)
	if c.sess.Cart().Len() == 0 {
		if c.fieldErrs == nil {
			c.fieldErrs = make(map[string]string)
		}
		c.fieldErrs["cart"] = "Your cart is empty"
	}
	if len(c.fieldErrs) > 0 {
		c.state = CheckoutForm
		return c.state
	}

	items := c.sess.Cart().Items()
	total := c.sess.Cart().Total()

	c.state = CheckoutSubmitting
	c.errMsg = ""
	id, err := c.svc.Create(ctx, account.UID,
		strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), strings.TrimSpace(in.Address),
		items, total)
	if err != nil {
		c.state = CheckoutForm
		c.errMsg = "Failed to place order. Please try again."
		return c.state
	}

	c.sess.UpdateCart(func(cc cart.Cart) cart.Cart { return cc.Clear() })
	c.orderID = id
	c.state = CheckoutPlaced
	return c.state
}

func validateCheckout(in CheckoutInput) map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(in.Email) == "" {
		errs["email"] = "Email is required"
	}
	if strings.TrimSpace(in.Address) == "" {
		errs["address"] = "Address is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
