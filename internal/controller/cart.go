package controller

import (
	"context"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/orders"
	"storefront/internal/session"
)

type cartValue = cart.Cart

// CartView is the rendered cart: the lines plus the derived totals,
// recomputed from the items on every read.
type CartView struct {
	Items     []cart.Item `json:"items"`
	ItemCount int         `json:"itemCount"`
	Total     float64     `json:"total"`
}

func viewOf(c cart.Cart) CartView {
	return CartView{
		Items:     c.Items(),
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
}

// CartPage backs /cart: read the session cart and dispatch the three
// commands. The commands themselves are synchronous; only AddByID does a
// remote read, to snapshot the product being added.
type CartPage struct {
	catalog *catalog.Service
	sess    *session.Session
}

// NewCartPage returns the controller.
func NewCartPage(c *catalog.Service, sess *session.Session) *CartPage {
	return &CartPage{catalog: c, sess: sess}
}

// View returns the current cart.
func (c *CartPage) View() CartView {
	return viewOf(c.sess.Cart())
}

// AddByID fetches the product and dispatches the add command with its
// snapshot.
func (c *CartPage) AddByID(ctx context.Context, id string) (CartView, error) {
	p, err := c.catalog.Get(ctx, id)
	if err != nil {
		return CartView{}, err
	}
	return c.Add(*p), nil
}

// Add dispatches the add command with the given product snapshot.
func (c *CartPage) Add(p domain.Product) CartView {
	return viewOf(c.sess.UpdateCart(func(cc cart.Cart) cart.Cart {
		return cc.Add(p)
	}))
}

// Remove dispatches the remove command; unknown ids are a no-op.
func (c *CartPage) Remove(id string) CartView {
	return viewOf(c.sess.UpdateCart(func(cc cart.Cart) cart.Cart {
		return cc.Remove(id)
	}))
}

// Clear empties the cart.
func (c *CartPage) Clear() CartView {
	return viewOf(c.sess.UpdateCart(func(cc cart.Cart) cart.Cart {
		return cc.Clear()
	}))
}

// Checkout backs /checkout, wrapping the checkout state machine together
// with the cart it submits.
type Checkout struct {
	sess    *session.Session
	machine *orders.Checkout
}

// NewCheckout returns the controller in the form state.
func NewCheckout(svc *orders.Service, sess *session.Session) *Checkout {
	return &Checkout{sess: sess, machine: orders.NewCheckout(svc, sess)}
}

// CheckoutView is the rendered checkout page.
type CheckoutView struct {
	State       orders.CheckoutState `json:"state"`
	Cart        CartView             `json:"cart"`
	FieldErrors map[string]string    `json:"fieldErrors,omitempty"`
	Error       string               `json:"error,omitempty"`
	OrderID     string               `json:"orderId,omitempty"`
}

// View returns the current checkout state alongside the cart.
func (c *Checkout) View() CheckoutView {
	return CheckoutView{
		State:       c.machine.State(),
		Cart:        viewOf(c.sess.Cart()),
		FieldErrors: c.machine.FieldErrors(),
		Error:       c.machine.Err(),
		OrderID:     c.machine.OrderID(),
	}
}

// Submit runs the guarded submission and returns the resulting view.
func (c *Checkout) Submit(ctx context.Context, in orders.CheckoutInput) CheckoutView {
	c.machine.Submit(ctx, in)
	return c.View()
}
