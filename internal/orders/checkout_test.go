package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/cart"
	"storefront/internal/docstore"
	"storefront/internal/domain"
	"storefront/internal/session"
)

func testSession(t *testing.T, signedIn bool) *session.Session {
	t.Helper()
	sess := session.NewManager(time.Hour).Get("")
	if signedIn {
		sess.SetAccount(&domain.Account{UID: "user-1", Email: "ann@example.com"}, "tok")
	}
	sess.UpdateCart(func(c cart.Cart) cart.Cart {
		return c.
			Add(domain.Product{ID: "p1", Title: "Widget", Price: 19.99}).
			Add(domain.Product{ID: "p2", Title: "Gadget", Price: 5.00})
	})
	return sess
}

func validInput() CheckoutInput {
	return CheckoutInput{Name: "Ann", Email: "ann@example.com", Address: "1 Main St"}
}

func TestSubmitRequiresSignIn(t *testing.T) {
	store := docstore.NewMemory()
	sess := testSession(t, false)
	co := NewCheckout(New(store, nil), sess)

	state := co.Submit(context.Background(), validInput())
	if state != CheckoutSignInRequired {
		t.Fatalf("expected signInRequired, got %s", state)
	}

	// No write may have been attempted.
	orders, err := store.ListAll(context.Background(), docstore.Orders)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("signed-out submit reached the store: %v", orders)
	}
	if sess.Cart().ItemCount() != 2 {
		t.Fatalf("cart was touched")
	}
}

func TestSubmitValidatesBeforeWrite(t *testing.T) {
	store := docstore.NewMemory()
	sess := testSession(t, true)
	co := NewCheckout(New(store, nil), sess)

	state := co.Submit(context.Background(), CheckoutInput{Name: "Ann", Email: "ann@example.com", Address: "   "})
	if state != CheckoutForm {
		t.Fatalf("expected form, got %s", state)
	}
	if co.FieldErrors()["address"] == "" {
		t.Fatalf("expected address error, got %v", co.FieldErrors())
	}

	orders, _ := store.ListAll(context.Background(), docstore.Orders)
	if len(orders) != 0 {
		t.Fatalf("invalid submit reached the store")
	}
}

func TestSubmitPlacesOrderAndClearsCart(t *testing.T) {
	store := docstore.NewMemory()
	sess := testSession(t, true)
	svc := New(store, nil)
	co := NewCheckout(svc, sess)

	state := co.Submit(context.Background(), validInput())
	if state != CheckoutPlaced {
		t.Fatalf("expected placed, got %s (err %q)", state, co.Err())
	}
	if co.OrderID() == "" {
		t.Fatalf("expected order id")
	}
	if sess.Cart().ItemCount() != 0 {
		t.Fatalf("cart not cleared after checkout")
	}

	order, err := svc.Get(context.Background(), co.OrderID())
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.Total != 24.99 {
		t.Fatalf("unexpected total: %f", order.Total)
	}
	if len(order.Products) != 2 {
		t.Fatalf("expected snapshot of 2 lines, got %d", len(order.Products))
	}
}

func TestSubmitWriteFailureLeavesCartUntouched(t *testing.T) {
	store := docstore.NewMemory()
	sess := testSession(t, true)
	co := NewCheckout(New(store, nil), sess)

	store.FailNext = errors.New("backend down")
	state := co.Submit(context.Background(), validInput())
	if state != CheckoutForm {
		t.Fatalf("expected form after failed write, got %s", state)
	}
	if co.Err() == "" {
		t.Fatalf("expected surfaced error")
	}
	if sess.Cart().ItemCount() != 2 {
		t.Fatalf("failed write must not clear the cart")
	}

	// Manual retry succeeds from the form state.
	state = co.Submit(context.Background(), validInput())
	if state != CheckoutPlaced {
		t.Fatalf("retry failed: %s", state)
	}
	if sess.Cart().ItemCount() != 0 {
		t.Fatalf("cart not cleared after successful retry")
	}
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	store := docstore.NewMemory()
	sess := session.NewManager(time.Hour).Get("")
	sess.SetAccount(&domain.Account{UID: "user-1", Email: "ann@example.com"}, "tok")
	co := NewCheckout(New(store, nil), sess)

	state := co.Submit(context.Background(), validInput())
	if state != CheckoutForm {
		t.Fatalf("expected form, got %s", state)
	}
	if co.FieldErrors()["cart"] == "" {
		t.Fatalf("expected cart error, got %v", co.FieldErrors())
	}

	orders, _ := store.ListAll(context.Background(), docstore.Orders)
	if len(orders) != 0 {
		t.Fatalf("empty-cart submit reached the store")
	}
}

func TestConcurrentSubmitsPlaceOneOrder(t *testing.T) {
	store := docstore.NewMemory()
	sess := testSession(t, true)
	co := NewCheckout(New(store, nil), sess)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			co.Submit(context.Background(), validInput())
		}()
	}
	wg.Wait()

	if co.State() != CheckoutPlaced {
		t.Fatalf("expected placed, got %s", co.State())
	}
	orders, err := store.ListAll(context.Background(), docstore.Orders)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(orders))
	}
}

func TestSubmitAfterPlacedIsTerminal(t *testing.T) {
	store := docstore.NewMemory()
	sess := testSession(t, true)
	co := NewCheckout(New(store, nil), sess)

	if state := co.Submit(context.Background(), validInput()); state != CheckoutPlaced {
		t.Fatalf("expected placed, got %s", state)
	}
	if state := co.Submit(context.Background(), validInput()); state != CheckoutPlaced {
		t.Fatalf("placed is terminal, got %s", state)
	}
	orders, _ := store.ListAll(context.Background(), docstore.Orders)
	if len(orders) != 1 {
		t.Fatalf("duplicate order after terminal submit: %d", len(orders))
	}
}
