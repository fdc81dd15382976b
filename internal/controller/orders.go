package controller

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/orders"
	"storefront/internal/resource"
	"storefront/internal/session"
)

// OrderHistory backs /orders: the signed-in user's orders behind an async
// resource.
type OrderHistory struct {
	orders *orders.Service
	sess   *session.Session
	res    *resource.Resource[[]domain.Order]
}

// NewOrderHistory returns the controller with an idle resource.
func NewOrderHistory(svc *orders.Service, sess *session.Session) *OrderHistory {
	return &OrderHistory{orders: svc, sess: sess, res: resource.New[[]domain.Order]("order history")}
}

// Load fetches the user's orders; without an account it reports
// ErrSignInRequired before any fetch.
func (o *OrderHistory) Load(ctx context.Context) error {
	account := o.sess.Account()
	if account == nil {
		return domain.ErrSignInRequired
	}
	return o.res.Load(ctx, func(ctx context.Context) ([]domain.Order, error) {
		return o.orders.ListByUser(ctx, account.UID)
	})
}

// Snapshot returns the current view state.
func (o *OrderHistory) Snapshot() resource.Snapshot[[]domain.Order] {
	return o.res.Snapshot()
}

// OrderDetail backs /order/:id.
type OrderDetail struct {
	orders *orders.Service
	res    *resource.Resource[domain.Order]
}

// NewOrderDetail returns the controller with an idle resource.
func NewOrderDetail(svc *orders.Service) *OrderDetail {
	return &OrderDetail{orders: svc, res: resource.New[domain.Order]("order")}
}

// Load fetches one order.
func (o *OrderDetail) Load(ctx context.Context, id string) {
	_ = o.res.Load(ctx, func(ctx context.Context) (domain.Order, error) {
		order, err := o.orders.Get(ctx, id)
		if err != nil {
			return domain.Order{}, err
		}
		return *order, nil
	})
}

// Snapshot returns the current view state.
func (o *OrderDetail) Snapshot() resource.Snapshot[domain.Order] {
	return o.res.Snapshot()
}
