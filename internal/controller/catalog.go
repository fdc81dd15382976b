package controller

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/resource"
	"storefront/internal/session"
)

// ProductList backs the /products route: the full catalog behind one
// async resource, plus the delete affordance the listing exposes.
type ProductList struct {
	catalog *catalog.Service
	res     *resource.Resource[[]domain.Product]
}

// NewProductList returns the controller with an idle resource.
func NewProductList(c *catalog.Service) *ProductList {
	return &ProductList{catalog: c, res: resource.New[[]domain.Product]("products")}
}

// Load fetches the catalog, driving the resource lifecycle. Retry is just
// calling Load again.
func (p *ProductList) Load(ctx context.Context) {
	_ = p.res.Load(ctx, func(ctx context.Context) ([]domain.Product, error) {
		return p.catalog.List(ctx)
	})
}

// Snapshot returns the current view state.
func (p *ProductList) Snapshot() resource.Snapshot[[]domain.Product] {
	return p.res.Snapshot()
}

// Delete removes a product and refreshes the listing on success.
func (p *ProductList) Delete(ctx context.Context, id string) error {
	if err := p.catalog.Delete(ctx, id); err != nil {
		return err
	}
	p.Load(ctx)
	return nil
}

// ProductDetail backs /product/:id. Navigating to another id re-loads the
// same resource; a stale fetch that resolves late cannot overwrite the
// newer product.
type ProductDetail struct {
	catalog *catalog.Service
	sess    *session.Session
	res     *resource.Resource[domain.Product]
}

// NewProductDetail returns the controller with an idle resource.
func NewProductDetail(c *catalog.Service, sess *session.Session) *ProductDetail {
	return &ProductDetail{catalog: c, sess: sess, res: resource.New[domain.Product]("product")}
}

// Load fetches the product with the given id.
func (p *ProductDetail) Load(ctx context.Context, id string) {
	_ = p.res.Load(ctx, func(ctx context.Context) (domain.Product, error) {
		prod, err := p.catalog.Get(ctx, id)
		if err != nil {
			return domain.Product{}, err
		}
		return *prod, nil
	})
}

// Snapshot returns the current view state.
func (p *ProductDetail) Snapshot() resource.Snapshot[domain.Product] {
	return p.res.Snapshot()
}

// AddToCart dispatches the add command for the loaded product and returns
// the updated cart. It is a no-op unless the resource is Ready.
func (p *ProductDetail) AddToCart() (CartView, bool) {
	snap := p.res.Snapshot()
	if snap.State != resource.Ready {
		return CartView{}, false
	}
	updated := p.sess.UpdateCart(func(c cartValue) cartValue {
		return c.Add(snap.Value)
	})
	return viewOf(updated), true
}

// AddProduct backs /add-product: validate and create.
type AddProduct struct {
	catalog *catalog.Service
}

// NewAddProduct returns the controller.
func NewAddProduct(c *catalog.Service) *AddProduct {
	return &AddProduct{catalog: c}
}

// Submit validates the form and creates the product. Field errors come
// back non-empty when validation fails; err reports backend failures.
func (a *AddProduct) Submit(ctx context.Context, f catalog.Form) (id string, fieldErrs map[string]string, err error) {
	id, fieldErrs, err = a.catalog.Create(ctx, f)
	if len(fieldErrs) > 0 {
		return "", fieldErrs, nil
	}
	return id, nil, err
}

// EditProduct backs /edit-product/:id: pre-load current values, then
// validate and update with the same rules as AddProduct.
type EditProduct struct {
	catalog *catalog.Service
	res     *resource.Resource[domain.Product]
}

// NewEditProduct returns the controller with an idle resource.
func NewEditProduct(c *catalog.Service) *EditProduct {
	return &EditProduct{catalog: c, res: resource.New[domain.Product]("product")}
}

// Load pre-loads the product being edited.
func (e *EditProduct) Load(ctx context.Context, id string) {
	_ = e.res.Load(ctx, func(ctx context.Context) (domain.Product, error) {
		prod, err := e.catalog.Get(ctx, id)
		if err != nil {
			return domain.Product{}, err
		}
		return *prod, nil
	})
}

// Snapshot returns the current view state.
func (e *EditProduct) Snapshot() resource.Snapshot[domain.Product] {
	return e.res.Snapshot()
}

// Submit validates the form and updates the product.
func (e *EditProduct) Submit(ctx context.Context, id string, f catalog.Form) (fieldErrs map[string]string, err error) {
	fieldErrs, err = e.catalog.Update(ctx, id, f)
	if len(fieldErrs) > 0 {
		return fieldErrs, nil
	}
	return nil, err
}
