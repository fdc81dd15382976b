// Package seed loads a small demo catalog for manual testing.
package seed

import (
	"context"
	"fmt"

	"storefront/internal/docstore"
)

type productSeed struct {
	Title       string
	Price       float64
	Description string
	Category    string
	Image       string
	Rate        float64
	Count       int
}

// Apply inserts one demo product per category. It is idempotent via a
// title lookup, so re-running it does not duplicate the catalog.
func Apply(ctx context.Context, store docstore.Store) error {
	products := []productSeed{
		{
			Title:       "Classic Cotton T-Shirt",
			Price:       19.99,
			Description: "Soft cotton tee in a relaxed everyday fit",
			Category:    "men's clothing",
			Image:       "https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg",
			Rate:        4.1,
			Count:       259,
		},
		{
			Title:       "Lightweight Rain Jacket",
			Price:       39.99,
			Description: "Packable windbreaker with a water-resistant shell",
			Category:    "women's clothing",
			Image:       "https://fakestoreapi.com/img/71HblAHs5xL._AC_UY879_-2.jpg",
			Rate:        3.8,
			Count:       679,
		},
		{
			Title:       "Sterling Silver Pendant",
			Price:       24.5,
			Description: "Minimal pendant on an 18 inch sterling chain",
			Category:    "jewelery",
			Image:       "https://fakestoreapi.com/img/71pWzhdJNwL._AC_UL640_QL65_ML3_.jpg",
			Rate:        4.6,
			Count:       400,
		},
		{
			Title:       "Portable External SSD 1TB",
			Price:       109.0,
			Description: "Pocket-size solid state drive with USB-C connectivity",
			Category:    "electronics",
			Image:       "https://fakestoreapi.com/img/61U7T1koQqL._AC_SX679_.jpg",
			Rate:        4.8,
			Count:       319,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, store, p); err != nil {
			return fmt.Errorf("seed product %q: %w", p.Title, err)
		}
	}
	return nil
}

func upsertProduct(ctx context.Context, store docstore.Store, p productSeed) error {
	existing, err := store.QueryByField(ctx, docstore.Products, "title", p.Title)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = store.Create(ctx, docstore.Products, map[string]interface{}{
		"title":       p.Title,
		"price":       p.Price,
		"description": p.Description,
		"category":    p.Category,
		"image":       p.Image,
		"rating":      map[string]interface{}{"rate": p.Rate, "count": p.Count},
	})
	return err
}
