// Package orders handles order history reads and the write-once order
// creation performed at checkout.
package orders

import (
	"context"
	"io"
	"log"
	"time"

	"storefront/internal/cart"
	"storefront/internal/docstore"
	"storefront/internal/domain"
)

// Service is the order collection over the document store.
type Service struct {
	store  docstore.Store
	logger *log.Logger
	now    func() time.Time
}

// New creates a Service.
func New(store docstore.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Create writes a new order assembled from the cart snapshot. Orders are
// never updated or deleted afterwards.
func (s *Service) Create(ctx context.Context, userID, name, email, address string, items []cart.Item, total float64) (string, error) {
	products := make([]interface{}, 0, len(items))
	for _, it := range items {
		line := map[string]interface{}{
			"id":       it.ID,
			"title":    it.Title,
			"price":    it.Price,
			"quantity": it.Quantity,
		}
		if it.Image != "" {
			line["image"] = it.Image
		}
		if it.Category != "" {
			line["category"] = it.Category
		}
		products = append(products, line)
	}

	id, err := s.store.Create(ctx, docstore.Orders, map[string]interface{}{
		"userId":    userID,
		"name":      name,
		"email":     email,
		"address":   address,
		"products":  products,
		"total":     total,
		"createdAt": s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	s.logger.Printf("orders: created id=%s user=%s total=%.2f", id, userID, total)
	return id, nil
}

// ListByUser returns the user's orders in creation order.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	records, err := s.store.QueryByField(ctx, docstore.Orders, "userId", userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(records))
	for _, rec := range records {
		out = append(out, orderFromRecord(rec))
	}
	return out, nil
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	rec, err := s.store.GetByID(ctx, docstore.Orders, id)
	if err != nil {
		return nil, err
	}
	o := orderFromRecord(*rec)
	return &o, nil
}

func orderFromRecord(rec docstore.Record) domain.Order {
	o := domain.Order{ID: rec.ID}
	o.UserID, _ = rec.Fields["userId"].(string)
	o.Name, _ = rec.Fields["name"].(string)
	o.Email, _ = rec.Fields["email"].(string)
	o.Address, _ = rec.Fields["address"].(string)
	o.CreatedAt, _ = rec.Fields["createdAt"].(string)
	o.Total = asFloat(rec.Fields["total"])
	if raw, ok := rec.Fields["products"].([]interface{}); ok {
		for _, entry := range raw {
			line, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			var ol domain.OrderLine
			ol.ProductID, _ = line["id"].(string)
			ol.Title, _ = line["title"].(string)
			ol.Image, _ = line["image"].(string)
			ol.Category, _ = line["category"].(string)
			ol.Price = asFloat(line["price"])
			ol.Quantity = int(asFloat(line["quantity"]))
			o.Products = append(o.Products, ol)
		}
	}
	return o
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
