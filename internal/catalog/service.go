// Package catalog reads and writes the product catalog through the
// document store, with a read-through cache in front of list and get.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/docstore"
	"storefront/internal/domain"
)

// ErrInvalidForm is returned by Create/Update when validation fails; the
// per-field messages travel alongside it.
var ErrInvalidForm = errors.New("invalid product form")

const (
	cacheTTL     = 5 * time.Minute
	cacheListKey = "all"
)

// Service is the product catalog over the "products" collection.
type Service struct {
	store  docstore.Store
	cache  cache.Cache
	logger *log.Logger
}

// New creates a Service. cache may be nil to disable caching.
func New(store docstore.Store, c cache.Cache, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, cache: c, logger: logger}
}

// List returns every product in the catalog.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	if cached, ok := s.cachedList(ctx); ok {
		return cached, nil
	}
	records, err := s.store.ListAll(ctx, docstore.Products)
	if err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, productFromRecord(rec))
	}
	s.storeList(ctx, products)
	return products, nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, s.cache.Key("product", id)); err == nil && raw != "" {
			var p domain.Product
			if json.Unmarshal([]byte(raw), &p) == nil {
				return &p, nil
			}
		}
	}
	rec, err := s.store.GetByID(ctx, docstore.Products, id)
	if err != nil {
		return nil, err
	}
	p := productFromRecord(*rec)
	if s.cache != nil {
		if raw, err := json.Marshal(p); err == nil {
			_ = s.cache.Set(ctx, s.cache.Key("product", id), string(raw), cacheTTL)
		}
	}
	return &p, nil
}

// Create validates the form and stores a new product. New products start
// with a zero rating; a missing image gets the placeholder URL.
func (s *Service) Create(ctx context.Context, f Form) (string, map[string]string, error) {
	if errs := Validate(f); len(errs) > 0 {
		return "", errs, ErrInvalidForm
	}
	id, err := s.store.Create(ctx, docstore.Products, fieldsFromForm(f, true))
	if err != nil {
		return "", nil, err
	}
	s.invalidate(ctx, id)
	s.logger.Printf("catalog: product created id=%s", id)
	return id, nil, nil
}

// Update validates the form and overwrites the product's editable fields.
// The rating is left untouched.
func (s *Service) Update(ctx context.Context, id string, f Form) (map[string]string, error) {
	if errs := Validate(f); len(errs) > 0 {
		return errs, ErrInvalidForm
	}
	if err := s.store.Update(ctx, docstore.Products, id, fieldsFromForm(f, false)); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	s.logger.Printf("catalog: product updated id=%s", id)
	return nil, nil
}

// Delete removes a product from the catalog.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, docstore.Products, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Printf("catalog: product deleted id=%s", id)
	return nil
}

func (s *Service) cachedList(ctx context.Context) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.Key("products", cacheListKey))
	if err != nil || raw == "" {
		return nil, false
	}
	var products []domain.Product
	if json.Unmarshal([]byte(raw), &products) != nil {
		return nil, false
	}
	return products, true
}

func (s *Service) storeList(ctx context.Context, products []domain.Product) {
	if s.cache == nil {
		return
	}
	if raw, err := json.Marshal(products); err == nil {
		_ = s.cache.Set(ctx, s.cache.Key("products", cacheListKey), string(raw), cacheTTL)
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, s.cache.Key("products", cacheListKey))
	_ = s.cache.Delete(ctx, s.cache.Key("product", id))
}

// fieldsFromForm converts a validated form to document fields: strings
// trimmed, price parsed, missing image replaced with the placeholder.
func fieldsFromForm(f Form, withRating bool) map[string]interface{} {
	price, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	image := strings.TrimSpace(f.Image)
	if image == "" {
		image = PlaceholderImage
	}
	fields := map[string]interface{}{
		"title":       strings.TrimSpace(f.Title),
		"price":       price,
		"description": strings.TrimSpace(f.Description),
		"category":    f.Category,
		"image":       image,
	}
	if withRating {
		fields["rating"] = map[string]interface{}{"rate": 0.0, "count": 0}
	}
	return fields
}

func validCategory(c string) bool {
	return domain.ValidCategory(c)
}

func productFromRecord(rec docstore.Record) domain.Product {
	p := domain.Product{ID: rec.ID}
	p.Title, _ = rec.Fields["title"].(string)
	p.Description, _ = rec.Fields["description"].(string)
	p.Category, _ = rec.Fields["category"].(string)
	p.Image, _ = rec.Fields["image"].(string)
	p.Price = asFloat(rec.Fields["price"])
	if rating, ok := rec.Fields["rating"].(map[string]interface{}); ok {
		p.Rating = &domain.Rating{
			Rate:  asFloat(rating["rate"]),
			Count: int(asFloat(rating["count"])),
		}
	}
	return p
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
