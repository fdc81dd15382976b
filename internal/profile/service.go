// Package profile manages the editable "users" record that accompanies an
// account: display name and address, created at registration.
package profile

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

// Service is the user-profile collection, one record per account uid.
type Service struct {
	store  docstore.Store
	logger *log.Logger
}

// New creates a Service.
func New(store docstore.Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{store: store, logger: logger}
}

// CreateFor writes the initial profile record at registration time.
func (s *Service) CreateFor(ctx context.Context, account domain.Account) error {
	_, err := s.store.Create(ctx, docstore.Users, map[string]interface{}{
		"uid":       account.UID,
		"email":     account.Email,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	s.logger.Printf("profile: created uid=%s", account.UID)
	return nil
}

// Get returns the profile for the account uid.
func (s *Service) Get(ctx context.Context, uid string) (*domain.Profile, error) {
	rec, err := s.find(ctx, uid)
	if err != nil {
		return nil, err
	}
	p := profileFromRecord(*rec)
	return &p, nil
}

// Update sets the profile's name and address.
func (s *Service) Update(ctx context.Context, uid, name, address string) error {
	rec, err := s.find(ctx, uid)
	if err != nil {
		return err
	}
	return s.store.Update(ctx, docstore.Users, rec.ID, map[string]interface{}{
		"name":    name,
		"address": address,
	})
}

// Delete removes the profile record. Missing records are tolerated so
// account deletion stays idempotent.
func (s *Service) Delete(ctx context.Context, uid string) error {
	rec, err := s.find(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.store.Delete(ctx, docstore.Users, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Printf("profile: deleted uid=%s", uid)
	return nil
}

func (s *Service) find(ctx context.Context, uid string) (*docstore.Record, error) {
	records, err := s.store.QueryByField(ctx, docstore.Users, "uid", uid)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}
	return &records[0], nil
}

func profileFromRecord(rec docstore.Record) domain.Profile {
	var p domain.Profile
	p.UID, _ = rec.Fields["uid"].(string)
	p.Email, _ = rec.Fields["email"].(string)
	p.Name, _ = rec.Fields["name"].(string)
	p.Address, _ = rec.Fields["address"].(string)
	p.CreatedAt, _ = rec.Fields["createdAt"].(string)
	return p
}
