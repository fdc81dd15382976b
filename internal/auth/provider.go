// Package auth is the auth capability boundary: account creation, sign-in
// and sign-out, and resolving the account behind a token. Accounts and
// tokens live in the document store; passwords are bcrypt-hashed.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

// Provider implements the auth capability over the document store.
type Provider struct {
	store       docstore.Store
	logger      *log.Logger
	tokenTTL    time.Duration
	passwordMin int
}

// New creates a Provider with sane defaults.
func New(store docstore.Store, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Provider{
		store:       store,
		logger:      logger,
		tokenTTL:    48 * time.Hour,
		passwordMin: 6,
	}
}

// CreateAccount registers a new account for the email. The email is
// lowercased and must not already be registered.
func (p *Provider) CreateAccount(ctx context.Context, email, password string) (*domain.Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("valid email required")
	}
	password = strings.TrimSpace(password)
	if len(password) < p.passwordMin {
		return nil, fmt.Errorf("password must be at least %d characters", p.passwordMin)
	}

	existing, err := p.store.QueryByField(ctx, docstore.Accounts, "email", email)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	uid, err := p.store.Create(ctx, docstore.Accounts, map[string]interface{}{
		"email":        email,
		"passwordHash": string(hashed),
		"createdAt":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	p.logger.Printf("auth: account created uid=%s", uid)
	return &domain.Account{UID: uid, Email: email}, nil
}

// SignIn validates credentials and returns the account plus a fresh token.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*domain.Account, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	records, err := p.store.QueryByField(ctx, docstore.Accounts, "email", email)
	if err != nil {
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", domain.ErrInvalidCredentials
	}
	rec := records[0]
	hash, _ := rec.Fields["passwordHash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(password))) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := randomToken()
	if err != nil {
		return nil, "", err
	}
	_, err = p.store.Create(ctx, docstore.Tokens, map[string]interface{}{
		"token":     token,
		"uid":       rec.ID,
		"expiresAt": time.Now().Add(p.tokenTTL).UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, "", err
	}
	p.logger.Printf("auth: signed in uid=%s", rec.ID)
	return accountFromRecord(rec), token, nil
}

// AccountForToken resolves a valid token to its account. Expired tokens
// are revoked on sight.
func (p *Provider) AccountForToken(ctx context.Context, token string) (*domain.Account, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	records, err := p.store.QueryByField(ctx, docstore.Tokens, "token", token)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrInvalidToken
	}
	rec := records[0]
	if expired(rec.Fields["expiresAt"]) {
		_ = p.store.Delete(ctx, docstore.Tokens, rec.ID)
		return nil, domain.ErrInvalidToken
	}
	uid, _ := rec.Fields["uid"].(string)
	account, err := p.store.GetByID(ctx, docstore.Accounts, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return accountFromRecord(*account), nil
}

// SignOut revokes the token. Revoking an unknown token is a no-op.
func (p *Provider) SignOut(ctx context.Context, token string) error {
	records, err := p.store.QueryByField(ctx, docstore.Tokens, "token", token)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := p.store.Delete(ctx, docstore.Tokens, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	return nil
}

// DeleteAccount removes the account record and all its tokens.
func (p *Provider) DeleteAccount(ctx context.Context, uid string) error {
	tokens, err := p.store.QueryByField(ctx, docstore.Tokens, "uid", uid)
	if err != nil {
		return err
	}
	for _, rec := range tokens {
		if err := p.store.Delete(ctx, docstore.Tokens, rec.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}
	if err := p.store.Delete(ctx, docstore.Accounts, uid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	p.logger.Printf("auth: account deleted uid=%s", uid)
	return nil
}

// UpdateDisplayName sets the account's display name.
func (p *Provider) UpdateDisplayName(ctx context.Context, uid, name string) error {
	return p.store.Update(ctx, docstore.Accounts, uid, map[string]interface{}{
		"displayName": name,
	})
}

func accountFromRecord(rec docstore.Record) *domain.Account {
	email, _ := rec.Fields["email"].(string)
	displayName, _ := rec.Fields["displayName"].(string)
	photoURL, _ := rec.Fields["photoURL"].(string)
	return &domain.Account{
		UID:         rec.ID,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	}
}

func expired(v interface{}) bool {
	raw, _ := v.(string)
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return true
	}
	return time.Now().After(t)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
