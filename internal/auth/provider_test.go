package auth

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/docstore"
	"storefront/internal/domain"
)

func TestCreateAccountAndSignIn(t *testing.T) {
	p := New(docstore.NewMemory(), nil)

	account, err := p.CreateAccount(context.Background(), " Ann@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if account.Email != "ann@example.com" {
		t.Fatalf("email not normalized: %q", account.Email)
	}
	if account.UID == "" {
		t.Fatalf("missing uid")
	}

	signedIn, token, err := p.SignIn(context.Background(), "ann@example.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if token == "" {
		t.Fatalf("missing token")
	}
	if signedIn.UID != account.UID {
		t.Fatalf("uid mismatch: %q vs %q", signedIn.UID, account.UID)
	}
}

func TestCreateAccountValidation(t *testing.T) {
	p := New(docstore.NewMemory(), nil)

	if _, err := p.CreateAccount(context.Background(), "not-an-email", "secret1"); err == nil {
		t.Fatalf("expected email validation error")
	}
	if _, err := p.CreateAccount(context.Background(), "a@b.com", "short"); err == nil {
		t.Fatalf("expected password length error")
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	p := New(docstore.NewMemory(), nil)
	if _, err := p.CreateAccount(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := p.CreateAccount(context.Background(), "A@B.com", "secret2")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	p := New(docstore.NewMemory(), nil)
	if _, err := p.CreateAccount(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, _, err := p.SignIn(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	_, _, err = p.SignIn(context.Background(), "unknown@b.com", "secret1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAccountForTokenRoundTrip(t *testing.T) {
	p := New(docstore.NewMemory(), nil)
	if _, err := p.CreateAccount(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	account, token, err := p.SignIn(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	resolved, err := p.AccountForToken(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.UID != account.UID {
		t.Fatalf("uid mismatch")
	}

	if _, err := p.AccountForToken(context.Background(), "bogus"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := p.AccountForToken(context.Background(), ""); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for empty token, got %v", err)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	p := New(docstore.NewMemory(), nil)
	if _, err := p.CreateAccount(context.Background(), "a@b.com", "secret1"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, token, err := p.SignIn(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if err := p.SignOut(context.Background(), token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := p.AccountForToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token survived sign-out: %v", err)
	}

	// Revoking again is a no-op.
	if err := p.SignOut(context.Background(), token); err != nil {
		t.Fatalf("second sign out: %v", err)
	}
}

func TestDeleteAccountRemovesTokens(t *testing.T) {
	store := docstore.NewMemory()
	p := New(store, nil)
	account, err := p.CreateAccount(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, token, err := p.SignIn(context.Background(), "a@b.com", "secret1")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}

	if err := p.DeleteAccount(context.Background(), account.UID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.AccountForToken(context.Background(), token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("token survived account deletion")
	}
	if _, _, err := p.SignIn(context.Background(), "a@b.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("deleted account can still sign in")
	}
}
