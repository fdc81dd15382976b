package controller

import (
	"context"
	"errors"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/profile"
	"storefront/internal/resource"
	"storefront/internal/session"
)

// Register backs /register: create the account, write the initial
// profile record, and sign the session in.
type Register struct {
	auth    *auth.Provider
	profile *profile.Service
	sess    *session.Session
}

// NewRegister returns the controller.
func NewRegister(a *auth.Provider, p *profile.Service, sess *session.Session) *Register {
	return &Register{auth: a, profile: p, sess: sess}
}

// Submit registers and signs in. The profile record is written after the
// account exists, mirroring the registration flow's two writes.
func (r *Register) Submit(ctx context.Context, email, password string) (*domain.Account, error) {
	account, err := r.auth.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := r.profile.CreateFor(ctx, *account); err != nil {
		return nil, err
	}
	signedIn, token, err := r.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	r.sess.SetAccount(signedIn, token)
	return signedIn, nil
}

// Login backs /login.
type Login struct {
	auth *auth.Provider
	sess *session.Session
}

// NewLogin returns the controller.
func NewLogin(a *auth.Provider, sess *session.Session) *Login {
	return &Login{auth: a, sess: sess}
}

// Submit signs in and binds the account to the session.
func (l *Login) Submit(ctx context.Context, email, password string) (*domain.Account, error) {
	account, token, err := l.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	l.sess.SetAccount(account, token)
	return account, nil
}

// SignOut revokes the session's token and clears the account.
func (l *Login) SignOut(ctx context.Context) error {
	token := l.sess.AuthToken()
	if token != "" {
		if err := l.auth.SignOut(ctx, token); err != nil {
			return err
		}
	}
	l.sess.SetAccount(nil, "")
	return nil
}

// Profile backs /profile: the profile record behind an async resource,
// plus edit and account deletion.
type Profile struct {
	profile *profile.Service
	auth    *auth.Provider
	sess    *session.Session
	res     *resource.Resource[domain.Profile]
}

// NewProfile returns the controller with an idle resource.
func NewProfile(p *profile.Service, a *auth.Provider, sess *session.Session) *Profile {
	return &Profile{profile: p, auth: a, sess: sess, res: resource.New[domain.Profile]("profile")}
}

// Load fetches the signed-in account's profile. Without an account it
// reports ErrSignInRequired and leaves the resource alone.
func (p *Profile) Load(ctx context.Context) error {
	account := p.sess.Account()
	if account == nil {
		return domain.ErrSignInRequired
	}
	return p.res.Load(ctx, func(ctx context.Context) (domain.Profile, error) {
		prof, err := p.profile.Get(ctx, account.UID)
		if err != nil {
			return domain.Profile{}, err
		}
		return *prof, nil
	})
}

// Snapshot returns the current view state.
func (p *Profile) Snapshot() resource.Snapshot[domain.Profile] {
	return p.res.Snapshot()
}

// Save updates the profile's name and address and mirrors the name onto
// the account's display name, then refreshes the resource.
func (p *Profile) Save(ctx context.Context, name, address string) error {
	account := p.sess.Account()
	if account == nil {
		return domain.ErrSignInRequired
	}
	if err := p.profile.Update(ctx, account.UID, name, address); err != nil {
		return err
	}
	if err := p.auth.UpdateDisplayName(ctx, account.UID, name); err != nil {
		return err
	}
	updated := *account
	updated.DisplayName = name
	p.sess.SetAccount(&updated, p.sess.AuthToken())
	return p.Load(ctx)
}

// DeleteAccount removes the profile record and the account, then signs
// the session out.
func (p *Profile) DeleteAccount(ctx context.Context) error {
	account := p.sess.Account()
	if account == nil {
		return domain.ErrSignInRequired
	}
	if err := p.profile.Delete(ctx, account.UID); err != nil {
		return err
	}
	if err := p.auth.DeleteAccount(ctx, account.UID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	p.sess.SetAccount(nil, "")
	p.res.Reset()
	return nil
}
