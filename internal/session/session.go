package session

import (
	"errors"
	"time"

	"github.com/ideafactory/ideas/internal/model"
)

// ErrNotSignedIn is returned when a command needs credentials the active
// profile does not have.
var ErrNotSignedIn = errors.New("not signed in")

// Session is the signed-in user of the active profile.
type Session struct {
	Profile string
	User    model.User
	Token   string
}

// Expired reports whether the token's advertised expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.User.ExpiresAt.IsZero() && now.After(s.User.ExpiresAt)
}

// Current returns the signed-in user of the active profile.
func (s *State) Current() (*Session, error) {
	name, prof, err := s.Active()
	if err != nil {
		return nil, err
	}
	if prof.Token == "" || prof.User == nil {
		return nil, ErrNotSignedIn
	}
	return &Session{Profile: name, User: *prof.User, Token: prof.Token}, nil
}

// SignIn stores the token and user from a login or signup response on the
// active profile.
func (s *State) SignIn(resp *model.AuthResponse) error {
	if resp.Token == "" {
		return errors.New("session: response carries no token")
	}
	u := resp.User()
	return s.UpdateActive(func(p *Profile) {
		p.Token = resp.Token
		p.User = &u
	})
}

// SignOut forgets the user token of the active profile.
func (s *State) SignOut() error {
	return s.UpdateActive(func(p *Profile) {
		p.Token = ""
		p.User = nil
	})
}

// AdminToken returns the administrator token of the active profile.
func (s *State) AdminToken() (string, error) {
	_, prof, err := s.Active()
	if err != nil {
		return "", err
	}
	if prof.AdminToken == "" {
		return "", ErrNotSignedIn
	}
	return prof.AdminToken, nil
}

// SignInAdmin stores an administrator token on the active profile.
func (s *State) SignInAdmin(resp *model.AdminLoginResponse) error {
	if resp.Token == "" {
		return errors.New("session: response carries no token")
	}
	return s.UpdateActive(func(p *Profile) {
		p.AdminToken = resp.Token
		p.AdminUser = resp.Username
	})
}

// SignOutAdmin forgets the administrator token of the active profile.
func (s *State) SignOutAdmin() error {
	return s.UpdateActive(func(p *Profile) {
		p.AdminToken = ""
		p.AdminUser = ""
	})
}
