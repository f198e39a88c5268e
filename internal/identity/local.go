package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/daylog/internal/constants"
	"github.com/julianstephens/daylog/internal/keyring"
)

// Local keeps the signed-in user in the OS keyring.
type Local struct {
	mu     sync.Mutex
	status AuthStatus
	user   User

	listeners listeners
}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Status() AuthStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *Local) CurrentUser(ctx context.Context) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.status == StatusUnknown {
		if err := l.resolve(); err != nil {
			return User{}, err
		}
	}
	if l.status == StatusAbsent {
		return User{}, ErrNotAuthenticated
	}
	return l.user, nil
}

func (l *Local) resolve() error {
	raw, err := keyring.Get(constants.IdentityKeyringKey)
	if errors.Is(err, keyring.ErrNotFound) {
		l.user = User{}
		l.status = StatusAbsent
		return nil
	}
	if err != nil {
		return err
	}

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return fmt.Errorf("stored identity is corrupt: %w", err)
	}
	l.user = u
	l.status = StatusPresent
	return nil
}

// Refresh re-reads the keyring and notifies listeners when the signed-in
// user changed, e.g. after a logout from another process.
func (l *Local) Refresh() error {
	l.mu.Lock()
	prevStatus, prevID := l.status, l.user.ID
	if err := l.resolve(); err != nil {
		l.mu.Unlock()
		return err
	}
	user, status := l.user, l.status
	l.mu.Unlock()

	if status == prevStatus && user.ID == prevID {
		return nil
	}
	l.listeners.emit(user, status == StatusPresent)
	return nil
}

// Login stores the user and notifies listeners.
func (l *Local) Login(name, email string) (User, error) {
	if strings.TrimSpace(name) == "" {
		return User{}, errors.New("name cannot be empty")
	}
	u := NewUser(name, email)
	raw, err := json.Marshal(u)
	if err != nil {
		return User{}, err
	}
	if err := keyring.Set(constants.IdentityKeyringKey, string(raw)); err != nil {
		return User{}, err
	}

	l.mu.Lock()
	l.user = u
	l.status = StatusPresent
	l.mu.Unlock()

	l.listeners.emit(u, true)
	return u, nil
}

// Logout forgets the stored user. Logging out twice is not an error.
func (l *Local) Logout() error {
	if err := keyring.Delete(constants.IdentityKeyringKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	l.mu.Lock()
	l.user = User{}
	l.status = StatusAbsent
	l.mu.Unlock()

	l.listeners.emit(User{}, false)
	return nil
}

func (l *Local) OnAuthChange(fn func(User, bool)) Subscription {
	return l.listeners.add(fn)
}

// Static always reports the same user. Used for DAYLOG_USER overrides and tests.
type Static struct {
	user      User
	listeners listeners
}

func NewStatic(user User) *Static {
	return &Static{user: user}
}

func (s *Static) CurrentUser(ctx context.Context) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	return s.user, nil
}

func (s *Static) Status() AuthStatus {
	return StatusPresent
}

func (s *Static) OnAuthChange(fn func(User, bool)) Subscription {
	return s.listeners.add(fn)
}
