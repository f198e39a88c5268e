// Package identity resolves the signed-in user for the session layer.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrNotAuthenticated = errors.New("not signed in, run 'daylog login' first")

// namespace scopes user IDs derived from names.
var namespace = uuid.MustParse("6f1c1d4e-5a0b-4e7a-9b53-2f7d4b0c9e11")

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// AuthStatus distinguishes "not determined yet" from a determined absence.
type AuthStatus int

const (
	StatusUnknown AuthStatus = iota
	StatusAbsent
	StatusPresent
)

func (s AuthStatus) String() string {
	switch s {
	case StatusAbsent:
		return "signed out"
	case StatusPresent:
		return "signed in"
	default:
		return "unknown"
	}
}

// Subscription is returned by OnAuthChange.
type Subscription interface {
	Unsubscribe()
}

type Provider interface {
	// CurrentUser resolves the user, returning ErrNotAuthenticated when nobody is signed in.
	CurrentUser(ctx context.Context) (User, error)
	Status() AuthStatus
	// OnAuthChange calls fn with the new user and whether one is present.
	OnAuthChange(fn func(user User, present bool)) Subscription
}

// UserID derives a stable user ID from a display name.
func UserID(name string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToLower(strings.TrimSpace(name)))).String()
}

// NewUser builds a User with a derived ID.
func NewUser(name, email string) User {
	name = strings.TrimSpace(name)
	return User{ID: UserID(name), Name: name, Email: strings.TrimSpace(email)}
}

type listeners struct {
	mu     sync.Mutex
	nextID int
	fns    map[int]func(User, bool)
}

func (l *listeners) add(fn func(User, bool)) Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(User, bool))
	}
	id := l.nextID
	l.nextID++
	l.fns[id] = fn
	return subscription(func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.fns, id)
	})
}

func (l *listeners) emit(user User, present bool) {
	l.mu.Lock()
	fns := make([]func(User, bool), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(user, present)
	}
}

type subscription func()

func (s subscription) Unsubscribe() { s() }
