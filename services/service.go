package services

import (
	"time"

	"gorm.io/gorm"
)

// Actor is the already-authenticated identity an operation runs as. Route
// level role gating happens in middleware; services only perform the
// ownership and elevation checks their contracts require.
type Actor struct {
	UserID int
	Roles  []string
}

// HasRole reports whether the actor holds the named role.
func (a Actor) HasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

type base struct {
	db  *gorm.DB
	now func() time.Time
}

// Option configures a service.
type Option func(*base)

// WithClock overrides the time source, used by tests.
func WithClock(fn func() time.Time) Option {
	return func(b *base) {
		b.now = fn
	}
}

func newBase(db *gorm.DB, opts []Option) base {
	b := base{db: db, now: time.Now}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
