package sessions

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey struct{}

// Binder ties browsers to sessions through a cookie.
type Binder struct {
	store  *Store
	name   string
	secure bool
}

// NewBinder creates a Binder using the cookie settings in cfg.
func NewBinder(store *Store, cfg *Config) *Binder {
	return &Binder{
		store:  store,
		name:   cfg.CookieName,
		secure: cfg.SecureCookie,
	}
}

// Bind resolves the request's session, creating one and setting the cookie
// when the request carries no live session, and stores the id in the request
// context for IDFromContext.
func (b *Binder) Bind(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := b.Resolve(w, r)
		next(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	}
}

// Resolve returns the live session for r, creating one when needed.
func (b *Binder) Resolve(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if c, err := r.Cookie(b.name); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil && b.store.Exists(id) {
			return id
		}
	}

	id := b.store.Create()
	http.SetCookie(w, b.cookie(id.String(), 0))
	return id
}

// Clear expires the session cookie.
func (b *Binder) Clear(w http.ResponseWriter) {
	http.SetCookie(w, b.cookie("", -1))
}

func (b *Binder) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     b.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// IDFromContext returns the session id stored by Bind.
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return id, ok
}
