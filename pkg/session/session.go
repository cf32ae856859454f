// Package session provides cookie sessions over a pluggable Store.
//
// Middleware loads the session named by the cookie (or starts an empty one)
// and refreshes its idle expiry. Handlers reach it with FromCtx:
//
//	sess := session.FromCtx(r.Context())
//	if err := sess.Renew(); err != nil { ... }
//	sess.SetAuthenticated("admin")
//	err := sess.Save(r.Context(), w)
//
// Empty sessions are never written to the store.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

const (
	keyAuthenticated = "authenticated"
	keyUsername      = "username"
)

// Options configures the session cookie.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions reads SESSION_COOKIE, SESSION_TTL and SESSION_SECURE.
func DefaultOptions() Options {
	return Options{
		CookieName: config.SessionCookie(),
		TTL:        config.SessionTTL(),
		Secure:     config.SessionSecure(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

// Session is the per-request handle on one stored session.
type Session struct {
	id      string
	staleID string
	values  map[string]string
	stored  bool
	store   Store
	opts    Options
}

func newSession(store Store, opts Options) *Session {
	return &Session{id: uuid.NewString(), values: map[string]string{}, store: store, opts: opts}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	s.values[key] = value
}

// Renew moves the session to a fresh ID. The old ID is deleted from the
// store on the next Save.
func (s *Session) Renew() error {
	if s.stored && s.staleID == "" {
		s.staleID = s.id
	}
	s.id = uuid.NewString()
	return nil
}

// SetAuthenticated marks the session as logged in as username.
func (s *Session) SetAuthenticated(username string) {
	s.values[keyAuthenticated] = "true"
	s.values[keyUsername] = username
}

func (s *Session) Authenticated() bool {
	return s.values[keyAuthenticated] == "true"
}

func (s *Session) Username() string {
	return s.values[keyUsername]
}

// Save writes the values to the store and sets the cookie.
func (s *Session) Save(ctx context.Context, w http.ResponseWriter) error {
	if s.staleID != "" {
		if err := s.store.Delete(ctx, s.staleID); err != nil {
			return fmt.Errorf("session: drop stale id: %w", err)
		}
		s.staleID = ""
	}
	if err := s.store.Save(ctx, s.id, maps.Clone(s.values), s.opts.TTL); err != nil {
		return err
	}
	s.stored = true
	http.SetCookie(w, s.cookie(s.id, int(s.opts.TTL.Seconds())))
	return nil
}

// Destroy deletes the session from the store and expires the cookie. The
// handle is left empty.
func (s *Session) Destroy(ctx context.Context, w http.ResponseWriter) error {
	if err := s.store.Delete(ctx, s.id); err != nil {
		return err
	}
	s.values = map[string]string{}
	s.stored = false
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Session) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     s.opts.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: s.opts.SameSite,
	}
}

type ctxKey struct{}

// Middleware attaches a Session to every request. A known session has its
// idle expiry pushed out and its cookie re-sent.
func Middleware(store Store, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sess := newSession(store, opts)

			if c, err := r.Cookie(opts.CookieName); err == nil && c.Value != "" {
				values, err := store.Load(ctx, c.Value)
				switch {
				case err == nil:
					sess.id, sess.values, sess.stored = c.Value, values, true
					if err := store.Touch(ctx, sess.id, opts.TTL); err != nil && !errors.Is(err, ErrNotFound) {
						logger.WithCtx(ctx).Warn("session: touch failed", "error", err)
					}
					http.SetCookie(w, sess.cookie(sess.id, int(opts.TTL.Seconds())))
				case errors.Is(err, ErrNotFound):
				default:
					logger.WithCtx(ctx).Warn("session: load failed", "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxKey{}, sess)))
		})
	}
}

// FromCtx returns the request's session. Outside Middleware it returns a
// detached empty session whose Save fails.
func FromCtx(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return s
	}
	return newSession(detached{}, DefaultOptions())
}

var errDetached = errors.New("session: no session middleware installed")

type detached struct{}

func (detached) Load(context.Context, string) (map[string]string, error) { return nil, ErrNotFound }
func (detached) Save(context.Context, string, map[string]string, time.Duration) error {
	return errDetached
}
func (detached) Touch(context.Context, string, time.Duration) error { return ErrNotFound }
func (detached) Delete(context.Context, string) error                { return errDetached }
