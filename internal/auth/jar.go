package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"todo-cli/internal/logging"
)

// CookieStore persists cookies per origin. store.Store implements it.
type CookieStore interface {
	LoadCookies(ctx context.Context, origin string) ([]*http.Cookie, error)
	SaveCookies(ctx context.Context, origin string, cookies []*http.Cookie) error
	ClearCookies(ctx context.Context, origin string) error
}

// Jar is an in-memory cookie jar for one backend origin whose writes are
// mirrored into a CookieStore, so a session survives between runs.
type Jar struct {
	mu     sync.Mutex
	inner  *cookiejar.Jar
	origin *url.URL
	store  CookieStore
	log    *slog.Logger
}

var _ http.CookieJar = (*Jar)(nil)

// NewJar restores the persisted cookies for baseURL. A nil store gives a
// jar that only lives in memory.
func NewJar(ctx context.Context, baseURL string, st CookieStore, log *slog.Logger) (*Jar, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: invalid", baseURL)
	}
	origin := &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
	if log == nil {
		log = logging.Discard()
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	j := &Jar{inner: inner, origin: origin, store: st, log: log}
	if st == nil {
		return j, nil
	}
	saved, err := st.LoadCookies(ctx, origin.String())
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	if len(saved) > 0 {
		inner.SetCookies(origin, saved)
		log.Debug("restored cookies", "origin", origin.String(), "count", len(saved))
	}
	return j, nil
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	inner := j.inner
	j.mu.Unlock()
	inner.SetCookies(u, cookies)

	if j.store == nil || !j.sameOrigin(u) {
		return
	}
	// http.CookieJar has no context; persistence is local and short.
	if err := j.store.SaveCookies(context.Background(), j.origin.String(), cookies); err != nil {
		j.log.Warn("persist cookies failed", "err", err)
	}
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	inner := j.inner
	j.mu.Unlock()
	return inner.Cookies(u)
}

// Clear forgets every cookie, in memory and on disk.
func (j *Jar) Clear(ctx context.Context) error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}
	j.mu.Lock()
	j.inner = inner
	j.mu.Unlock()
	if j.store == nil {
		return nil
	}
	if err := j.store.ClearCookies(ctx, j.origin.String()); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

func (j *Jar) sameOrigin(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Scheme, j.origin.Scheme) && strings.EqualFold(u.Host, j.origin.Host)
}
