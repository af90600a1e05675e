package store

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// LoadCookies returns the unexpired cookies persisted for origin.
func (s Store) LoadCookies(ctx context.Context, origin string) ([]*http.Cookie, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	now := time.Now().Unix()
	rows, err := db.QueryContext(ctx, `SELECT name, path, domain, value, expires_unix, secure, http_only, same_site
		FROM cookies WHERE origin = ? AND (expires_unix = 0 OR expires_unix > ?)
		ORDER BY name, path`, normalizeOrigin(origin), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*http.Cookie
	for rows.Next() {
		var (
			c        http.Cookie
			expires  int64
			secure   int
			httpOnly int
			sameSite int
		)
		if err := rows.Scan(&c.Name, &c.Path, &c.Domain, &c.Value, &expires, &secure, &httpOnly, &sameSite); err != nil {
			return nil, err
		}
		if expires > 0 {
			c.Expires = time.Unix(expires, 0).UTC()
		}
		c.Secure = secure != 0
		c.HttpOnly = httpOnly != 0
		c.SameSite = http.SameSite(sameSite)
		out = append(out, &c)
	}
	return out, rows.Err()
}

// SaveCookies upserts cookies for origin. Cookies that are already expired (or
// carry MaxAge < 0) delete their stored counterpart, mirroring how a browser
// treats a Set-Cookie that clears a session.
func (s Store) SaveCookies(ctx context.Context, origin string, cookies []*http.Cookie) error {
	if len(cookies) == 0 {
		return nil
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	key := normalizeOrigin(origin)
	now := time.Now()
	for _, c := range cookies {
		if c == nil || c.Name == "" {
			continue
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		if cookieExpired(c, now) {
			if _, err := tx.ExecContext(ctx, `DELETE FROM cookies WHERE origin = ? AND name = ? AND path = ?`, key, c.Name, path); err != nil {
				return err
			}
			continue
		}
		var expires int64
		switch {
		case c.MaxAge > 0:
			expires = now.Add(time.Duration(c.MaxAge) * time.Second).Unix()
		case !c.Expires.IsZero():
			expires = c.Expires.Unix()
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO cookies(origin, name, path, domain, value, expires_unix, secure, http_only, same_site, updated_at_unixms)
			VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			key, c.Name, path, c.Domain, c.Value, expires, boolToInt(c.Secure), boolToInt(c.HttpOnly), int(c.SameSite), now.UTC().UnixMilli()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ClearCookies removes every cookie stored for origin.
func (s Store) ClearCookies(ctx context.Context, origin string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `DELETE FROM cookies WHERE origin = ?`, normalizeOrigin(origin))
	return err
}

func cookieExpired(c *http.Cookie, now time.Time) bool {
	if c.MaxAge < 0 {
		return true
	}
	if c.MaxAge == 0 && !c.Expires.IsZero() && !c.Expires.After(now) {
		return true
	}
	return false
}
