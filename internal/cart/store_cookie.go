package cart

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

const cartCookieName = "cart"

// CookieStore persists the cart in a browser cookie. It is request-scoped:
// construct one per request around the fiber context. The JSON payload is
// URL-escaped because raw JSON is not a legal cookie value.
type CookieStore struct {
	c   *fiber.Ctx
	ttl time.Duration
}

func NewCookieStore(c *fiber.Ctx, ttl time.Duration) *CookieStore {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CookieStore{c: c, ttl: ttl}
}

func (s *CookieStore) Load(ctx context.Context, sessionID string) ([]LineItem, bool, error) {
	raw := s.c.Cookies(cartCookieName)
	if raw == "" {
		return nil, false, nil
	}
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		// unreadable cookie counts as corrupt, not as an error
		return []LineItem{}, true, nil
	}
	return decodeItems([]byte(decoded)), true, nil
}

func (s *CookieStore) Save(ctx context.Context, sessionID string, items []LineItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	s.c.Cookie(&fiber.Cookie{
		Name:     cartCookieName,
		Value:    url.QueryEscape(string(payload)),
		Path:     "/",
		Expires:  time.Now().Add(s.ttl),
		HTTPOnly: false,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (s *CookieStore) Clear(ctx context.Context, sessionID string) error {
	s.c.Cookie(&fiber.Cookie{
		Name:     cartCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}
