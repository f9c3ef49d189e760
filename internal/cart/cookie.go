package cart

import (
	"net/http"
	"net/url"
	"time"
)

// CookieStore reads and writes the cart cookie. The cookie stays readable by
// storefront scripts, so it is not HttpOnly.
type CookieStore struct {
	Name   string
	MaxAge time.Duration
	Secure bool
	Domain string
}

const defaultCookieName = "cart"

func (s CookieStore) name() string {
	if s.Name == "" {
		return defaultCookieName
	}
	return s.Name
}

// Read returns the request's cart. A missing or garbled cookie is an empty cart.
func (s CookieStore) Read(r *http.Request) Cart {
	cookie, err := r.Cookie(s.name())
	if err != nil {
		return Cart{}
	}
	value, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		value = cookie.Value
	}
	return Parse(value)
}

func (s CookieStore) Write(w http.ResponseWriter, c Cart) error {
	encoded, err := c.Encode()
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(url.QueryEscape(encoded), int(s.MaxAge/time.Second)))
	return nil
}

// Clear expires the cookie.
func (s CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", -1))
}

func (s CookieStore) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.name(),
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	}
}
