package cart

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestCookieStoreWriteThenRead(t *testing.T) {
	store := CookieStore{Name: "cart", MaxAge: 24 * time.Hour}
	rec := httptest.NewRecorder()
	if err := store.Write(rec, New(Item{ProductID: "7", Quantity: 2})); err != nil {
		t.Fatalf("write: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.HttpOnly {
		t.Fatal("cart cookie must stay readable by the storefront")
	}
	if cookie.MaxAge != 86400 || cookie.Path != "/" || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	if got := store.Read(req); got.Quantity("7") != 2 {
		t.Fatalf("expected quantity 2, got %+v", got.Items())
	}
}

func TestCookieStoreReadsUnescapedAndMissingCookies(t *testing.T) {
	store := CookieStore{}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if !store.Read(req).IsEmpty() {
		t.Fatal("missing cookie should be an empty cart")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart", Value: url.QueryEscape(`[{"productId":"3","quantity":"1"}]`)})
	if store.Read(req).Quantity("3") != 1 {
		t.Fatal("expected escaped cookie to parse")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "cart", Value: "%%%"})
	if !store.Read(req).IsEmpty() {
		t.Fatal("garbled cookie should be an empty cart")
	}
}

func TestCookieStoreClearExpires(t *testing.T) {
	rec := httptest.NewRecorder()
	CookieStore{Name: "cart"}.Clear(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}
