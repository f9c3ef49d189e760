package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

type contactBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"","email":"nope"}`))
	var body contactBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if details["name"] != "es obligatorio" || details["email"] != "debe ser un email válido" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ana","email":"ana@example.com","extra":1}`))
	var body contactBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest("GET", "/?page=2&perPage=50&q=%20taza%20", nil)
	params, err := ParsePagination(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Page != 2 || params.PerPage != 50 || params.Query != "taza" {
		t.Fatalf("unexpected params %+v", params)
	}

	defaults, err := ParsePagination(httptest.NewRequest("GET", "/", nil))
	if err != nil || defaults.PerPage != pagination.DefaultPerPage || defaults.Page != 1 {
		t.Fatalf("unexpected defaults %+v err %v", defaults, err)
	}

	if _, err := ParsePagination(httptest.NewRequest("GET", "/?perPage=1000", nil)); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID("7", "id"); err != nil || id != 7 {
		t.Fatalf("expected 7, got %d err %v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := ParseID(raw, "id"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseQueryBool(t *testing.T) {
	v, err := ParseQueryBool(httptest.NewRequest("GET", "/?featured=true", nil), "featured")
	if err != nil || v == nil || !*v {
		t.Fatalf("expected true, got %v err %v", v, err)
	}
	v, err = ParseQueryBool(httptest.NewRequest("GET", "/", nil), "featured")
	if err != nil || v != nil {
		t.Fatalf("expected nil, got %v", v)
	}
}
