package contacts

import (
	"context"
	"testing"

	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
)

func TestContactInboxFlow(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	first, err := svc.Create(ctx, Input{Name: " Ana ", Email: "ANA@example.com", Message: "¿Hacen envíos a Córdoba?"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.IsRead || first.Email != "ana@example.com" || first.Name != "Ana" {
		t.Fatalf("unexpected contact %+v", first)
	}
	if _, err := svc.Create(ctx, Input{Name: "Beto", Email: "beto@example.com", Message: "Precio por mayor"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.MarkRead(ctx, first.ID, true); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, err := svc.List(ctx, ListFilter{Unread: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if unread.Total != 1 || unread.Items[0].Name != "Beto" {
		t.Fatalf("expected only the unread message, got %+v", unread)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, first.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestContactValidation(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.Create(context.Background(), Input{Name: "", Email: "x", Message: " "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := typed.Details().(map[string]string)
	for _, field := range []string{"name", "email", "message"} {
		if _, ok := details[field]; !ok {
			t.Fatalf("missing detail for %s: %v", field, details)
		}
	}
}
