package responsibles

import (
	"context"
	"testing"

	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
	"github.com/angelmondragon/giftshop-backend/pkg/pagination"
)

func TestResponsibleLifecycle(t *testing.T) {
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(client.DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Laura", Email: "Laura@Regaleria.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.IsActive || created.Email != "laura@regaleria.com" {
		t.Fatalf("unexpected responsible %+v", created)
	}

	if _, err := svc.Create(ctx, Input{Name: "Otra", Email: "laura@regaleria.com"}); !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	inactive := false
	if _, err := svc.Update(ctx, created.ID, Input{Name: "Laura P.", Email: "laura@regaleria.com", IsActive: &inactive}); err != nil {
		t.Fatalf("update: %v", err)
	}
	active := true
	page, err := svc.List(ctx, pagination.Params{}, &active)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("expected no active responsibles, got %d", page.Total)
	}
}

func TestDeleteUnassignsBudgets(t *testing.T) {
	client := dbtest.Open(t)
	svc, _ := NewService(NewRepository(client.DB()))
	ctx := context.Background()

	created, err := svc.Create(ctx, Input{Name: "Laura", Email: "laura@regaleria.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	customer := &models.Customer{Name: "Ana", Email: "ana@example.com", Type: enums.CustomerTypeRetail}
	if err := client.DB().Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	budget := &models.Budget{Kind: enums.BudgetKindBudget, Status: enums.BudgetStatusPending, CustomerID: customer.ID, ResponsibleID: &created.ID, ContactName: "Ana", ContactEmail: "ana@example.com"}
	if err := client.DB().Create(budget).Error; err != nil {
		t.Fatalf("seed budget: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var reloaded models.Budget
	if err := client.DB().First(&reloaded, budget.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.ResponsibleID != nil {
		t.Fatalf("expected budget to be unassigned, got %v", *reloaded.ResponsibleID)
	}
}
