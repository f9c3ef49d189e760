package pdf

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRenderBudgetProducesPDF(t *testing.T) {
	valid := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	doc := BudgetDocument{
		Title:      "Presupuesto",
		Number:     "2026-000042",
		IssuedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ValidUntil: &valid,
		Company:    Company{Name: "Regalos Empresariales", Email: "ventas@example.com", TaxID: "30-12345678-9"},
		Customer:   Customer{Name: "Ana Pérez", Email: "ana@example.com", Phone: "11 5555 0000"},
		Lines: []Line{
			{SKU: "MATE-01", Name: "Mate de calabaza grabado", Quantity: 10, UnitPrice: 150000, Amount: 1500000},
			{SKU: "PROD-7", Name: "Taza cerámica", Quantity: 2, UnitPrice: 50000, Amount: 100000},
		},
		Total:          1600000,
		Notes:          "Entrega en 15 días hábiles.",
		Footer:         "Precios sujetos a modificación sin previo aviso.",
		CurrencySymbol: "$",
	}

	var buf bytes.Buffer
	if err := RenderBudget(&buf, doc); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a pdf: %q", buf.Bytes()[:16])
	}
	if buf.Len() < 1000 {
		t.Fatalf("pdf looks too small: %d bytes", buf.Len())
	}
}

func TestRenderBudgetRequiresWriter(t *testing.T) {
	if err := RenderBudget(nil, BudgetDocument{}); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestDocumentTitle(t *testing.T) {
	if got := documentTitle(BudgetDocument{Number: "2026-000001"}); got != "Presupuesto 2026-000001" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := documentTitle(BudgetDocument{Title: "Cotización"}); got != "Cotización" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Mate", 10); got != "Mate" {
		t.Fatalf("unexpected %q", got)
	}
	got := truncate(strings.Repeat("á", 20), 5)
	if len([]rune(got)) != 5 || !strings.HasSuffix(got, "…") {
		t.Fatalf("unexpected truncation %q", got)
	}
}
