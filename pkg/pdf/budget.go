// Package pdf renders printable budget documents.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/angelmondragon/giftshop-backend/pkg/money"
)

const (
	pageMargin = 15.0
	lineHeight = 7.0
	dateLayout = "02/01/2006"
)

// column widths in mm, they add up to the printable A4 width
var tableColumns = []struct {
	title string
	width float64
	align string
}{
	{title: "Código", width: 28, align: "L"},
	{title: "Producto", width: 82, align: "L"},
	{title: "Cant.", width: 16, align: "R"},
	{title: "Precio unit.", width: 27, align: "R"},
	{title: "Importe", width: 27, align: "R"},
}

type Company struct {
	Name    string
	Email   string
	Phone   string
	Address string
	TaxID   string
}

type Customer struct {
	Name     string
	Email    string
	Phone    string
	Document string
	Address  string
}

type Line struct {
	SKU       string
	Name      string
	Quantity  int
	UnitPrice int64
	Amount    int64
}

// BudgetDocument is everything printed on a budget or quote.
type BudgetDocument struct {
	Title          string
	Number         string
	IssuedAt       time.Time
	ValidUntil     *time.Time
	Company        Company
	Customer       Customer
	Lines          []Line
	Total          int64
	Notes          string
	Footer         string
	CurrencySymbol string
}

// RenderBudget writes the document to w as a single A4 PDF.
func RenderBudget(w io.Writer, doc BudgetDocument) error {
	if w == nil {
		return fmt.Errorf("pdf writer is required")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(documentTitle(doc), true)
	pdf.SetCreator(doc.Company.Name, true)
	pdf.SetCreationDate(doc.IssuedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	writeHeader(pdf, tr, doc)
	writeCustomer(pdf, tr, doc.Customer)
	writeLines(pdf, tr, doc)

	if notes := strings.TrimSpace(doc.Notes); notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, lineHeight, tr("Observaciones"), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(notes), "", "L", false)
	}
	if footer := strings.TrimSpace(doc.Footer); footer != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr(footer), "", "C", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render budget pdf: %w", err)
	}
	return pdf.Output(w)
}

func documentTitle(doc BudgetDocument) string {
	title := doc.Title
	if title == "" {
		title = "Presupuesto"
	}
	if doc.Number != "" {
		title += " " + doc.Number
	}
	return title
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string, doc BudgetDocument) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(110, 9, tr(doc.Company.Name), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, tr(documentTitle(doc)), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{doc.Company.Address, doc.Company.Phone, doc.Company.Email, prefixed("CUIT: ", doc.Company.TaxID)} {
		if line == "" {
			continue
		}
		pdf.CellFormat(110, 5, tr(line), "", 1, "L", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	if !doc.IssuedAt.IsZero() {
		pdf.CellFormat(0, 5, tr("Fecha: "+doc.IssuedAt.Format(dateLayout)), "", 1, "R", false, 0, "")
	}
	if doc.ValidUntil != nil {
		pdf.CellFormat(0, 5, tr("Válido hasta: "+doc.ValidUntil.Format(dateLayout)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeCustomer(pdf *fpdf.Fpdf, tr func(string) string, c Customer) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, tr("Cliente"), "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	rows := [][2]string{
		{"Nombre", c.Name},
		{"Email", c.Email},
		{"Teléfono", c.Phone},
		{"CUIT/DNI", c.Document},
		{"Dirección", c.Address},
	}
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.CellFormat(30, 6, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func writeLines(pdf *fpdf.Fpdf, tr func(string) string, doc BudgetDocument) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, lineHeight, tr(col.title), "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range doc.Lines {
		cells := []string{
			line.SKU,
			truncate(line.Name, 48),
			strconv.Itoa(line.Quantity),
			money.Format(line.UnitPrice, doc.CurrencySymbol),
			money.Format(line.Amount, doc.CurrencySymbol),
		}
		for i, col := range tableColumns {
			pdf.CellFormat(col.width, lineHeight, tr(cells[i]), "1", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	labelWidth := 0.0
	for _, col := range tableColumns[:len(tableColumns)-1] {
		labelWidth += col.width
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(labelWidth, lineHeight, tr("Total"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(tableColumns[len(tableColumns)-1].width, lineHeight, tr(money.Format(doc.Total, doc.CurrencySymbol)), "1", 1, "R", false, 0, "")
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
