package products

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/giftshop-backend/pkg/db"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/money"
	"github.com/angelmondragon/giftshop-backend/pkg/slug"
	"github.com/angelmondragon/giftshop-backend/pkg/spreadsheet"
)

const sheetName = "Productos"

var exportHeaders = []string{
	"ID", "SKU", "Nombre", "Slug", "Descripción", "Precio minorista", "Precio mayorista",
	"Stock", "Activo", "Destacado", "Categorías",
}

type Exporter interface {
	Export(ctx context.Context, w io.Writer) error
}

type Importer interface {
	Import(ctx context.Context, r io.ReaderAt, size int64) (*ImportReport, error)
}

// ImportReport counts what an xlsx import did. Row numbers are 1-based like the sheet.
type ImportReport struct {
	Created int              `json:"created"`
	Updated int              `json:"updated"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (s *service) Export(ctx context.Context, w io.Writer) error {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return db.MapError(err, resourceName)
	}

	values := make([][]any, 0, len(rows))
	for _, p := range rows {
		names := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			names = append(names, c.Name)
		}
		values = append(values, []any{
			p.ID,
			deref(p.SKU),
			p.Name,
			p.Slug,
			deref(p.Description),
			money.Plain(p.RetailPrice),
			money.Plain(p.WholesalePrice),
			p.Stock,
			yesNo(p.IsActive),
			yesNo(p.IsFeatured),
			strings.Join(names, ", "),
		})
	}
	return spreadsheet.Write(w, sheetName, exportHeaders, values)
}

// Import upserts rows by SKU. Each row commits on its own; bad rows are skipped and reported.
func (s *service) Import(ctx context.Context, r io.ReaderAt, size int64) (*ImportReport, error) {
	rows, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, invalid("file", "no es un archivo xlsx válido")
	}
	if len(rows) == 0 {
		return nil, invalid("file", "el archivo está vacío")
	}

	columns := headerIndex(rows[0])
	if _, ok := columns["sku"]; !ok {
		return nil, invalid("file", "falta la columna SKU")
	}
	if _, ok := columns["nombre"]; !ok {
		return nil, invalid("file", "falta la columna Nombre")
	}

	report := &ImportReport{Errors: []ImportRowError{}}
	for i, cells := range rows[1:] {
		rowNumber := i + 2
		row := importRow{cells: cells, columns: columns}
		if row.blank() {
			continue
		}
		created, err := s.importRow(ctx, row)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, ImportRowError{Row: rowNumber, Message: err.Error()})
			continue
		}
		if created {
			report.Created++
		} else {
			report.Updated++
		}
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"created": report.Created,
		"updated": report.Updated,
		"skipped": report.Skipped,
	})
	s.logg.Info(ctx, "products.import.complete")
	return report, nil
}

func (s *service) importRow(ctx context.Context, row importRow) (bool, error) {
	sku := row.get("sku")
	name := row.get("nombre")
	if sku == "" {
		return false, errors.New("falta el SKU")
	}
	if name == "" {
		return false, errors.New("falta el nombre")
	}

	product, err := s.repo.FindBySKU(ctx, sku)
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		created = true
		product = &models.Product{IsActive: true}
	case err != nil:
		return false, fmt.Errorf("no pudimos leer el producto: %w", err)
	}

	product.Name = name
	product.SKU = &sku
	if v := row.get("descripcion"); v != "" {
		product.Description = &v
	}
	if v := row.get("precio-minorista"); v != "" {
		price, err := money.ParseMinor(v)
		if err != nil {
			return false, errors.New("precio minorista inválido")
		}
		product.RetailPrice = price
	}
	if v := row.get("precio-mayorista"); v != "" {
		price, err := money.ParseMinor(v)
		if err != nil {
			return false, errors.New("precio mayorista inválido")
		}
		product.WholesalePrice = price
	}
	if v := row.get("stock"); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil || stock < 0 {
			return false, errors.New("stock inválido")
		}
		product.Stock = stock
	}
	if v := row.get("activo"); v != "" {
		product.IsActive = parseYes(v)
	}
	if v := row.get("destacado"); v != "" {
		product.IsFeatured = parseYes(v)
	}

	if created {
		value, err := s.resolveSlug(ctx, 0, row.get("slug"), name)
		if err != nil {
			return false, errors.New("no pudimos generar el slug")
		}
		product.Slug = value
		if err := s.repo.Create(ctx, product); err != nil {
			return false, fmt.Errorf("no pudimos crear el producto: %w", err)
		}
		return true, nil
	}

	product.Images = nil
	product.Categories = nil
	if err := s.repo.Update(ctx, product); err != nil {
		return false, fmt.Errorf("no pudimos actualizar el producto: %w", err)
	}
	return false, nil
}

type importRow struct {
	cells   []string
	columns map[string]int
}

func (r importRow) get(column string) string {
	idx, ok := r.columns[column]
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return r.cells[idx]
}

func (r importRow) blank() bool {
	for _, c := range r.cells {
		if c != "" {
			return false
		}
	}
	return true
}

// headerIndex keys columns by their slug so "Precio Minorista" and "precio minorista" match.
func headerIndex(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for i, h := range header {
		key := slug.Make(h)
		if key == "" {
			continue
		}
		if _, dup := out[key]; !dup {
			out[key] = i
		}
	}
	return out
}

func parseYes(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "si", "sí", "s", "yes", "true", "1", "x":
		return true
	default:
		return false
	}
}

func yesNo(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
