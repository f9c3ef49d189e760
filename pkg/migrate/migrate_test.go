package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestBudgetsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_budgets_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS budgets",
		"customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE RESTRICT",
		"CHECK (kind IN ('budget', 'quote'))",
		"CREATE TABLE IF NOT EXISTS budget_items",
		"budget_id BIGINT NOT NULL REFERENCES budgets(id) ON DELETE CASCADE",
		"CHECK (quantity > 0)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
	if strings.Contains(content, "REFERENCES products") {
		t.Errorf("budget items must not reference products")
	}
}

func TestCustomersMigrationHasUniqueEmail(t *testing.T) {
	content := readMigration(t, "*_create_customers_and_responsibles.sql")
	if !strings.Contains(content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_customers_email ON customers (email)") {
		t.Fatalf("customers email must be unique")
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}
}

func TestValidateDirRejectsEmptyDir(t *testing.T) {
	if err := ValidateDir(t.TempDir()); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Budget Footer!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(path, "_add_budget_footer.sql") {
		t.Fatalf("unexpected file name %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %s", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
