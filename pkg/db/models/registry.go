package models

// All lists every persisted model in dependency order. Tests and the SQLite dev
// mode migrate with it; Postgres uses the goose migrations.
func All() []any {
	return []any{
		&Image{},
		&Category{},
		&Product{},
		&ProductImage{},
		&Customer{},
		&Responsible{},
		&Budget{},
		&BudgetItem{},
		&Order{},
		&OrderItem{},
		&NewsletterSubscriber{},
		&Contact{},
		&Setting{},
	}
}
