package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/giftshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/giftshop-backend/pkg/db/models"
	"github.com/angelmondragon/giftshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/giftshop-backend/pkg/errors"
)

func TestGormStoreCounts(t *testing.T) {
	client := dbtest.Open(t)
	conn := client.DB()
	ctx := context.Background()

	require.NoError(t, conn.Create(&models.Product{Name: "Mate", Slug: "mate", IsActive: true, IsFeatured: true}).Error)
	require.NoError(t, conn.Create(&models.Product{Name: "Taza", Slug: "taza", IsActive: true}).Error)
	require.NoError(t, conn.Model(&models.Product{}).Where("slug = ?", "taza").Update("is_active", false).Error)
	customer := &models.Customer{Name: "Ana", Email: "ana@example.com", Type: enums.CustomerTypeRetail}
	require.NoError(t, conn.Create(customer).Error)
	for _, b := range []models.Budget{
		{Kind: enums.BudgetKindBudget, Status: enums.BudgetStatusPending},
		{Kind: enums.BudgetKindQuote, Status: enums.BudgetStatusPending},
		{Kind: enums.BudgetKindBudget, Status: enums.BudgetStatusApproved},
	} {
		b.CustomerID = customer.ID
		b.ContactName = "Ana"
		b.ContactEmail = "ana@example.com"
		require.NoError(t, conn.Create(&b).Error)
	}
	require.NoError(t, conn.Create(&models.Order{CustomerID: customer.ID, Status: enums.OrderStatusShipped}).Error)
	require.NoError(t, conn.Create(&models.Contact{Name: "Ana", Email: "ana@example.com", Message: "hola"}).Error)

	stats, err := NewGormStore(conn).Stats(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, ProductCounts{Total: 2, Active: 1, Featured: 1}, stats.Products)
	assert.Equal(t, int64(1), stats.Customers)
	assert.Equal(t, int64(2), stats.Budgets.Pending)
	assert.Equal(t, int64(1), stats.Budgets.Approved)
	assert.Equal(t, int64(1), stats.Budgets.Quotes)
	assert.Equal(t, int64(3), stats.Budgets.LastSevenDays)
	assert.Equal(t, int64(1), stats.Orders.Shipped)
	assert.Equal(t, int64(1), stats.UnreadContacts)
}

type fakeRow struct {
	values []int64
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		*(d.(*int64)) = r.values[i]
	}
	return nil
}

type fakeQuerier struct {
	row  fakeRow
	args []any
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.args = args
	return q.row
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not used")
}

func (q *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not used")
}

func TestSQLStoreScansEveryColumn(t *testing.T) {
	values := make([]int64, 19)
	for i := range values {
		values[i] = int64(i + 1)
	}
	q := &fakeQuerier{row: fakeRow{values: values}}
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	stats, err := NewSQLStore(q).Stats(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, []any{since}, q.args)
	assert.Equal(t, int64(1), stats.Products.Total)
	assert.Equal(t, int64(6), stats.Budgets.Pending)
	assert.Equal(t, int64(16), stats.Orders.Cancelled)
	assert.Equal(t, int64(19), stats.Images)
}

func TestServiceWrapsStoreFailures(t *testing.T) {
	q := &fakeQuerier{row: fakeRow{err: errors.New("connection refused")}}
	svc, err := NewService(NewSQLStore(q), nil)
	require.NoError(t, err)

	_, err = svc.Stats(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}
