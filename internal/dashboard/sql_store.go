package dashboard

import (
	"context"
	"time"

	"github.com/angelmondragon/giftshop-backend/pkg/sqlclient"
)

const statsQuery = `
SELECT
	(SELECT COUNT(*) FROM products),
	(SELECT COUNT(*) FROM products WHERE is_active),
	(SELECT COUNT(*) FROM products WHERE is_featured),
	(SELECT COUNT(*) FROM categories),
	(SELECT COUNT(*) FROM customers),
	COUNT(*) FILTER (WHERE b.status = 'pending'),
	COUNT(*) FILTER (WHERE b.status = 'approved'),
	COUNT(*) FILTER (WHERE b.status = 'rejected'),
	COUNT(*) FILTER (WHERE b.status = 'expired'),
	COUNT(*) FILTER (WHERE b.kind = 'quote'),
	COUNT(*) FILTER (WHERE b.created_at >= $1),
	(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
	(SELECT COUNT(*) FROM orders WHERE status = 'processing'),
	(SELECT COUNT(*) FROM orders WHERE status = 'shipped'),
	(SELECT COUNT(*) FROM orders WHERE status = 'delivered'),
	(SELECT COUNT(*) FROM orders WHERE status = 'cancelled'),
	(SELECT COUNT(*) FROM contacts WHERE NOT is_read),
	(SELECT COUNT(*) FROM newsletter_subscribers WHERE is_active),
	(SELECT COUNT(*) FROM images)
FROM budgets b`

// SQLStore computes every counter in one round trip on the pgx pool.
type SQLStore struct {
	q sqlclient.Querier
}

func NewSQLStore(q sqlclient.Querier) *SQLStore {
	return &SQLStore{q: q}
}

func (s *SQLStore) Stats(ctx context.Context, since time.Time) (Stats, error) {
	var stats Stats
	err := s.q.QueryRow(ctx, statsQuery, since).Scan(
		&stats.Products.Total,
		&stats.Products.Active,
		&stats.Products.Featured,
		&stats.Categories,
		&stats.Customers,
		&stats.Budgets.Pending,
		&stats.Budgets.Approved,
		&stats.Budgets.Rejected,
		&stats.Budgets.Expired,
		&stats.Budgets.Quotes,
		&stats.Budgets.LastSevenDays,
		&stats.Orders.Pending,
		&stats.Orders.Processing,
		&stats.Orders.Shipped,
		&stats.Orders.Delivered,
		&stats.Orders.Cancelled,
		&stats.UnreadContacts,
		&stats.ActiveSubscribers,
		&stats.Images,
	)
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}
