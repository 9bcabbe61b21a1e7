package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/storage"
)

// CreatePayment persists a payment together with its distribution shares.
// A single INSERT carries every field, so the distribution is never observed
// without the payment or vice versa.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = s.now().Unix()
	}
	if payment.Currency == "" {
		payment.Currency = models.DefaultCurrency
	}
	if payment.Status == "" {
		payment.Status = models.PaymentPending
	}

	amounts := []decimal.Decimal{payment.Amount, payment.AIUpgrade, payment.ReserveFund, payment.OwnerRevenue}
	cents := make([]int64, len(amounts))
	for i, d := range amounts {
		c, err := toCents(d)
		if err != nil {
			return fmt.Errorf("failed to encode payment: %w", err)
		}
		cents[i] = c
	}

	var distributedAt any
	if payment.DistributedAt != 0 {
		distributedAt = payment.DistributedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, user_id, amount_cents, currency, transaction_id, status, created_at,
		                       ai_upgrade_cents, reserve_fund_cents, owner_revenue_cents, distributed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.UserID, cents[0], payment.Currency,
		payment.TransactionID, string(payment.Status), payment.CreatedAt,
		cents[1], cents[2], cents[3],
		distributedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "payments.transaction_id") {
			return storage.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// ListPaymentsByUser retrieves a user's payments, newest first.
func (s *SQLiteStore) ListPaymentsByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, currency, transaction_id, status, created_at,
		        ai_upgrade_cents, reserve_fund_cents, owner_revenue_cents, distributed_at
		 FROM payments WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by user: %w", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		var amount int64
		var status string
		var aiUpgrade, reserve, owner, distributedAt sql.NullInt64

		if err := rows.Scan(&payment.ID, &payment.UserID, &amount, &payment.Currency,
			&payment.TransactionID, &status, &payment.CreatedAt,
			&aiUpgrade, &reserve, &owner, &distributedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}

		payment.Amount = fromCents(amount)
		payment.Status = models.PaymentStatus(status)
		payment.AIUpgrade = fromCents(aiUpgrade.Int64)
		payment.ReserveFund = fromCents(reserve.Int64)
		payment.OwnerRevenue = fromCents(owner.Int64)
		payment.DistributedAt = distributedAt.Int64

		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

// DashboardStats aggregates completed revenue and project counts.
func (s *SQLiteStore) DashboardStats(ctx context.Context, monthStart int64) (*models.DashboardStats, error) {
	var total, monthly int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0),
		        COALESCE(SUM(CASE WHEN created_at >= ? THEN amount_cents ELSE 0 END), 0)
		 FROM payments WHERE status = ?`,
		monthStart, string(models.PaymentCompleted),
	).Scan(&total, &monthly)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
	}

	stats := &models.DashboardStats{
		TotalRevenue:   fromCents(total),
		MonthlyRevenue: fromCents(monthly),
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0)
		 FROM projects`,
		string(models.ProjectInProgress), string(models.ProjectTesting),
	).Scan(&stats.TotalProjects, &stats.ActiveProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	return stats, nil
}
