package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"prepinter/internal/domain"
)

// PaymentRepository define el contrato de persistencia para pagos.
type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Payment, error)
	UpdateStatus(ctx context.Context, id, status, gatewayPaymentID, gatewaySignature string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
}

// PgPaymentRepository implementa PaymentRepository usando pgxpool.
type PgPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPgPaymentRepository(pool *pgxpool.Pool) *PgPaymentRepository {
	return &PgPaymentRepository{pool: pool}
}

const paymentColumns = `
	id, user_id, order_id, gateway_order_id, gateway_payment_id, gateway_signature,
	amount, currency, status, created_at, updated_at
`

func scanPayment(row interface{ Scan(dest ...any) error }) (domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.OrderID,
		&p.GatewayOrderID,
		&p.GatewayPaymentID,
		&p.GatewaySignature,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *PgPaymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	const query = `
		INSERT INTO payments (id, user_id, order_id, gateway_order_id, gateway_payment_id, gateway_signature, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.OrderID,
		payment.GatewayOrderID,
		payment.GatewayPaymentID,
		payment.GatewaySignature,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	return err
}

func (r *PgPaymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE gateway_order_id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, gatewayOrderID))
}

func (r *PgPaymentRepository) UpdateStatus(ctx context.Context, id, status, gatewayPaymentID, gatewaySignature string) error {
	const query = `
		UPDATE payments
		SET status = $2, gateway_payment_id = $3, gateway_signature = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, status, gatewayPaymentID, gatewaySignature)
	return err
}

func (r *PgPaymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	const query = `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
