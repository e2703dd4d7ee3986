package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"prepinter/internal/domain"
	"prepinter/internal/payment"
	"prepinter/internal/repository"
)

var (
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPaymentUpstream    = errors.New("payment gateway unavailable")
	ErrInvalidSignature   = errors.New("payment signature invalid")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrPaymentIncomplete  = errors.New("payment verification fields missing")
	ErrPaymentUserMissing = errors.New("payment user missing")
)

const subscriptionDuration = 30 * 24 * time.Hour

// PaymentService maneja ordenes de pago, verificacion de firma y el upgrade
// de suscripcion.
type PaymentService struct {
	logger    *zap.Logger
	payments  repository.PaymentRepository
	users     repository.UserRepository
	gateway   payment.Gateway
	keySecret string
}

func NewPaymentService(logger *zap.Logger, payments repository.PaymentRepository, users repository.UserRepository, gateway payment.Gateway, keySecret string) *PaymentService {
	return &PaymentService{
		logger:    logger,
		payments:  payments,
		users:     users,
		gateway:   gateway,
		keySecret: keySecret,
	}
}

// CreateOrder crea una orden en la pasarela y registra el pago en estado
// created. El monto llega en unidades de moneda y viaja a la pasarela en
// paise (x100).
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, amount int64, currency string) (domain.Payment, error) {
	if amount <= 0 {
		return domain.Payment{}, ErrInvalidAmount
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "INR"
	}

	receipt := fmt.Sprintf("order_%d_%s", time.Now().UnixMilli(), userID)
	order, err := s.gateway.CreateOrder(ctx, amount*100, currency, receipt)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("gateway order failed", zap.Error(err), zap.String("user_id", userID))
		}
		return domain.Payment{}, ErrPaymentUpstream
	}

	now := time.Now().UTC()
	p := domain.Payment{
		ID:             uuid.NewString(),
		UserID:         userID,
		OrderID:        receipt,
		GatewayOrderID: order.ID,
		Amount:         amount,
		Currency:       currency,
		Status:         domain.PaymentStatusCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

type VerifyInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// Verify valida la firma HMAC-SHA256 de la pasarela sobre "orderId|paymentId".
// Una firma valida marca el pago como paid y sube el rol del usuario a paid
// con 30 dias de suscripcion; una invalida lo marca como failed.
func (s *PaymentService) Verify(ctx context.Context, userID string, input VerifyInput) (domain.Payment, error) {
	orderID := strings.TrimSpace(input.GatewayOrderID)
	paymentID := strings.TrimSpace(input.GatewayPaymentID)
	signature := strings.TrimSpace(input.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return domain.Payment{}, ErrPaymentIncomplete
	}

	p, err := s.payments.GetByGatewayOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, ErrPaymentNotFound
		}
		return domain.Payment{}, err
	}
	if p.UserID != userID {
		return domain.Payment{}, ErrPaymentNotFound
	}

	expected := signPayment(s.keySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentStatusFailed, paymentID, signature); err != nil && s.logger != nil {
			s.logger.Warn("mark payment failed", zap.Error(err), zap.String("payment_id", p.ID))
		}
		return domain.Payment{}, ErrInvalidSignature
	}

	if err := s.payments.UpdateStatus(ctx, p.ID, domain.PaymentStatusPaid, paymentID, signature); err != nil {
		return domain.Payment{}, err
	}
	p.Status = domain.PaymentStatusPaid
	p.GatewayPaymentID = paymentID
	p.GatewaySignature = signature

	user, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		return domain.Payment{}, ErrPaymentUserMissing
	}
	subscriptionEnd := time.Now().UTC().Add(subscriptionDuration)
	role := user.Role
	if role != domain.RoleAdmin {
		role = domain.RolePaid
	}
	if err := s.users.UpdateRole(ctx, user.ID, role, &subscriptionEnd); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}

// History devuelve los pagos del usuario, mas reciente primero.
func (s *PaymentService) History(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

type SubscriptionStatus struct {
	IsPaid          bool       `json:"isPaid"`
	IsActive        bool       `json:"isActive"`
	SubscriptionEnd *time.Time `json:"subscriptionEnd,omitempty"`
	DaysRemaining   int        `json:"daysRemaining"`
}

// Subscription resume el estado de suscripcion: dias restantes redondeados
// hacia arriba, nunca negativos.
func (s *PaymentService) Subscription(ctx context.Context, userID string) (SubscriptionStatus, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SubscriptionStatus{}, ErrUserNotFound
		}
		return SubscriptionStatus{}, err
	}

	out := SubscriptionStatus{
		IsPaid:          user.Role == domain.RolePaid || user.Role == domain.RoleAdmin,
		SubscriptionEnd: user.SubscriptionEnd,
	}
	if out.IsPaid && user.SubscriptionEnd != nil {
		remaining := time.Until(*user.SubscriptionEnd)
		if remaining > 0 {
			out.IsActive = true
			out.DaysRemaining = int(math.Ceil(remaining.Hours() / 24))
		}
	}
	if user.Role == domain.RoleAdmin {
		out.IsActive = true
	}
	return out, nil
}

func signPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
