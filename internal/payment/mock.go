package payment

import "context"

// MockGateway devuelve respuestas fijas para pruebas.
type MockGateway struct {
	Order       Order
	Err         error
	LastAmount  int64
	LastReceipt string
}

func (m *MockGateway) CreateOrder(_ context.Context, amountPaise int64, currency, receipt string) (Order, error) {
	m.LastAmount = amountPaise
	m.LastReceipt = receipt
	if m.Err != nil {
		return Order{}, m.Err
	}
	out := m.Order
	if out.ID == "" {
		out.ID = "order_mock"
	}
	if out.Currency == "" {
		out.Currency = currency
	}
	if out.Amount == 0 {
		out.Amount = amountPaise
	}
	return out, nil
}
