package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"prepinter/internal/domain"
)

// mockInterviewRepo simula el repositorio de entrevistas en memoria.
type mockInterviewRepo struct {
	interviews map[string]*domain.Interview
}

func newMockInterviewRepo() *mockInterviewRepo {
	return &mockInterviewRepo{interviews: make(map[string]*domain.Interview)}
}

func (m *mockInterviewRepo) sortedByUser(userID string) []*domain.Interview {
	var out []*domain.Interview
	for _, iv := range m.interviews {
		if iv.UserID == userID {
			out = append(out, iv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *mockInterviewRepo) Create(_ context.Context, interview domain.Interview) error {
	copied := interview
	copied.Questions = append([]domain.Question(nil), interview.Questions...)
	m.interviews[interview.ID] = &copied
	return nil
}

func (m *mockInterviewRepo) GetByID(_ context.Context, id string) (domain.Interview, error) {
	iv, ok := m.interviews[id]
	if !ok {
		return domain.Interview{}, pgx.ErrNoRows
	}
	return *iv, nil
}

func (m *mockInterviewRepo) GetLatestByUser(_ context.Context, userID string) (domain.Interview, error) {
	list := m.sortedByUser(userID)
	if len(list) == 0 {
		return domain.Interview{}, pgx.ErrNoRows
	}
	return *list[0], nil
}

func (m *mockInterviewRepo) GetActiveByUser(_ context.Context, userID string) (domain.Interview, error) {
	for _, iv := range m.sortedByUser(userID) {
		if !iv.Completed {
			return *iv, nil
		}
	}
	return domain.Interview{}, pgx.ErrNoRows
}

func (m *mockInterviewRepo) FindActiveByQuestion(_ context.Context, userID, questionID string) (domain.Interview, error) {
	for _, iv := range m.interviews {
		if iv.UserID != userID || iv.Completed {
			continue
		}
		for _, q := range iv.Questions {
			if q.ID == questionID {
				return *iv, nil
			}
		}
	}
	return domain.Interview{}, pgx.ErrNoRows
}

func (m *mockInterviewRepo) ListByUser(_ context.Context, userID string) ([]domain.Interview, error) {
	var out []domain.Interview
	for _, iv := range m.sortedByUser(userID) {
		out = append(out, *iv)
	}
	return out, nil
}

func (m *mockInterviewRepo) ListByUserPaged(_ context.Context, userID string, limit, offset int) ([]domain.Interview, int, error) {
	list := m.sortedByUser(userID)
	total := len(list)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	var out []domain.Interview
	for _, iv := range list[offset:end] {
		copied := *iv
		copied.Questions = append([]domain.Question(nil), iv.Questions...)
		for i := range copied.Questions {
			copied.Questions[i].Answer = ""
			copied.Questions[i].Feedback = ""
			copied.Questions[i].Score = 0
		}
		out = append(out, copied)
	}
	return out, total, nil
}

func (m *mockInterviewRepo) ListCompletedRecent(_ context.Context, userID string, limit int) ([]domain.Interview, error) {
	var out []domain.Interview
	for _, iv := range m.sortedByUser(userID) {
		if iv.Completed {
			out = append(out, *iv)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *mockInterviewRepo) CountByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, iv := range m.interviews {
		if iv.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockInterviewRepo) MarkCompleted(_ context.Context, id string, completedAt time.Time, duration int) error {
	iv, ok := m.interviews[id]
	if !ok {
		return pgx.ErrNoRows
	}
	iv.Completed = true
	iv.CompletedAt = &completedAt
	iv.Duration = duration
	return nil
}

func (m *mockInterviewRepo) UpdateQuestionAnswer(_ context.Context, questionID, answer, feedback string, score int) error {
	for _, iv := range m.interviews {
		for i := range iv.Questions {
			if iv.Questions[i].ID == questionID {
				iv.Questions[i].Answer = answer
				iv.Questions[i].Feedback = feedback
				iv.Questions[i].Score = score
				return nil
			}
		}
	}
	return pgx.ErrNoRows
}

func (m *mockInterviewRepo) MarkQuestionSkipped(_ context.Context, questionID string) error {
	for _, iv := range m.interviews {
		for i := range iv.Questions {
			if iv.Questions[i].ID == questionID {
				iv.Questions[i].Skipped = true
				return nil
			}
		}
	}
	return pgx.ErrNoRows
}

func (m *mockInterviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.interviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.interviews, id)
	return nil
}

// mockScoredSessionRepo simula el repositorio de sesiones puntuadas.
type mockScoredSessionRepo struct {
	sessions []domain.ScoredSession
}

func (m *mockScoredSessionRepo) Create(_ context.Context, session domain.ScoredSession) error {
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockScoredSessionRepo) ListByUser(_ context.Context, userID string) ([]domain.ScoredSession, error) {
	var out []domain.ScoredSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockScoredSessionRepo) ListRecentByUser(_ context.Context, userID string, limit int) ([]domain.ScoredSession, error) {
	var out []domain.ScoredSession
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockUsersRepo simula el repositorio de usuarios para los services.
type mockUsersRepo struct {
	byID    map[string]domain.User
	byEmail map[string]string
}

func newMockUsersRepo() *mockUsersRepo {
	return &mockUsersRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (m *mockUsersRepo) Create(_ context.Context, user domain.User) error {
	m.byID[user.ID] = user
	if user.Email != "" {
		m.byEmail[user.Email] = user.ID
	}
	return nil
}

func (m *mockUsersRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUsersRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.byEmail[email]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.byID[id], nil
}

func (m *mockUsersRepo) GetByResetToken(_ context.Context, tokenHash string) (domain.User, error) {
	for _, user := range m.byID {
		if user.ResetTokenHash == tokenHash && tokenHash != "" {
			return user, nil
		}
	}
	return domain.User{}, pgx.ErrNoRows
}

func (m *mockUsersRepo) List(_ context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, user := range m.byID {
		out = append(out, user)
	}
	return out, nil
}

func (m *mockUsersRepo) UpdateProfile(_ context.Context, user domain.User) error {
	stored, ok := m.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Email != user.Email {
		delete(m.byEmail, stored.Email)
		m.byEmail[user.Email] = user.ID
	}
	m.byID[user.ID] = user
	return nil
}

func (m *mockUsersRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	m.byID[id] = user
	return nil
}

func (m *mockUsersRepo) UpdateRole(_ context.Context, id, role string, subscriptionEnd *time.Time) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Role = role
	user.SubscriptionEnd = subscriptionEnd
	m.byID[id] = user
	return nil
}

func (m *mockUsersRepo) IncrementInterviews(_ context.Context, id string) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.InterviewsTaken++
	m.byID[id] = user
	return nil
}

func (m *mockUsersRepo) SetResetOTP(_ context.Context, id, otpHash string, expiresAt time.Time) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetOTPHash = otpHash
	user.ResetOTPExpiresAt = &expiresAt
	m.byID[id] = user
	return nil
}

func (m *mockUsersRepo) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetTokenHash = tokenHash
	user.ResetTokenExpiresAt = &expiresAt
	user.ResetOTPHash = ""
	user.ResetOTPExpiresAt = nil
	m.byID[id] = user
	return nil
}

func (m *mockUsersRepo) ClearReset(_ context.Context, id string) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetOTPHash = ""
	user.ResetOTPExpiresAt = nil
	user.ResetTokenHash = ""
	user.ResetTokenExpiresAt = nil
	m.byID[id] = user
	return nil
}

func (m *mockUsersRepo) Delete(_ context.Context, id string) error {
	user, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.byEmail, user.Email)
	delete(m.byID, id)
	return nil
}

// mockPaymentRepo simula el repositorio de pagos.
type mockPaymentRepo struct {
	payments map[string]*domain.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment domain.Payment) error {
	copied := payment
	m.payments[payment.ID] = &copied
	return nil
}

func (m *mockPaymentRepo) GetByGatewayOrderID(_ context.Context, gatewayOrderID string) (domain.Payment, error) {
	for _, p := range m.payments {
		if p.GatewayOrderID == gatewayOrderID {
			return *p, nil
		}
	}
	return domain.Payment{}, pgx.ErrNoRows
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, id, status, gatewayPaymentID, gatewaySignature string) error {
	p, ok := m.payments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	p.GatewayPaymentID = gatewayPaymentID
	p.GatewaySignature = gatewaySignature
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockPaymentRepo) ListByUser(_ context.Context, userID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
