package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"prepinter/internal/domain"
	"prepinter/internal/repository"
)

var (
	ErrInterviewNotFound  = errors.New("interview not found")
	ErrInterviewForbidden = errors.New("interview belongs to another user")
	ErrMissingDifficulty  = errors.New("missing difficulty")
	ErrQuotaExceeded      = errors.New("free tier interview limit reached")
)

const DefaultFreeTierLimit = 5

// InterviewService coordina el ciclo de vida de las entrevistas.
type InterviewService struct {
	logger        *zap.Logger
	interviews    repository.InterviewRepository
	users         repository.UserRepository
	questions     *QuestionService
	freeTierLimit int
	questionCount int
}

func NewInterviewService(
	logger *zap.Logger,
	interviews repository.InterviewRepository,
	users repository.UserRepository,
	questions *QuestionService,
	freeTierLimit int,
	questionCount int,
) *InterviewService {
	if freeTierLimit <= 0 {
		freeTierLimit = DefaultFreeTierLimit
	}
	if questionCount <= 0 {
		questionCount = 5
	}
	return &InterviewService{
		logger:        logger,
		interviews:    interviews,
		users:         users,
		questions:     questions,
		freeTierLimit: freeTierLimit,
		questionCount: questionCount,
	}
}

// Start normaliza categoria/dificultad, genera el set de preguntas y persiste
// la entrevista en estado in_progress. Aplica la cuota del tier gratuito.
func (s *InterviewService) Start(ctx context.Context, user domain.User, category, difficulty string) (domain.Interview, error) {
	category = domain.NormalizeCategory(category)
	difficulty = domain.NormalizeDifficulty(difficulty)
	if difficulty == "" {
		return domain.Interview{}, ErrMissingDifficulty
	}

	if user.Role == domain.RoleFree {
		count, err := s.interviews.CountByUser(ctx, user.ID)
		if err != nil {
			return domain.Interview{}, err
		}
		if count >= s.freeTierLimit {
			return domain.Interview{}, ErrQuotaExceeded
		}
	}

	questions := s.questions.Generate(ctx, category, difficulty, s.questionCount)
	now := time.Now().UTC()
	interview := domain.Interview{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Category:   category,
		Difficulty: difficulty,
		StartedAt:  now,
		Completed:  false,
		CreatedAt:  now,
	}
	for i := range questions {
		questions[i].ID = uuid.NewString()
		questions[i].InterviewID = interview.ID
		questions[i].Position = i
	}
	interview.Questions = questions

	if err := s.interviews.Create(ctx, interview); err != nil {
		return domain.Interview{}, err
	}

	if err := s.users.IncrementInterviews(ctx, user.ID); err != nil && s.logger != nil {
		s.logger.Warn("increment interviews_taken failed", zap.Error(err), zap.String("user_id", user.ID))
	}

	return interview, nil
}

// GetByID devuelve la entrevista si existe y pertenece al usuario (admin salta
// el chequeo de ownership).
func (s *InterviewService) GetByID(ctx context.Context, id string, user domain.User) (domain.Interview, error) {
	interview, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Interview{}, ErrInterviewNotFound
		}
		return domain.Interview{}, err
	}
	if interview.UserID != user.ID && !user.IsAdmin() {
		return domain.Interview{}, ErrInterviewForbidden
	}
	return interview, nil
}

func (s *InterviewService) ListForUser(ctx context.Context, userID string) ([]domain.Interview, error) {
	return s.interviews.ListByUser(ctx, userID)
}

// UpdateInterviewInput son los campos mutables de una entrevista en curso.
// Answers mapea questionID a texto de respuesta.
type UpdateInterviewInput struct {
	Answers   map[string]string
	Completed bool
}

// Update aplica respuestas y/o la transicion a completed con su duracion.
func (s *InterviewService) Update(ctx context.Context, id string, user domain.User, input UpdateInterviewInput) (domain.Interview, error) {
	interview, err := s.GetByID(ctx, id, user)
	if err != nil {
		return domain.Interview{}, err
	}

	for questionID, answer := range input.Answers {
		matched := false
		for _, q := range interview.Questions {
			if q.ID == questionID {
				matched = true
				if err := s.interviews.UpdateQuestionAnswer(ctx, questionID, answer, q.Feedback, q.Score); err != nil {
					return domain.Interview{}, err
				}
				break
			}
		}
		if !matched && s.logger != nil {
			s.logger.Warn("answer for unknown question ignored", zap.String("interview_id", id), zap.String("question_id", questionID))
		}
	}

	if input.Completed && !interview.Completed {
		completedAt := time.Now().UTC()
		duration := domain.CompletionDuration(interview.StartedAt, completedAt)
		if err := s.interviews.MarkCompleted(ctx, id, completedAt, duration); err != nil {
			return domain.Interview{}, err
		}
	}

	return s.interviews.GetByID(ctx, id)
}

// Delete elimina la entrevista y sus preguntas. Sin soft-delete.
func (s *InterviewService) Delete(ctx context.Context, id string, user domain.User) error {
	if _, err := s.GetByID(ctx, id, user); err != nil {
		return err
	}
	return s.interviews.Delete(ctx, id)
}
