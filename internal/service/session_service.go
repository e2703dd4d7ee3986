package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"prepinter/internal/domain"
	"prepinter/internal/llm"
	"prepinter/internal/metrics"
	"prepinter/internal/repository"
)

var (
	ErrNoActiveInterview = errors.New("no active interview")
	ErrQuestionNotFound  = errors.New("question not found or interview already completed")
)

const feedbackSystemPrompt = "You are an expert technical interviewer providing feedback on candidate answers."

// SessionService lleva la sesion de entrevista activa: entrega preguntas,
// evalua respuestas con el LLM y cierra la entrevista cuando todo esta resuelto.
type SessionService struct {
	logger     *zap.Logger
	interviews repository.InterviewRepository
	sessions   repository.SessionRepository
	llmClient  llm.LLMClient
}

func NewSessionService(
	logger *zap.Logger,
	interviews repository.InterviewRepository,
	sessions repository.SessionRepository,
	llmClient llm.LLMClient,
) *SessionService {
	return &SessionService{
		logger:     logger,
		interviews: interviews,
		sessions:   sessions,
		llmClient:  llmClient,
	}
}

// Submit evalua la respuesta a una pregunta de la entrevista activa del usuario.
// Los fallos del LLM nunca llegan al caller: siempre hay feedback y score.
func (s *SessionService) Submit(ctx context.Context, userID, questionID, answer string) (FeedbackResult, error) {
	interview, err := s.interviews.FindActiveByQuestion(ctx, userID, questionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FeedbackResult{}, ErrQuestionNotFound
		}
		return FeedbackResult{}, err
	}

	var question *domain.Question
	for i := range interview.Questions {
		if interview.Questions[i].ID == questionID {
			question = &interview.Questions[i]
			break
		}
	}
	if question == nil {
		return FeedbackResult{}, ErrQuestionNotFound
	}

	result := s.evaluate(ctx, question.QuestionText, answer)

	if err := s.interviews.UpdateQuestionAnswer(ctx, questionID, answer, result.Feedback, result.Score); err != nil {
		return FeedbackResult{}, err
	}
	question.Answer = answer
	question.Feedback = result.Feedback
	question.Score = result.Score

	// Regla canonica: chequear completitud tras cada submit.
	if domain.AllResolved(interview.Questions) {
		if err := s.completeInterview(ctx, interview); err != nil {
			return FeedbackResult{}, err
		}
	}

	return result, nil
}

// NextQuestionOutput es la proxima pregunta pendiente, o el aviso de cierre.
type NextQuestionOutput struct {
	QuestionID  string
	Question    string
	InterviewID string
	Completed   bool
}

// NextQuestion devuelve la primera pregunta sin resolver de la entrevista
// activa; si no queda ninguna, cierra la entrevista y reporta completitud.
func (s *SessionService) NextQuestion(ctx context.Context, userID string) (NextQuestionOutput, error) {
	interview, err := s.interviews.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NextQuestionOutput{}, ErrNoActiveInterview
		}
		return NextQuestionOutput{}, err
	}

	for _, q := range interview.Questions {
		if !q.Resolved() {
			return NextQuestionOutput{
				QuestionID:  q.ID,
				Question:    q.QuestionText,
				InterviewID: interview.ID,
			}, nil
		}
	}

	if err := s.completeInterview(ctx, interview); err != nil {
		return NextQuestionOutput{}, err
	}
	return NextQuestionOutput{InterviewID: interview.ID, Completed: true}, nil
}

// SkipOutput reporta la pregunta saltada, o completitud si no quedaba ninguna.
type SkipOutput struct {
	QuestionID  string
	InterviewID string
	Completed   bool
}

// Skip marca como saltada la primera pregunta sin resolver de la entrevista
// activa. Si no queda ninguna reporta completitud en vez de error.
func (s *SessionService) Skip(ctx context.Context, userID string) (SkipOutput, error) {
	interview, err := s.interviews.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SkipOutput{}, ErrNoActiveInterview
		}
		return SkipOutput{}, err
	}

	var pending *domain.Question
	for i := range interview.Questions {
		if !interview.Questions[i].Resolved() {
			pending = &interview.Questions[i]
			break
		}
	}
	if pending == nil {
		if err := s.completeInterview(ctx, interview); err != nil {
			return SkipOutput{}, err
		}
		return SkipOutput{InterviewID: interview.ID, Completed: true}, nil
	}

	if err := s.interviews.MarkQuestionSkipped(ctx, pending.ID); err != nil {
		return SkipOutput{}, err
	}
	pending.Skipped = true

	out := SkipOutput{QuestionID: pending.ID, InterviewID: interview.ID}
	if domain.AllResolved(interview.Questions) {
		if err := s.completeInterview(ctx, interview); err != nil {
			return SkipOutput{}, err
		}
		out.Completed = true
	}
	return out, nil
}

// Complete cierra una entrevista por id aunque queden preguntas sin responder.
func (s *SessionService) Complete(ctx context.Context, id string, user domain.User) (domain.Interview, error) {
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
	if interview.Completed {
		return interview, nil
	}
	if err := s.completeInterview(ctx, interview); err != nil {
		return domain.Interview{}, err
	}
	return s.interviews.GetByID(ctx, id)
}

// completeInterview ejecuta la transicion a completed (una sola direccion),
// calcula la duracion y congela la sesion puntuada para analytics.
func (s *SessionService) completeInterview(ctx context.Context, interview domain.Interview) error {
	completedAt := time.Now().UTC()
	duration := domain.CompletionDuration(interview.StartedAt, completedAt)
	if err := s.interviews.MarkCompleted(ctx, interview.ID, completedAt, duration); err != nil {
		return err
	}

	if s.sessions == nil {
		return nil
	}
	session := domain.ScoredSession{
		ID:          uuid.NewString(),
		UserID:      interview.UserID,
		InterviewID: interview.ID,
		Duration:    duration,
		CreatedAt:   completedAt,
	}
	for _, q := range interview.Questions {
		if !q.Answered() {
			continue
		}
		session.QAPairs = append(session.QAPairs, domain.QAPair{Question: q.QuestionText, Answer: q.Answer})
		session.Scores = append(session.Scores, q.Score)
	}
	if err := s.sessions.Create(ctx, session); err != nil && s.logger != nil {
		// La sesion puntuada solo alimenta tendencias; no bloquea el cierre.
		s.logger.Warn("scored session create failed", zap.Error(err), zap.String("interview_id", interview.ID))
	}
	return nil
}

// evaluate invoca el LLM y degrada a defaults neutros ante cualquier fallo.
func (s *SessionService) evaluate(ctx context.Context, questionText, answer string) FeedbackResult {
	if s.llmClient == nil {
		return DefaultFeedback()
	}

	prompt := buildFeedbackPrompt(questionText, answer)
	raw, err := s.llmClient.Generate(ctx, feedbackSystemPrompt, prompt)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("feedback generation failed, using default", zap.Error(err))
		}
		metrics.RecordLLMFallback("feedback")
		return DefaultFeedback()
	}
	return ParseFeedbackResponse(raw)
}

func buildFeedbackPrompt(questionText, answer string) string {
	return fmt.Sprintf(`You are an expert interviewer evaluating a candidate's answer to a technical interview question.

Question: %s

Candidate's Answer: %s

Please provide:
1. Detailed feedback on the answer (strengths, weaknesses, missing points)
2. A score from 1-10

Format your response as a JSON object with 'feedback' and 'score' fields.`, questionText, answer)
}
