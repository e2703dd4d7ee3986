package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"prepinter/internal/domain"
	"prepinter/internal/llm"
)

func seedActiveInterview(t *testing.T, interviews *mockInterviewRepo, userID string, questionCount int) domain.Interview {
	t.Helper()
	interview := domain.Interview{
		ID:     "iv-" + userID,
		UserID: userID,
	}
	for i := 0; i < questionCount; i++ {
		interview.Questions = append(interview.Questions, domain.Question{
			ID:           interview.ID + "-q" + string(rune('0'+i)),
			InterviewID:  interview.ID,
			QuestionText: "question",
			Position:     i,
		})
	}
	if err := interviews.Create(context.Background(), interview); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return interview
}

func TestSessionServiceSubmit_NilClientUsesDefaults(t *testing.T) {
	interviews := newMockInterviewRepo()
	sessions := &mockScoredSessionRepo{}
	svc := NewSessionService(zap.NewNop(), interviews, sessions, nil)
	interview := seedActiveInterview(t, interviews, "u1", 2)

	result, err := svc.Submit(context.Background(), "u1", interview.Questions[0].ID, "my answer")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := DefaultFeedback()
	if result.Feedback != want.Feedback || result.Score != want.Score {
		t.Fatalf("expected default feedback, got %+v", result)
	}

	stored, err := interviews.GetByID(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Questions[0].Answer != "my answer" || stored.Questions[0].Score != want.Score {
		t.Fatalf("answer not persisted: %+v", stored.Questions[0])
	}
	if stored.Completed {
		t.Fatalf("interview should stay open with one question pending")
	}
}

func TestSessionServiceSubmit_LastAnswerCompletesInterview(t *testing.T) {
	interviews := newMockInterviewRepo()
	sessions := &mockScoredSessionRepo{}
	client := &llm.MockClient{Response: `{"feedback": "solid structure", "score": 8}`}
	svc := NewSessionService(zap.NewNop(), interviews, sessions, client)
	interview := seedActiveInterview(t, interviews, "u1", 1)

	result, err := svc.Submit(context.Background(), "u1", interview.Questions[0].ID, "my answer")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 8 || result.Feedback != "solid structure" {
		t.Fatalf("unexpected feedback result: %+v", result)
	}

	stored, _ := interviews.GetByID(context.Background(), interview.ID)
	if !stored.Completed {
		t.Fatalf("interview should complete when every question is resolved")
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("expected one scored session, got %d", len(sessions.sessions))
	}
	session := sessions.sessions[0]
	if session.UserID != "u1" || session.InterviewID != interview.ID {
		t.Fatalf("session not linked: %+v", session)
	}
	if len(session.QAPairs) != 1 || len(session.Scores) != 1 || session.Scores[0] != 8 {
		t.Fatalf("session qa/scores wrong: %+v", session)
	}
}

func TestSessionServiceSubmit_UnknownQuestion(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewSessionService(zap.NewNop(), interviews, &mockScoredSessionRepo{}, nil)
	seedActiveInterview(t, interviews, "u1", 1)

	if _, err := svc.Submit(context.Background(), "u1", "nope", "x"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSessionServiceSubmit_OtherUsersQuestion(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewSessionService(zap.NewNop(), interviews, &mockScoredSessionRepo{}, nil)
	interview := seedActiveInterview(t, interviews, "owner", 1)

	if _, err := svc.Submit(context.Background(), "intruder", interview.Questions[0].ID, "x"); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound for foreign question, got %v", err)
	}
}

func TestSessionServiceNextQuestion_ReturnsFirstUnresolved(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewSessionService(zap.NewNop(), interviews, &mockScoredSessionRepo{}, nil)
	interview := seedActiveInterview(t, interviews, "u1", 3)

	if err := interviews.UpdateQuestionAnswer(context.Background(), interview.Questions[0].ID, "done", "", 0); err != nil {
		t.Fatalf("seed answer: %v", err)
	}

	out, err := svc.NextQuestion(context.Background(), "u1")
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if out.Completed {
		t.Fatalf("should not report completed with pending questions")
	}
	if out.QuestionID != interview.Questions[1].ID {
		t.Fatalf("expected second question, got %q", out.QuestionID)
	}
	if out.InterviewID != interview.ID {
		t.Fatalf("interview id mismatch")
	}
}

func TestSessionServiceNextQuestion_AllResolvedCompletes(t *testing.T) {
	interviews := newMockInterviewRepo()
	sessions := &mockScoredSessionRepo{}
	svc := NewSessionService(zap.NewNop(), interviews, sessions, nil)
	interview := seedActiveInterview(t, interviews, "u1", 1)
	if err := interviews.MarkQuestionSkipped(context.Background(), interview.Questions[0].ID); err != nil {
		t.Fatalf("seed skip: %v", err)
	}

	out, err := svc.NextQuestion(context.Background(), "u1")
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if !out.Completed {
		t.Fatalf("expected completion flag")
	}
	stored, _ := interviews.GetByID(context.Background(), interview.ID)
	if !stored.Completed {
		t.Fatalf("interview not marked completed")
	}
	// Sin preguntas respondidas la sesion puntuada queda vacia pero existe.
	if len(sessions.sessions) != 1 {
		t.Fatalf("expected scored session, got %d", len(sessions.sessions))
	}
	if len(sessions.sessions[0].QAPairs) != 0 {
		t.Fatalf("skipped-only session should carry no qa pairs")
	}
}

func TestSessionServiceNextQuestion_NoActiveInterview(t *testing.T) {
	svc := NewSessionService(zap.NewNop(), newMockInterviewRepo(), &mockScoredSessionRepo{}, nil)

	if _, err := svc.NextQuestion(context.Background(), "ghost"); !errors.Is(err, ErrNoActiveInterview) {
		t.Fatalf("expected ErrNoActiveInterview, got %v", err)
	}
}

func TestSessionServiceSkip_MarksAndCompletesOnLast(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewSessionService(zap.NewNop(), interviews, &mockScoredSessionRepo{}, nil)
	interview := seedActiveInterview(t, interviews, "u1", 2)

	first, err := svc.Skip(context.Background(), "u1")
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if first.Completed {
		t.Fatalf("should not complete with one question left")
	}
	if first.QuestionID != interview.Questions[0].ID {
		t.Fatalf("expected first question skipped, got %q", first.QuestionID)
	}

	second, err := svc.Skip(context.Background(), "u1")
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if !second.Completed {
		t.Fatalf("skipping the last question should complete the interview")
	}

	stored, _ := interviews.GetByID(context.Background(), interview.ID)
	for i, q := range stored.Questions {
		if !q.Skipped {
			t.Fatalf("question %d not marked skipped", i)
		}
	}
}

func TestSessionServiceComplete_IdempotentAndOwned(t *testing.T) {
	interviews := newMockInterviewRepo()
	sessions := &mockScoredSessionRepo{}
	svc := NewSessionService(zap.NewNop(), interviews, sessions, nil)
	interview := seedActiveInterview(t, interviews, "u1", 2)

	owner := domain.User{ID: "u1", Role: domain.RoleFree}
	completed, err := svc.Complete(context.Background(), interview.ID, owner)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !completed.Completed {
		t.Fatalf("interview not completed")
	}

	again, err := svc.Complete(context.Background(), interview.ID, owner)
	if err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if !again.Completed {
		t.Fatalf("idempotent complete lost the flag")
	}
	if len(sessions.sessions) != 1 {
		t.Fatalf("repeat complete must not create another session, got %d", len(sessions.sessions))
	}

	if _, err := svc.Complete(context.Background(), interview.ID, domain.User{ID: "other", Role: domain.RoleFree}); !errors.Is(err, ErrInterviewForbidden) {
		t.Fatalf("expected ErrInterviewForbidden, got %v", err)
	}
	if _, err := svc.Complete(context.Background(), "missing", owner); !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}
}
