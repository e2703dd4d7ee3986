package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"prepinter/internal/domain"
)

func newInterviewServiceForTest(interviews *mockInterviewRepo, users *mockUsersRepo) *InterviewService {
	questions := NewQuestionService(nil, zap.NewNop())
	return NewInterviewService(zap.NewNop(), interviews, users, questions, 5, 5)
}

func freeUser(id string) domain.User {
	return domain.User{ID: id, Email: id + "@example.com", Role: domain.RoleFree}
}

func TestInterviewServiceStart_CreatesInterviewWithQuestions(t *testing.T) {
	interviews := newMockInterviewRepo()
	users := newMockUsersRepo()
	user := freeUser("u1")
	users.byID[user.ID] = user
	svc := newInterviewServiceForTest(interviews, users)

	interview, err := svc.Start(context.Background(), user, "technical", "beginner")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if interview.Completed {
		t.Fatalf("new interview must not be completed")
	}
	if len(interview.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(interview.Questions))
	}
	for i, q := range interview.Questions {
		if q.ID == "" {
			t.Fatalf("question %d missing id", i)
		}
		if q.Position != i {
			t.Fatalf("question %d has position %d", i, q.Position)
		}
		if q.InterviewID != interview.ID {
			t.Fatalf("question %d not linked to interview", i)
		}
	}
	if users.byID[user.ID].InterviewsTaken != 1 {
		t.Fatalf("expected interviews_taken incremented")
	}
}

func TestInterviewServiceStart_MissingDifficulty(t *testing.T) {
	svc := newInterviewServiceForTest(newMockInterviewRepo(), newMockUsersRepo())

	if _, err := svc.Start(context.Background(), freeUser("u1"), "technical", ""); !errors.Is(err, ErrMissingDifficulty) {
		t.Fatalf("expected ErrMissingDifficulty, got %v", err)
	}
	if _, err := svc.Start(context.Background(), freeUser("u1"), "technical", "impossible"); !errors.Is(err, ErrMissingDifficulty) {
		t.Fatalf("expected ErrMissingDifficulty for unknown difficulty, got %v", err)
	}
}

func TestInterviewServiceStart_FreeTierQuota(t *testing.T) {
	interviews := newMockInterviewRepo()
	users := newMockUsersRepo()
	user := freeUser("u1")
	users.byID[user.ID] = user
	svc := newInterviewServiceForTest(interviews, users)

	for i := 0; i < 5; i++ {
		if _, err := svc.Start(context.Background(), user, "technical", "beginner"); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
	}

	if _, err := svc.Start(context.Background(), user, "technical", "beginner"); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded on sixth interview, got %v", err)
	}
}

func TestInterviewServiceStart_PaidUserSkipsQuota(t *testing.T) {
	interviews := newMockInterviewRepo()
	users := newMockUsersRepo()
	user := domain.User{ID: "u1", Role: domain.RolePaid}
	users.byID[user.ID] = user
	svc := newInterviewServiceForTest(interviews, users)

	for i := 0; i < 7; i++ {
		if _, err := svc.Start(context.Background(), user, "behavioral", "advanced"); err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
	}
}

func TestInterviewServiceGetByID_Ownership(t *testing.T) {
	interviews := newMockInterviewRepo()
	users := newMockUsersRepo()
	owner := freeUser("owner")
	users.byID[owner.ID] = owner
	svc := newInterviewServiceForTest(interviews, users)

	interview, err := svc.Start(context.Background(), owner, "technical", "beginner")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), interview.ID, freeUser("intruder")); !errors.Is(err, ErrInterviewForbidden) {
		t.Fatalf("expected ErrInterviewForbidden, got %v", err)
	}

	admin := domain.User{ID: "boss", Role: domain.RoleAdmin}
	if _, err := svc.GetByID(context.Background(), interview.ID, admin); err != nil {
		t.Fatalf("admin should bypass ownership: %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "missing", owner); !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("expected ErrInterviewNotFound, got %v", err)
	}
}

func TestInterviewServiceUpdate_AppliesAnswersAndCompletes(t *testing.T) {
	interviews := newMockInterviewRepo()
	users := newMockUsersRepo()
	user := freeUser("u1")
	users.byID[user.ID] = user
	svc := newInterviewServiceForTest(interviews, users)

	interview, err := svc.Start(context.Background(), user, "technical", "beginner")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	qID := interview.Questions[0].ID
	updated, err := svc.Update(context.Background(), interview.ID, user, UpdateInterviewInput{
		Answers:   map[string]string{qID: "my answer", "not-a-question": "ignored"},
		Completed: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Completed {
		t.Fatalf("expected interview completed")
	}
	if updated.CompletedAt == nil {
		t.Fatalf("expected completed_at set")
	}
	if updated.Duration < 0 {
		t.Fatalf("duration must not be negative, got %d", updated.Duration)
	}

	found := false
	for _, q := range updated.Questions {
		if q.ID == qID {
			found = true
			if q.Answer != "my answer" {
				t.Fatalf("expected answer persisted, got %q", q.Answer)
			}
		}
	}
	if !found {
		t.Fatalf("question not returned after update")
	}
}

func TestInterviewServiceDelete_Ownership(t *testing.T) {
	interviews := newMockInterviewRepo()
	users := newMockUsersRepo()
	user := freeUser("u1")
	users.byID[user.ID] = user
	svc := newInterviewServiceForTest(interviews, users)

	interview, err := svc.Start(context.Background(), user, "technical", "beginner")
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := svc.Delete(context.Background(), interview.ID, freeUser("other")); !errors.Is(err, ErrInterviewForbidden) {
		t.Fatalf("expected ErrInterviewForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), interview.ID, user); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), interview.ID, user); !errors.Is(err, ErrInterviewNotFound) {
		t.Fatalf("expected interview gone, got %v", err)
	}
}
