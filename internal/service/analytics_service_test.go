package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"prepinter/internal/domain"
)

func TestAnalyticsProgress_EmptyUser(t *testing.T) {
	svc := NewAnalyticsService(newMockInterviewRepo(), &mockScoredSessionRepo{})

	report, err := svc.Progress(context.Background(), "ghost", 0, 0)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if report.TotalStats.TotalInterviews != 0 || report.TotalStats.CompletionRate != 0 {
		t.Fatalf("empty user should yield zeroed totals: %+v", report.TotalStats)
	}
	if len(report.CategoryBreakdown) != 0 || len(report.MonthlyProgress) != 0 {
		t.Fatalf("empty user should yield no breakdowns")
	}
}

func TestAnalyticsProgress_TotalsAndBreakdown(t *testing.T) {
	interviews := newMockInterviewRepo()
	sessions := &mockScoredSessionRepo{}
	svc := NewAnalyticsService(interviews, sessions)

	now := time.Now().UTC()
	completedAt := now
	seed := []domain.Interview{
		{ID: "a", UserID: "u1", Category: "technical", Completed: true, CompletedAt: &completedAt, Duration: 300, CreatedAt: now},
		{ID: "b", UserID: "u1", Category: "technical", Completed: false, CreatedAt: now},
		{ID: "c", UserID: "u1", Category: "behavioral", Completed: true, CompletedAt: &completedAt, Duration: 120, CreatedAt: now.AddDate(0, -2, 0)},
		{ID: "d", UserID: "someone-else", Category: "technical", Completed: true, CreatedAt: now},
	}
	for _, iv := range seed {
		if err := interviews.Create(context.Background(), iv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	sessions.sessions = append(sessions.sessions,
		domain.ScoredSession{ID: "s1", UserID: "u1", Scores: []int{8, 6}, CreatedAt: now},
		domain.ScoredSession{ID: "s2", UserID: "u1", Scores: []int{7}, CreatedAt: now},
	)

	report, err := svc.Progress(context.Background(), "u1", int(now.Month()), now.Year())
	if err != nil {
		t.Fatalf("progress: %v", err)
	}

	if report.TotalStats.TotalInterviews != 3 || report.TotalStats.CompletedInterviews != 2 {
		t.Fatalf("totals wrong: %+v", report.TotalStats)
	}
	if report.TotalStats.CompletionRate != 66.7 {
		t.Fatalf("completion rate = %v, want 66.7", report.TotalStats.CompletionRate)
	}
	if report.TotalStats.AverageScore != 7.0 {
		t.Fatalf("average score = %v, want 7.0", report.TotalStats.AverageScore)
	}

	if report.CurrentMonth.Interviews != 2 || report.CurrentMonth.Completed != 1 || report.CurrentMonth.TotalDuration != 300 {
		t.Fatalf("current month wrong: %+v", report.CurrentMonth)
	}

	if len(report.CategoryBreakdown) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(report.CategoryBreakdown))
	}
	// Orden alfabetico estable.
	if report.CategoryBreakdown[0].Category != "behavioral" || report.CategoryBreakdown[1].Category != "technical" {
		t.Fatalf("breakdown order wrong: %+v", report.CategoryBreakdown)
	}
	if report.CategoryBreakdown[1].Count != 2 || report.CategoryBreakdown[1].Completed != 1 {
		t.Fatalf("technical stats wrong: %+v", report.CategoryBreakdown[1])
	}

	if len(report.MonthlyProgress) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %d", len(report.MonthlyProgress))
	}
	last := report.MonthlyProgress[len(report.MonthlyProgress)-1]
	if last.Year != now.Year() || last.Month != int(now.Month()) || last.Interviews != 2 {
		t.Fatalf("latest monthly bucket wrong: %+v", last)
	}
}

func TestAnalyticsHistory_Pagination(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewAnalyticsService(interviews, &mockScoredSessionRepo{})

	base := time.Now().UTC()
	for i := 0; i < 7; i++ {
		iv := domain.Interview{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Questions: []domain.Question{{ID: "q", Answer: "secret", Feedback: "hidden", Score: 9}},
		}
		if err := interviews.Create(context.Background(), iv); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	page1, pg, err := svc.History(context.Background(), "u1", 1, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(page1) != 3 {
		t.Fatalf("expected 3 interviews, got %d", len(page1))
	}
	if pg.TotalInterviews != 7 || pg.TotalPages != 3 || !pg.HasNext || pg.HasPrev {
		t.Fatalf("pagination wrong: %+v", pg)
	}
	// Mas reciente primero y sin respuestas ni feedback.
	if page1[0].ID != "g" {
		t.Fatalf("expected newest first, got %q", page1[0].ID)
	}
	if page1[0].Questions[0].Answer != "" || page1[0].Questions[0].Feedback != "" {
		t.Fatalf("history must omit answers and feedback: %+v", page1[0].Questions[0])
	}

	last, pg, err := svc.History(context.Background(), "u1", 3, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(last) != 1 || pg.HasNext || !pg.HasPrev {
		t.Fatalf("last page wrong: %d items, %+v", len(last), pg)
	}

	// Defaults cuando los parametros vienen fuera de rango.
	_, pg, err = svc.History(context.Background(), "u1", 0, 0)
	if err != nil {
		t.Fatalf("history defaults: %v", err)
	}
	if pg.CurrentPage != 1 || pg.TotalPages != 1 {
		t.Fatalf("default paging wrong: %+v", pg)
	}
}

func TestAnalyticsInsights_NoSessions(t *testing.T) {
	svc := NewAnalyticsService(newMockInterviewRepo(), &mockScoredSessionRepo{})

	insights, err := svc.Insights(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.TotalSessions != 0 || insights.RecentAverage != 0 || insights.AverageDuration != 0 {
		t.Fatalf("empty insights should be zero: %+v", insights)
	}
}

func TestAnalyticsInsights_RecentVsPrevious(t *testing.T) {
	sessions := &mockScoredSessionRepo{}
	svc := NewAnalyticsService(newMockInterviewRepo(), sessions)

	base := time.Now().UTC()
	// 10 sesiones: las 5 mas recientes promedian 8, las 5 anteriores 6.
	for i := 0; i < 5; i++ {
		sessions.sessions = append(sessions.sessions, domain.ScoredSession{
			ID: "old", UserID: "u1", Scores: []int{6}, Duration: 600,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	for i := 0; i < 5; i++ {
		sessions.sessions = append(sessions.sessions, domain.ScoredSession{
			ID: "new", UserID: "u1", Scores: []int{8}, Duration: 300,
			CreatedAt: base.Add(time.Duration(10+i) * time.Minute),
		})
	}

	insights, err := svc.Insights(context.Background(), "u1")
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.TotalSessions != 10 {
		t.Fatalf("total sessions = %d", insights.TotalSessions)
	}
	if insights.RecentAverage != 8 || insights.PreviousAverage != 6 || insights.Improvement != 2 {
		t.Fatalf("averages wrong: %+v", insights)
	}
	// (5*300 + 5*600) / 10 / 60 = 7.5 minutos.
	if insights.AverageDuration != 7.5 {
		t.Fatalf("average duration = %v, want 7.5", insights.AverageDuration)
	}
}

func TestAnalyticsInsights_FewSessionsSkipComparison(t *testing.T) {
	sessions := &mockScoredSessionRepo{}
	svc := NewAnalyticsService(newMockInterviewRepo(), sessions)
	sessions.sessions = append(sessions.sessions, domain.ScoredSession{
		ID: "s1", UserID: "u1", Scores: []int{9}, Duration: 120, CreatedAt: time.Now().UTC(),
	})

	insights, err := svc.Insights(context.Background(), "u1")
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.RecentAverage != 9 || insights.PreviousAverage != 0 || insights.Improvement != 0 {
		t.Fatalf("single-session insights wrong: %+v", insights)
	}
	if insights.AverageDuration != 2 {
		t.Fatalf("average duration = %v, want 2", insights.AverageDuration)
	}
}

func TestAnalyticsLatest(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewAnalyticsService(interviews, &mockScoredSessionRepo{})

	latest, err := svc.Latest(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Fatalf("expected nil for user without interviews")
	}

	now := time.Now().UTC()
	_ = interviews.Create(context.Background(), domain.Interview{ID: "old", UserID: "u1", Category: "technical", CreatedAt: now.Add(-time.Hour)})
	_ = interviews.Create(context.Background(), domain.Interview{ID: "new", UserID: "u1", Category: "behavioral", Difficulty: "advanced", Completed: true, Duration: 90, CreatedAt: now})

	latest, err = svc.Latest(context.Background(), "u1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != "new" || latest.Category != "behavioral" || !latest.Completed || latest.Duration != 90 {
		t.Fatalf("latest wrong: %+v", latest)
	}
}

func TestAnalyticsRecommendations_ColdStart(t *testing.T) {
	svc := NewAnalyticsService(newMockInterviewRepo(), &mockScoredSessionRepo{})

	recs, err := svc.Recommendations(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if recs != coldStartRecommendation {
		t.Fatalf("expected cold-start recommendation, got %q", recs)
	}
}

func TestAnalyticsRecommendations_UsesAnsweredQuestions(t *testing.T) {
	interviews := newMockInterviewRepo()
	svc := NewAnalyticsService(interviews, &mockScoredSessionRepo{})

	completedAt := time.Now().UTC()
	iv := domain.Interview{
		ID: "iv1", UserID: "u1", Completed: true, CompletedAt: &completedAt, CreatedAt: completedAt,
		Questions: []domain.Question{
			{ID: "q1", QuestionText: "Tell me about a technical challenge.", Answer: "short"},
			{ID: "q2", QuestionText: "Anything else?", Answer: ""},
		},
	}
	if err := interviews.Create(context.Background(), iv); err != nil {
		t.Fatalf("seed: %v", err)
	}

	recs, err := svc.Recommendations(context.Background(), "u1")
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	// Respuesta corta sin estructura STAR: ambas sugerencias deben aparecer.
	if !strings.Contains(recs, "STAR method") {
		t.Fatalf("expected STAR recommendation in %q", recs)
	}
	if !strings.Contains(recs, "more detailed answers") {
		t.Fatalf("expected detail recommendation in %q", recs)
	}
}

func TestGenerateRecommendations_StrongAnswersGetGenericTips(t *testing.T) {
	answer := strings.Repeat("In that situation my task was to take action on the api result. ", 4)
	pairs := []domain.QAPair{{Question: "Describe your approach.", Answer: answer}}

	recs := GenerateRecommendations(pairs)
	if strings.Contains(recs, "STAR method") {
		t.Fatalf("STAR already covered, should not recommend it: %q", recs)
	}
	if !strings.Contains(recs, "Practice answering common interview questions") {
		t.Fatalf("expected generic tips, got %q", recs)
	}
}
