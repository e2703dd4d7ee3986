package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"prepinter/internal/domain"
	"prepinter/internal/repository"
)

// AnalyticsService computa resumenes de progreso sobre las entrevistas de un
// usuario. Todas las operaciones son de solo lectura.
type AnalyticsService struct {
	interviews repository.InterviewRepository
	sessions   repository.SessionRepository
}

func NewAnalyticsService(interviews repository.InterviewRepository, sessions repository.SessionRepository) *AnalyticsService {
	return &AnalyticsService{
		interviews: interviews,
		sessions:   sessions,
	}
}

type MonthSummary struct {
	Interviews    int `json:"interviews"`
	Completed     int `json:"completed"`
	TotalDuration int `json:"totalDuration"`
}

type TotalStats struct {
	TotalInterviews     int     `json:"totalInterviews"`
	CompletedInterviews int     `json:"completedInterviews"`
	CompletionRate      float64 `json:"completionRate"`
	AverageScore        float64 `json:"averageScore"`
}

type CategoryStat struct {
	Category  string `json:"category"`
	Count     int    `json:"count"`
	Completed int    `json:"completed"`
}

type MonthlyStat struct {
	Month         int `json:"month"`
	Year          int `json:"year"`
	Interviews    int `json:"interviews"`
	Completed     int `json:"completed"`
	TotalDuration int `json:"totalDuration"`
}

type ProgressReport struct {
	CurrentMonth      MonthSummary   `json:"currentMonth"`
	TotalStats        TotalStats     `json:"totalStats"`
	CategoryBreakdown []CategoryStat `json:"categoryBreakdown"`
	MonthlyProgress   []MonthlyStat  `json:"monthlyProgress"`
}

// Progress arma el reporte de progreso: mes pedido (o actual), totales
// historicos, breakdown por categoria y tendencia de 6 meses.
func (s *AnalyticsService) Progress(ctx context.Context, userID string, month, year int) (ProgressReport, error) {
	now := time.Now().UTC()
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		month = int(now.Month())
	}

	interviews, err := s.interviews.ListByUser(ctx, userID)
	if err != nil {
		return ProgressReport{}, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	sixMonthsAgo := now.AddDate(0, -6, 0)

	report := ProgressReport{}
	byCategory := map[string]*CategoryStat{}
	byMonth := map[[2]int]*MonthlyStat{}

	for _, iv := range interviews {
		report.TotalStats.TotalInterviews++
		if iv.Completed {
			report.TotalStats.CompletedInterviews++
		}

		if !iv.CreatedAt.Before(monthStart) && iv.CreatedAt.Before(monthEnd) {
			report.CurrentMonth.Interviews++
			if iv.Completed {
				report.CurrentMonth.Completed++
			}
			report.CurrentMonth.TotalDuration += iv.Duration
		}

		cat, ok := byCategory[iv.Category]
		if !ok {
			cat = &CategoryStat{Category: iv.Category}
			byCategory[iv.Category] = cat
		}
		cat.Count++
		if iv.Completed {
			cat.Completed++
		}

		if iv.CreatedAt.After(sixMonthsAgo) {
			key := [2]int{iv.CreatedAt.Year(), int(iv.CreatedAt.Month())}
			ms, ok := byMonth[key]
			if !ok {
				ms = &MonthlyStat{Year: key[0], Month: key[1]}
				byMonth[key] = ms
			}
			ms.Interviews++
			if iv.Completed {
				ms.Completed++
			}
			ms.TotalDuration += iv.Duration
		}
	}

	if report.TotalStats.TotalInterviews > 0 {
		report.TotalStats.CompletionRate = round1(float64(report.TotalStats.CompletedInterviews) / float64(report.TotalStats.TotalInterviews) * 100)
	}

	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return ProgressReport{}, err
	}
	scoreSum, scoreCount := 0, 0
	for _, sess := range sessions {
		for _, sc := range sess.Scores {
			scoreSum += sc
			scoreCount++
		}
	}
	if scoreCount > 0 {
		report.TotalStats.AverageScore = round1(float64(scoreSum) / float64(scoreCount))
	}

	for _, cat := range byCategory {
		report.CategoryBreakdown = append(report.CategoryBreakdown, *cat)
	}
	sort.Slice(report.CategoryBreakdown, func(i, j int) bool {
		return report.CategoryBreakdown[i].Category < report.CategoryBreakdown[j].Category
	})

	for _, ms := range byMonth {
		report.MonthlyProgress = append(report.MonthlyProgress, *ms)
	}
	sort.Slice(report.MonthlyProgress, func(i, j int) bool {
		if report.MonthlyProgress[i].Year != report.MonthlyProgress[j].Year {
			return report.MonthlyProgress[i].Year < report.MonthlyProgress[j].Year
		}
		return report.MonthlyProgress[i].Month < report.MonthlyProgress[j].Month
	})

	return report, nil
}

type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalInterviews int  `json:"totalInterviews"`
	HasNext         bool `json:"hasNext"`
	HasPrev         bool `json:"hasPrev"`
}

// History devuelve el historial paginado, mas reciente primero, con las
// respuestas y el feedback de cada pregunta omitidos.
func (s *AnalyticsService) History(ctx context.Context, userID string, page, limit int) ([]domain.Interview, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	interviews, total, err := s.interviews.ListByUserPaged(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := (total + limit - 1) / limit
	return interviews, Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalInterviews: total,
		HasNext:         page < totalPages,
		HasPrev:         page > 1,
	}, nil
}

type Insights struct {
	RecentAverage   float64 `json:"recentAverage"`
	PreviousAverage float64 `json:"previousAverage"`
	Improvement     float64 `json:"improvement"`
	TotalSessions   int     `json:"totalSessions"`
	AverageDuration float64 `json:"averageDuration"`
}

// Insights compara el promedio de las 5 sesiones mas recientes contra las 5
// anteriores. Denominadores en cero producen 0, nunca errores de division.
func (s *AnalyticsService) Insights(ctx context.Context, userID string) (Insights, error) {
	sessions, err := s.sessions.ListRecentByUser(ctx, userID, 10)
	if err != nil {
		return Insights{}, err
	}

	scores := make([]float64, len(sessions))
	durationSum := 0
	for i, sess := range sessions {
		scores[i] = sess.AverageScore()
		durationSum += sess.Duration
	}

	out := Insights{TotalSessions: len(sessions)}
	if len(scores) > 0 {
		out.RecentAverage = round1(mean(scores[:minInt(5, len(scores))]))
		out.AverageDuration = round1(float64(durationSum) / float64(len(sessions)) / 60)
	}
	if len(scores) > 5 {
		out.PreviousAverage = round1(mean(scores[5:minInt(10, len(scores))]))
		out.Improvement = round1(mean(scores[:5]) - mean(scores[5:minInt(10, len(scores))]))
	}
	return out, nil
}

// LatestInterview es el resumen de la ultima entrevista del usuario.
type LatestInterview struct {
	ID         string    `json:"id"`
	Category   string    `json:"category"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
	Completed  bool      `json:"completed"`
	Duration   int       `json:"duration"`
}

// Latest devuelve el resumen de la ultima entrevista, o nil si no hay ninguna.
func (s *AnalyticsService) Latest(ctx context.Context, userID string) (*LatestInterview, error) {
	iv, err := s.interviews.GetLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &LatestInterview{
		ID:         iv.ID,
		Category:   iv.Category,
		Difficulty: iv.Difficulty,
		CreatedAt:  iv.CreatedAt,
		Completed:  iv.Completed,
		Duration:   iv.Duration,
	}, nil
}

// Recommendations reune hasta 10 pares pregunta/respuesta de las 5 entrevistas
// completadas mas recientes y aplica la heuristica determinista.
func (s *AnalyticsService) Recommendations(ctx context.Context, userID string) (string, error) {
	interviews, err := s.interviews.ListCompletedRecent(ctx, userID, 5)
	if err != nil {
		return "", err
	}

	var qaPairs []domain.QAPair
	for _, iv := range interviews {
		for _, q := range iv.Questions {
			if q.Answered() {
				qaPairs = append(qaPairs, domain.QAPair{Question: q.QuestionText, Answer: q.Answer})
			}
			if len(qaPairs) >= 10 {
				break
			}
		}
		if len(qaPairs) >= 10 {
			break
		}
	}

	if len(qaPairs) == 0 {
		return coldStartRecommendation, nil
	}
	return GenerateRecommendations(qaPairs), nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
