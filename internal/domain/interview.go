package domain

import (
	"strings"
	"time"
)

const (
	CategoryTechnical   = "technical"
	CategoryBehavioral  = "behavioral"
	CategorySituational = "situational"
	CategorySoftSkills  = "soft-skills"

	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// NormalizeCategory mapea cualquier string a una categoria conocida.
// Categorias desconocidas o vacias caen en "technical".
func NormalizeCategory(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case CategoryBehavioral:
		return CategoryBehavioral
	case CategorySituational:
		return CategorySituational
	case CategorySoftSkills, "soft skills":
		return CategorySoftSkills
	default:
		return CategoryTechnical
	}
}

// NormalizeDifficulty valida la dificultad; devuelve "" si no es conocida.
func NormalizeDifficulty(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DifficultyBeginner:
		return DifficultyBeginner
	case DifficultyIntermediate:
		return DifficultyIntermediate
	case DifficultyAdvanced:
		return DifficultyAdvanced
	default:
		return ""
	}
}

type Interview struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Category    string     `json:"category"`
	Difficulty  string     `json:"difficulty"`
	Questions   []Question `json:"questions,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Completed   bool       `json:"completed"`
	Duration    int        `json:"duration"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Question es una pregunta embebida en una entrevista, identificada por UUID
// propio para que skip/answer no dependan de indices posicionales.
type Question struct {
	ID           string `json:"id"`
	InterviewID  string `json:"interview_id"`
	QuestionText string `json:"question_text"`
	Explanation  string `json:"explanation,omitempty"`
	AIGenerated  bool   `json:"ai_generated"`
	Skipped      bool   `json:"skipped"`
	Answer       string `json:"answer"`
	Feedback     string `json:"feedback"`
	Score        int    `json:"score,omitempty"`
	Position     int    `json:"position"`
}

// Answered indica si la pregunta ya tiene respuesta no vacia.
func (q Question) Answered() bool {
	return strings.TrimSpace(q.Answer) != ""
}

// Resolved indica si la pregunta ya no bloquea la completitud de la entrevista.
func (q Question) Resolved() bool {
	return q.Answered() || q.Skipped
}

// AllResolved indica si todas las preguntas tienen respuesta o fueron saltadas.
func AllResolved(questions []Question) bool {
	for _, q := range questions {
		if !q.Resolved() {
			return false
		}
	}
	return true
}

// CompletionDuration calcula la duracion en segundos, nunca negativa.
func CompletionDuration(startedAt, completedAt time.Time) int {
	seconds := int(completedAt.Sub(startedAt).Seconds())
	if seconds < 0 {
		return 0
	}
	return seconds
}
